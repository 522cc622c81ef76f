// Command llmcall runs structured LLM invocations from the shell.
//
//	llmcall invoke --schema signal.yaml --prompt "Analyze AAPL" --agent sentiment --agent technicals
//	llmcall extract --schema signal.yaml response.txt
//	llmcall models
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
