package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leofalp/llmcall/core/config"
	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/core/schema"
	"github.com/leofalp/llmcall/providers/ai"
	"github.com/leofalp/llmcall/providers/progress"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type invokeOptions struct {
	schemaPath string
	prompt     string
	promptFile string
	system     string
	agents     []string
	retries    int
	report     bool
	parallel   int
}

// invokeResult is the JSON form of one invocation.
type invokeResult struct {
	Agent  string       `json:"agent,omitempty"`
	Value  schema.Value `json:"value"`
	Report *reportView  `json:"report,omitempty"`
}

type reportView struct {
	InvocationID    string   `json:"invocation_id"`
	Model           string   `json:"model"`
	Attempts        int      `json:"attempts"`
	Outcome         string   `json:"outcome"`
	Degraded        bool     `json:"degraded"`
	Native          bool     `json:"native"`
	Strategy        string   `json:"strategy"`
	DefaultedFields int      `json:"defaulted_fields"`
	Errors          []string `json:"errors,omitempty"`
	DurationMS      int64    `json:"duration_ms"`
}

func newReportView(r invoke.Report) *reportView {
	v := &reportView{
		InvocationID:    r.InvocationID,
		Model:           r.Model.String(),
		Attempts:        r.Attempts,
		Outcome:         string(r.Outcome),
		Degraded:        r.Degraded,
		Native:          r.Native,
		Strategy:        r.Strategy.String(),
		DefaultedFields: r.DefaultedFields,
		DurationMS:      r.Duration.Milliseconds(),
	}
	for _, err := range r.Errors {
		v.Errors = append(v.Errors, err.Error())
	}
	return v
}

func (a *app) newInvokeCmd() *cobra.Command {
	opts := &invokeOptions{}

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Ask the model for a value of a schema",
		Long: `Sends the prompt to the configured model and prints a JSON value of the
given schema. Each --agent runs its own invocation, concurrently, using the
model configured for that agent. The command succeeds even when the model
fails: the value then holds defaults.`,
		Example: `  llmcall invoke --schema signal.yaml --prompt "Analyze AAPL"
  llmcall invoke --schema signal.yaml --prompt-file filing.html --agent fundamentals --agent risk --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInvoke(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.schemaPath, "schema", "s", "", "YAML schema file (required)")
	f.StringVarP(&opts.prompt, "prompt", "p", "", "prompt text")
	f.StringVar(&opts.promptFile, "prompt-file", "", "read the prompt from a file; .html files are converted to Markdown")
	f.StringVar(&opts.system, "system", "", "system message prepended to the prompt")
	f.StringSliceVarP(&opts.agents, "agent", "a", nil, "agent name; repeat to run several agents")
	f.IntVarP(&opts.retries, "retries", "r", 0, "attempts per invocation (default from config)")
	f.BoolVar(&opts.report, "report", false, "include an invocation report in the output")
	f.IntVar(&opts.parallel, "parallel", 4, "maximum concurrent invocations")
	_ = cmd.MarkFlagRequired("schema")
	cmd.MarkFlagsMutuallyExclusive("prompt", "prompt-file")
	cmd.MarkFlagsOneRequired("prompt", "prompt-file")

	return cmd
}

func (a *app) runInvoke(cmd *cobra.Command, opts *invokeOptions) error {
	desc, err := schema.LoadFile(opts.schemaPath)
	if err != nil {
		return err
	}
	text, err := readPrompt(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	prompt := ai.TextPrompt(text)
	if opts.system != "" {
		prompt = prompt.WithSystem(opts.system)
	}

	agents := opts.agents
	if len(agents) == 0 {
		agents = []string{""}
	}

	inv := a.newInvoker(a.registry(), stderrSink(cmd.ErrOrStderr()))
	ctx := config.WithRunConfig(cmd.Context(), a.cfg.RunConfig())

	results := make([]invokeResult, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for i, agent := range agents {
		g.Go(func() error {
			value, report := inv.InvokeWithReport(gctx, invoke.Request{
				Prompt:     prompt,
				Schema:     desc,
				Agent:      agent,
				MaxRetries: opts.retries,
			})
			results[i] = invokeResult{Agent: agent, Value: value}
			if opts.report {
				results[i].Report = newReportView(report)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if len(results) == 1 && results[0].Agent == "" && !opts.report {
		return enc.Encode(results[0].Value)
	}
	return enc.Encode(results)
}

func readPrompt(stdin io.Reader, opts *invokeOptions) (string, error) {
	if opts.promptFile == "" {
		if strings.TrimSpace(opts.prompt) == "" {
			return "", errors.New("prompt is empty")
		}
		return opts.prompt, nil
	}

	data, err := readInput(stdin, opts.promptFile)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(opts.promptFile)) {
	case ".html", ".htm":
		markdown, err := htmltomarkdown.ConvertString(string(data))
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML prompt to Markdown: %w", err)
		}
		return markdown, nil
	}
	return string(data), nil
}

// stderrSink prints progress lines like "[sentiment] Error - retry 1/3".
func stderrSink(w io.Writer) progress.Sink {
	var mu sync.Mutex
	return progress.SinkFunc(func(agent, status string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s [%s] %s\n", time.Now().Format(time.TimeOnly), agent, status)
	})
}
