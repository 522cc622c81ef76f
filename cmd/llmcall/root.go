package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/leofalp/llmcall/core/config"
	"github.com/leofalp/llmcall/providers/observability/zapobs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what the subcommands share: flags, configuration, the logger
// and the metrics registry.
type app struct {
	configPath  string
	verbose     bool
	metricsAddr string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *prometheus.Registry
	server  *http.Server

	// newLogger is replaced in tests.
	newLogger func(level zapcore.Level) (*zap.Logger, error)
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{
		newLogger: func(level zapcore.Level) (*zap.Logger, error) {
			return zapobs.NewLogger(level, false)
		},
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "llmcall",
		Short: "Resilient structured-output LLM invocations",
		Long: `llmcall asks a language model for a JSON object of a declared shape and
always returns one: responses are extracted from free text when needed,
failed attempts are retried, and when every attempt fails a default value
of the right shape is produced.

Configuration comes from --config (YAML), a .env file and the environment
(LLMCALL_MODEL, LLMCALL_PROVIDER, OLLAMA_BASE_URL, OPENAI_API_KEY, ...).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	root.AddCommand(a.newInvokeCmd(), a.newExtractCmd(), a.newModelsCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zapobs.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = zapcore.DebugLevel
	}
	a.logger, err = a.newLogger(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(collectors.NewGoCollector())

	if a.metricsAddr != "" {
		return a.serveMetrics(cmd.Context())
	}
	return nil
}

func (a *app) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.metricsAddr, err)
	}
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

func (a *app) teardown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.server.Shutdown(ctx)
		cancel()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
