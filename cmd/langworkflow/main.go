// Command langworkflow runs agents and workflows from the command line.
//
//	langworkflow ask --output-type integer "How many legs do three spiders have?"
//	langworkflow numbers --min 10 "I saw 6 cats, 15 dogs and 4401 ants"
//	langworkflow similarity "Paris" "The capital of France is Paris"
//
// The model is configured in langworkflow.yaml or with LANGWORKFLOW_* environment
// variables; OPENAI_API_KEY is used when no key is configured.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/smallnest/langworkflow/config"
	"github.com/smallnest/langworkflow/llms/openai"
	"github.com/smallnest/langworkflow/log"
	"github.com/smallnest/langworkflow/telemetry"
	"github.com/smallnest/langworkflow/workflow"
)

type app struct {
	configPath   string
	logLevel     string
	trace        bool
	printMetrics bool

	cfg      *config.Config
	tp       *sdktrace.TracerProvider
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "langworkflow",
		Short:         "Run LLM agents and workflows with typed answers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default langworkflow.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, none")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "print workflow spans to stderr")
	root.PersistentFlags().BoolVar(&a.printMetrics, "metrics", false, "print step metrics to stderr on exit")

	root.AddCommand(newAskCommand(a), newNumbersCommand(a), newSimilarityCommand(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	log.SetLogLevel(cfg.LogLevel())

	if a.trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		a.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	}

	a.registry = prometheus.NewRegistry()
	a.metrics, err = telemetry.NewMetrics(a.registry)
	return err
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.tp != nil {
		if err := a.tp.Shutdown(cmd.Context()); err != nil {
			return err
		}
	}
	if !a.printMetrics || a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) tracer() trace.Tracer {
	if a.tp == nil {
		return nil
	}
	return telemetry.Tracer(a.tp)
}

func (a *app) workflowOptions() []workflow.Option {
	opts := []workflow.Option{workflow.WithMetrics(a.metrics)}
	if t := a.tracer(); t != nil {
		opts = append(opts, workflow.WithTracer(t))
	}
	return opts
}

func (a *app) model() (*openai.LLM, error) {
	return openai.New(a.cfg.Model.Options()...)
}
