// kcap shows CPU, memory, ephemeral storage and pod capacity per node or
// namespace of a Kubernetes cluster.
//
// Usage:
//
//	kcap                      # nodes, input order
//	kcap -s mem -u            # nodes sorted by memory requests, with live usage
//	kcap -t namespace -o yaml # namespaces as YAML
//	kcap -w                   # interactive view
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kcap/internal/app"
	"github.com/HaPhanBaoMinh/kcap/internal/config"
	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	kk "github.com/HaPhanBaoMinh/kcap/internal/infrastructure/k8s"
	"github.com/HaPhanBaoMinh/kcap/internal/infrastructure/mock"
	"github.com/HaPhanBaoMinh/kcap/internal/logger"
	"github.com/HaPhanBaoMinh/kcap/internal/render"
	"github.com/HaPhanBaoMinh/kcap/internal/report"
)

var version = "dev"

// newCollector can be overridden in tests.
var newCollector = defaultCollector

func defaultCollector(cfg *config.Config, log *zap.Logger) (domain.Collector, error) {
	if cfg.Mock {
		return mock.New(), nil
	}
	return kk.New(kk.Options{
		Kubeconfig:  cfg.Kubeconfig,
		Context:     cfg.Context,
		Timeout:     cfg.Timeout,
		Concurrency: cfg.Concurrency,
	}, log)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, envErr := config.Load()
	if cfg == nil {
		cfg = &config.Config{}
	}

	cmd := &cobra.Command{
		Use:   "kcap",
		Short: "Show cluster resource requests, usage and capacity",
		Long: `kcap reports CPU, memory, ephemeral storage and pod counts per node or
namespace, with each figure shown as a percentage of allocatable capacity.

Flags default to the matching KCAP_* environment variables.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&cfg.Utilization, "utilization", "u", cfg.Utilization, "show the real utilization from metrics-server")
	f.StringVarP(&cfg.Selector, "selector", "l", cfg.Selector, "filter nodes by label selector")
	f.StringVarP(&cfg.ResourceType, "type", "t", cfg.ResourceType, "resource type: node or namespace")
	f.StringVarP(&cfg.SortBy, "sort-by", "s", cfg.SortBy, "sort by cpu, mem, storage or pods")
	f.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: table, json, yaml")
	f.BoolVarP(&cfg.Watch, "watch", "w", cfg.Watch, "interactive view with periodic refresh")
	f.DurationVar(&cfg.Interval, "interval", cfg.Interval, "refresh interval for --watch")
	f.StringVar(&cfg.Kubeconfig, "kubeconfig", cfg.Kubeconfig, "path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
	f.StringVar(&cfg.Context, "context", cfg.Context, "kube context")
	f.BoolVar(&cfg.Mock, "mock", cfg.Mock, "use built-in sample data instead of a cluster")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout against the API server")
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "parallel pod list calls")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to a rotating file instead of stderr")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	typ, _ := cfg.Type()
	key, _ := cfg.SortKey()

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	// the terminal belongs to the interactive view
	if cfg.Watch && cfg.LogFile == "" {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	collector, err := newCollector(cfg, log)
	if err != nil {
		return err
	}

	opts := domain.CollectOptions{Type: typ, Selector: cfg.Selector, Utilization: cfg.Utilization}
	log.Debug("collecting",
		zap.Stringer("type", typ),
		zap.Stringer("sort", key),
		zap.Bool("utilization", cfg.Utilization))

	if cfg.Watch {
		return app.Run(ctx, collector, log, app.Config{Collect: opts, SortBy: key, Interval: cfg.Interval})
	}

	records, err := collector.Collect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to collect %s resources: %w", typ, err)
	}
	log.Info("collected", zap.Int("records", len(records)))

	rows := report.Build(records, key)
	return render.Write(out, rows, render.Options{Format: cfg.Output, ShowUsage: cfg.Utilization})
}
