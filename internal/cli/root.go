package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/pipeline"
	"econ-data-pipeline/internal/store"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "econ-pipeline",
	Short: "Economic data pipeline - collects World Bank indicator series",
	Long: `econ-pipeline fetches economic indicator series from the World Bank API
for a fixed set of countries, organizes them by country and by indicator, and
writes the results as JSON documents.

Commands:
- collect: run one collection and write the output documents
- serve:   expose collection and the latest data over HTTP
- runs:    show the recorded run history`,
	// Don't show usage when there's an error
	SilenceUsage: true,
	// Don't show errors (we'll handle them ourselves)
	SilenceErrors: true,
}

func init() {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path (default $"+config.EnvConfigPath+")")
}

// Execute adds all child commands to the root command and runs it until an
// interrupt or termination signal.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens run history when configured. The returned store is nil
// when history is disabled.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return st, nil
}

func newPipeline(cfg *config.Config, st *store.Store) *pipeline.Pipeline {
	p := pipeline.NewFromConfig(cfg)
	if st != nil {
		p.WithRecorder(st)
	}
	return p
}
