package cli

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/api"
	"econ-data-pipeline/internal/api/handler"
	"econ-data-pipeline/internal/config"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API. POST /api/v1/update runs a collection; GET /api/v1/data/latest returns the last persisted dataset.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, $"+config.EnvAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	var history handler.RunHistory
	if st != nil {
		defer st.Close()
		history = st
	}

	log := klog.Background().WithName("serve")
	ctx := klog.NewContext(cmd.Context(), log)
	log.Info("Starting API server", "addr", cfg.Server.Addr, "dataDir", cfg.Output.DataDir, "history", cfg.Store.Path != "")

	return api.NewRouter(cfg, newPipeline(cfg, st), history).Start(ctx, cfg.Server.Addr)
}
