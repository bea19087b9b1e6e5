package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/api"
	"econ-data-pipeline/internal/api/handler"
	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/pipeline"
	"econ-data-pipeline/internal/store"
)

// Config comes from $PIPELINE_CONFIG or the built-in defaults.
func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		klog.ErrorS(err, "Failed to load config")
		os.Exit(1)
	}

	p := pipeline.NewFromConfig(cfg)
	var history handler.RunHistory
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			klog.ErrorS(err, "Failed to open run history", "path", cfg.Store.Path)
			os.Exit(1)
		}
		defer st.Close()
		p.WithRecorder(st)
		history = st
	}

	if err := api.NewRouter(cfg, p, history).Start(ctx, cfg.Server.Addr); err != nil {
		klog.ErrorS(err, "Server stopped")
		stop()
		klog.Flush()
		os.Exit(1)
	}
}
