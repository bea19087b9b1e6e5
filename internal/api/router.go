package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "econ-data-pipeline/docs"
	"econ-data-pipeline/internal/analysis"
	"econ-data-pipeline/internal/api/handler"
	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/pipeline"
	"econ-data-pipeline/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/api/v1/health", h.Health)
	r.POST("/api/v1/update", h.Update)
	r.GET("/api/v1/data/latest", h.LatestData)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/runs/*", h.GetRun)
	r.Prefix("/swagger/", httpSwagger.WrapHandler)
}

// NewRouter wires the handler for cfg. history may be nil.
func NewRouter(cfg *config.Config, p *pipeline.Pipeline, history handler.RunHistory) *router.Router {
	h := handler.New(p, analysis.Placeholder{}, pipeline.NewFileSink(cfg.Output.DataDir), cfg.Output.LatestFile, history)
	r := router.New()
	RegisterRoutes(r, h)
	return r
}
