package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/analysis"
	"econ-data-pipeline/internal/model"
	"econ-data-pipeline/internal/pipeline"
	"econ-data-pipeline/internal/store"
)

// Runner runs one collection
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// DocumentReader reads a persisted output document
type DocumentReader interface {
	Read(name string, v any) error
}

// RunHistory is the read side of the run store
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	GetRun(ctx context.Context, runID string) (model.RunRecord, []model.PairOutcome, error)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is returned by a successful collection
type UpdateResponse struct {
	RunID        string                  `json:"run_id"`
	EconomicData *model.OrganizedDataset `json:"economic_data"`
	Analysis     *model.Analysis         `json:"analysis"`
}

// RunResponse is a run with its per-pair outcomes
type RunResponse struct {
	Run      model.RunRecord     `json:"run"`
	Outcomes []model.PairOutcome `json:"outcomes"`
}

// Handler serves the pipeline API. History may be nil when run history is
// disabled.
type Handler struct {
	runner     Runner
	analyzer   analysis.Analyzer
	documents  DocumentReader
	latestFile string
	history    RunHistory

	// guards against overlapping collections
	running sync.Mutex
}

func New(runner Runner, analyzer analysis.Analyzer, documents DocumentReader, latestFile string, history RunHistory) *Handler {
	return &Handler{
		runner:     runner,
		analyzer:   analyzer,
		documents:  documents,
		latestFile: latestFile,
		history:    history,
	}
}

// Health reports liveness
// @Summary Health check
// @Description Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string "Service is up"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Update runs a collection and returns the organized dataset with its analysis
// @Summary Collect economic data
// @Description Fetch every configured series, persist the outputs and return the organized dataset with its analysis
// @Tags data
// @Produce json
// @Success 200 {object} UpdateResponse "Dataset collected"
// @Failure 409 {object} ErrorResponse "A collection run is already in progress"
// @Failure 500 {object} ErrorResponse "Collection failed"
// @Router /update [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.running.TryLock() {
		writeError(w, http.StatusConflict, "collection already in progress")
		return
	}
	defer h.running.Unlock()

	// a dropped client must not abort the run halfway
	ctx := context.WithoutCancel(r.Context())
	log := klog.FromContext(ctx)
	res, err := h.runner.Run(ctx)
	if err != nil {
		log.Error(err, "Collection failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.analyzer.Analyze(ctx, res.Dataset)
	if err != nil {
		log.Error(err, "Analysis failed", "run", res.RunID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UpdateResponse{
		RunID:        res.RunID,
		EconomicData: res.Dataset,
		Analysis:     result,
	})
}

// LatestData returns the most recently persisted dataset
// @Summary Latest economic data
// @Description Return the organized dataset written by the most recent successful run
// @Tags data
// @Produce json
// @Success 200 {object} model.OrganizedDataset "Organized dataset"
// @Failure 404 {object} ErrorResponse "No data collected yet"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /data/latest [get]
func (h *Handler) LatestData(w http.ResponseWriter, r *http.Request) {
	var data model.OrganizedDataset
	if err := h.documents.Read(h.latestFile, &data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no data collected yet")
			return
		}
		klog.FromContext(r.Context()).Error(err, "Failed to read latest data", "file", h.latestFile)
		writeError(w, http.StatusInternalServerError, "failed to read latest data")
		return
	}
	writeJSON(w, http.StatusOK, &data)
}

// ListRuns lists recorded runs
// @Summary List runs
// @Description List recorded pipeline runs, most recent first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} model.RunRecord "Runs"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Failure 503 {object} ErrorResponse "Run history disabled"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}

	limit := 50 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	runs, err := h.history.ListRuns(r.Context(), limit)
	if err != nil {
		klog.FromContext(r.Context()).Error(err, "Failed to list runs")
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one run with its per-pair outcomes
// @Summary Get run
// @Description Return one run with its per-pair outcomes
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunResponse "Run details"
// @Failure 404 {object} ErrorResponse "Run not found"
// @Failure 503 {object} ErrorResponse "Run history disabled"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}

	// Extract run ID from URL path
	prefix := "/api/v1/runs/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	runID := strings.TrimSuffix(r.URL.Path[len(prefix):], "/")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	run, outcomes, err := h.history.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		klog.FromContext(r.Context()).Error(err, "Failed to get run", "run", runID)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{Run: run, Outcomes: outcomes})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
