package pipeline

import (
	"context"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/model"
)

// Stage names
const (
	StageFetch    = "fetch"
	StageOrganize = "organize"
	StagePersist  = "persist"
)

// RunTracker records stage timings and fetch outcomes of one run
type RunTracker struct {
	RunID     string
	StartTime time.Time
	Status    string

	mu       sync.RWMutex
	metrics  model.RunMetrics
	outcomes []model.PairOutcome
	err      error
}

// NewRunTracker creates a tracker in the running state
func NewRunTracker(runID string) *RunTracker {
	return &RunTracker{
		RunID:     runID,
		StartTime: time.Now(),
		Status:    model.RunStatusRunning,
		metrics: model.RunMetrics{
			StageMetrics: make(map[string]model.StageMetrics),
		},
	}
}

// StartStage marks the start of a pipeline stage
func (rt *RunTracker) StartStage(stage string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.metrics.StageMetrics[stage] = model.StageMetrics{
		StageName: stage,
		StartTime: time.Now(),
	}
}

// EndStage marks the end of a pipeline stage
func (rt *RunTracker) EndStage(ctx context.Context, stage string, recordsProcessed int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sm := rt.metrics.StageMetrics[stage]
	sm.StageName = stage
	sm.EndTime = time.Now()
	sm.Duration = sm.EndTime.Sub(sm.StartTime)
	sm.RecordsProcessed = recordsProcessed
	rt.metrics.StageMetrics[stage] = sm

	klog.FromContext(ctx).V(1).Info("Stage completed", "run", rt.RunID, "stage", stage, "records", recordsProcessed, "duration", sm.Duration)
}

// RecordCollection folds the per-pair outcomes of a collection into the metrics
func (rt *RunTracker) RecordCollection(c *Collection) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.outcomes = c.Outcomes
	rt.metrics.TotalRecords = int64(len(c.Records))
	rt.metrics.PairsTotal = len(c.Outcomes)
	rt.metrics.PairsOK, rt.metrics.PairsEmpty, rt.metrics.PairsFailed = 0, 0, 0
	for _, o := range c.Outcomes {
		switch o.Status {
		case model.PairOK:
			rt.metrics.PairsOK++
		case model.PairEmpty:
			rt.metrics.PairsEmpty++
		case model.PairFailed:
			rt.metrics.PairsFailed++
		}
	}
}

// Complete marks the run as completed
func (rt *RunTracker) Complete(ctx context.Context) {
	rt.finish(model.RunStatusCompleted, nil)
	m := rt.Metrics()
	klog.FromContext(ctx).Info("Run completed", "run", rt.RunID, "records", m.TotalRecords,
		"pairsFailed", m.PairsFailed, "pairsEmpty", m.PairsEmpty, "duration", m.ProcessingTime)
}

// Fail marks the run as failed
func (rt *RunTracker) Fail(ctx context.Context, err error) {
	rt.finish(model.RunStatusFailed, err)
	klog.FromContext(ctx).Error(err, "Run failed", "run", rt.RunID, "duration", rt.Metrics().ProcessingTime)
}

func (rt *RunTracker) finish(status string, err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.Status = status
	rt.err = err
	rt.metrics.ProcessingTime = time.Since(rt.StartTime)
}

// Metrics returns a copy of the current metrics
func (rt *RunTracker) Metrics() model.RunMetrics {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	metrics := rt.metrics
	metrics.StageMetrics = make(map[string]model.StageMetrics, len(rt.metrics.StageMetrics))
	for k, v := range rt.metrics.StageMetrics {
		metrics.StageMetrics[k] = v
	}
	return metrics
}

// Outcomes returns the per-pair outcomes recorded for the run
func (rt *RunTracker) Outcomes() []model.PairOutcome {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return append([]model.PairOutcome(nil), rt.outcomes...)
}

// Record returns the history entry for the run
func (rt *RunTracker) Record() model.RunRecord {
	rt.mu.RLock()
	status, err := rt.Status, rt.err
	rt.mu.RUnlock()

	rec := model.RunRecord{
		ID:        rt.RunID,
		Status:    status,
		Metrics:   rt.Metrics(),
		CreatedAt: rt.StartTime.UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}
