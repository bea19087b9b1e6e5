package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
)

var (
	// ErrNoData is returned when every pair contributed zero records.
	ErrNoData = errors.New("no data collected")
	// ErrClientSetup is returned when the HTTP client cannot be created.
	ErrClientSetup = errors.New("failed to set up HTTP client")
	// ErrPersist wraps a failed output write.
	ErrPersist = errors.New("failed to persist output")
)

// Collector produces the flat observation list and its per-pair report.
type Collector interface {
	Collect(ctx context.Context) (*Collection, error)
}

// RunRecorder keeps run history. Failures to record are logged, not returned
// to the caller of Run.
type RunRecorder interface {
	StartRun(ctx context.Context, run model.RunRecord) error
	FinishRun(ctx context.Context, run model.RunRecord, outcomes []model.PairOutcome) error
}

// Result is everything one successful run produced
type Result struct {
	RunID    string                  `json:"run_id"`
	Dataset  *model.OrganizedDataset `json:"dataset"`
	Records  []model.Observation     `json:"-"`
	Exports  []model.ExportResult    `json:"exports"`
	Metrics  model.RunMetrics        `json:"metrics"`
	Outcomes []model.PairOutcome     `json:"outcomes"`
}

// Pipeline wires collection, organization and persistence
type Pipeline struct {
	collector Collector
	organizer *Organizer
	exporter  *ExportManager
	recorder  RunRecorder
}

// New creates a pipeline from its stages
func New(collector Collector, organizer *Organizer, exporter *ExportManager) *Pipeline {
	return &Pipeline{collector: collector, organizer: organizer, exporter: exporter}
}

// NewFromConfig builds the reference pipeline: World Bank fetcher, catalog
// organizer and a file sink in the configured data directory.
func NewFromConfig(cfg *config.Config, opts ...FetcherOption) *Pipeline {
	return New(
		NewFetcher(cfg, opts...),
		NewOrganizer(cfg.Countries, cfg.Indicators, nil),
		NewExportManager(NewFileSink(cfg.Output.DataDir), cfg.Output),
	)
}

// WithRecorder attaches a run history recorder
func (p *Pipeline) WithRecorder(recorder RunRecorder) *Pipeline {
	p.recorder = recorder
	return p
}

// CollectAndPersist fetches every series, organizes them and writes the three
// output documents. It returns the organized dataset or the first fatal error.
func (p *Pipeline) CollectAndPersist(ctx context.Context) (*model.OrganizedDataset, error) {
	res, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	return res.Dataset, nil
}

// Run is CollectAndPersist with run metadata.
func (p *Pipeline) Run(ctx context.Context) (res *Result, err error) {
	runID := uuid.New().String()
	tracker := NewRunTracker(runID)
	ctx = klog.NewContext(ctx, klog.FromContext(ctx).WithValues("run", runID))
	log := klog.FromContext(ctx)
	log.Info("Starting data collection")

	p.recordStart(ctx, tracker)
	defer func() {
		if err != nil {
			tracker.Fail(ctx, err)
		} else {
			tracker.Complete(ctx)
			res.Metrics = tracker.Metrics()
		}
		p.recordFinish(ctx, tracker)
	}()

	// --- FETCH ---
	tracker.StartStage(StageFetch)
	collection, err := p.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	tracker.RecordCollection(collection)
	tracker.EndStage(ctx, StageFetch, int64(len(collection.Records)))

	// pairs cut off by cancellation look like ordinary failures
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collection aborted: %w", err)
	}
	if len(collection.Records) == 0 {
		return nil, ErrNoData
	}

	// --- ORGANIZE ---
	tracker.StartStage(StageOrganize)
	organized := p.organizer.Organize(collection.Records)
	tracker.EndStage(ctx, StageOrganize, int64(organized.Summary.TotalRecords))

	// --- PERSIST ---
	tracker.StartStage(StagePersist)
	exports, err := p.exporter.Export(ctx, collection.Records, organized)
	if err != nil {
		return nil, err
	}
	tracker.EndStage(ctx, StagePersist, int64(len(exports)))

	log.Info("Data collection finished", "records", organized.Summary.TotalRecords,
		"from", organized.Summary.YearRange.Min, "to", organized.Summary.YearRange.Max)

	return &Result{
		RunID:    runID,
		Dataset:  organized,
		Records:  collection.Records,
		Exports:  exports,
		Outcomes: collection.Outcomes,
	}, nil
}

func (p *Pipeline) recordStart(ctx context.Context, tracker *RunTracker) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.StartRun(ctx, tracker.Record()); err != nil {
		klog.FromContext(ctx).Error(err, "Failed to record run start")
	}
}

func (p *Pipeline) recordFinish(ctx context.Context, tracker *RunTracker) {
	if p.recorder == nil {
		return
	}
	// history is written even when the caller's context is already done
	if err := p.recorder.FinishRun(context.WithoutCancel(ctx), tracker.Record(), tracker.Outcomes()); err != nil {
		klog.FromContext(ctx).Error(fmt.Errorf("run %s: %w", tracker.RunID, err), "Failed to record run result")
	}
}
