package model

import "time"

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PairStatus classifies the outcome of one (country, indicator) request.
type PairStatus string

const (
	PairOK     PairStatus = "ok"     // at least one observation
	PairEmpty  PairStatus = "empty"  // the API answered but had no usable values
	PairFailed PairStatus = "failed" // network, status or payload error
)

// PairOutcome records what happened to one (country, indicator) request.
type PairOutcome struct {
	CountryCode   string        `json:"country_code"`
	IndicatorCode string        `json:"indicator_code"`
	Status        PairStatus    `json:"status"`
	Records       int           `json:"records"`
	Error         string        `json:"error,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
}

// RunMetrics represents overall metrics of one collect-and-persist run
type RunMetrics struct {
	TotalRecords   int64                   `json:"total_records"`
	PairsTotal     int                     `json:"pairs_total"`
	PairsOK        int                     `json:"pairs_ok"`
	PairsEmpty     int                     `json:"pairs_empty"`
	PairsFailed    int                     `json:"pairs_failed"`
	ProcessingTime time.Duration           `json:"processing_time"`
	StageMetrics   map[string]StageMetrics `json:"stage_metrics"`
}

// RunRecord is the persisted history entry of a run.
type RunRecord struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Metrics   RunMetrics `json:"metrics"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
