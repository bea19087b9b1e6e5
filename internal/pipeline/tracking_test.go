package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econ-data-pipeline/internal/model"
)

func TestRunTracker(t *testing.T) {
	ctx := context.Background()
	rt := NewRunTracker("run-1")
	assert.Equal(t, model.RunStatusRunning, rt.Record().Status)

	rt.StartStage(StageFetch)
	rt.RecordCollection(&Collection{
		Records: []model.Observation{obs("JPN", "SP.POP.TOTL", 2020, 1), obs("JPN", "SP.POP.TOTL", 2021, 2)},
		Outcomes: []model.PairOutcome{
			{CountryCode: "JPN", IndicatorCode: "SP.POP.TOTL", Status: model.PairOK, Records: 2},
			{CountryCode: "JPN", IndicatorCode: "NY.GDP.MKTP.CD", Status: model.PairEmpty},
			{CountryCode: "USA", IndicatorCode: "SP.POP.TOTL", Status: model.PairFailed, Error: "boom"},
		},
	})
	rt.EndStage(ctx, StageFetch, 2)
	rt.Complete(ctx)

	m := rt.Metrics()
	assert.EqualValues(t, 2, m.TotalRecords)
	assert.Equal(t, 3, m.PairsTotal)
	assert.Equal(t, 1, m.PairsOK)
	assert.Equal(t, 1, m.PairsEmpty)
	assert.Equal(t, 1, m.PairsFailed)
	require.Contains(t, m.StageMetrics, StageFetch)
	assert.EqualValues(t, 2, m.StageMetrics[StageFetch].RecordsProcessed)
	assert.False(t, m.StageMetrics[StageFetch].EndTime.Before(m.StageMetrics[StageFetch].StartTime))

	rec := rt.Record()
	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, model.RunStatusCompleted, rec.Status)
	assert.Empty(t, rec.Error)
	assert.Len(t, rt.Outcomes(), 3)

	// returned metrics are a copy
	m.StageMetrics["other"] = model.StageMetrics{}
	assert.NotContains(t, rt.Metrics().StageMetrics, "other")
}

func TestRunTracker_Fail(t *testing.T) {
	rt := NewRunTracker("run-2")
	rt.Fail(context.Background(), errors.New("no data collected"))

	rec := rt.Record()
	assert.Equal(t, model.RunStatusFailed, rec.Status)
	assert.Equal(t, "no data collected", rec.Error)
}
