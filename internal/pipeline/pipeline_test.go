package pipeline

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
)

type stubCollector struct {
	collection *Collection
	err        error
}

func (s stubCollector) Collect(context.Context) (*Collection, error) {
	return s.collection, s.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	started  []model.RunRecord
	finished []model.RunRecord
	outcomes []model.PairOutcome
	err      error
}

func (r *fakeRecorder) StartRun(_ context.Context, run model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, run)
	return r.err
}

func (r *fakeRecorder) FinishRun(_ context.Context, run model.RunRecord, outcomes []model.PairOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, run)
	r.outcomes = outcomes
	return r.err
}

func TestPipeline_CollectAndPersist(t *testing.T) {
	fw := newFakeWorldBank(t)
	fw.set("JPN", "NY.GDP.MKTP.CD", seriesResponse{
		body: seriesBody("JPN", "Japan", map[string]*float64{"2022": f64(4.2e12), "2021": f64(5.0e12)}, "2022", "2021"),
	})
	fw.set("USA", "SL.UEM.TOTL.ZS", seriesResponse{status: http.StatusServiceUnavailable})

	dir := t.TempDir()
	cfg := testConfig(fw.URL, dir)

	organized, err := NewFromConfig(cfg).CollectAndPersist(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, organized.Summary.TotalRecords)
	assert.Equal(t, model.YearRange{Min: 2021, Max: 2022}, organized.Summary.YearRange)
	assert.Len(t, organized.ByCountry["JPN"].Data, 2)
	assert.Empty(t, organized.ByCountry["USA"].Data)
	assert.Len(t, organized.ByIndicator["NY.GDP.MKTP.CD"].Data, 2)

	for _, name := range []string{"raw-data.json", "organized-data.json", "economic-data.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	var latest model.OrganizedDataset
	require.NoError(t, NewFileSink(dir).Read(cfg.Output.LatestFile, &latest))
	assert.Equal(t, organized.Summary.TotalRecords, latest.Summary.TotalRecords)
	assert.Equal(t, organized.ByCountry["JPN"].Data, latest.ByCountry["JPN"].Data)
}

func TestPipeline_NoData(t *testing.T) {
	fw := newFakeWorldBank(t)
	fw.set("JPN", "NY.GDP.MKTP.CD", seriesResponse{status: http.StatusInternalServerError})

	dir := t.TempDir()
	recorder := &fakeRecorder{}
	p := NewFromConfig(testConfig(fw.URL, dir)).WithRecorder(recorder)

	organized, err := p.CollectAndPersist(context.Background())
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, "no data collected", err.Error())
	assert.Nil(t, organized)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written")

	require.Len(t, recorder.finished, 1)
	assert.Equal(t, model.RunStatusFailed, recorder.finished[0].Status)
	assert.Equal(t, "no data collected", recorder.finished[0].Error)
	assert.Len(t, recorder.outcomes, 4)
}

func TestPipeline_Run(t *testing.T) {
	records := []model.Observation{
		obs("JPN", "NY.GDP.MKTP.CD", 2022, 1),
		obs("USA", "SL.UEM.TOTL.ZS", 2021, 2),
	}
	collection := &Collection{
		Records: records,
		Outcomes: []model.PairOutcome{
			{CountryCode: "JPN", IndicatorCode: "NY.GDP.MKTP.CD", Status: model.PairOK, Records: 1},
			{CountryCode: "USA", IndicatorCode: "SL.UEM.TOTL.ZS", Status: model.PairOK, Records: 1},
		},
	}
	cfg := testConfig("http://localhost", t.TempDir())
	sink := newRecordingSink()
	recorder := &fakeRecorder{err: errors.New("database is locked")}

	p := New(stubCollector{collection: collection}, testOrganizer(), NewExportManager(sink, cfg.Output)).WithRecorder(recorder)
	res, err := p.Run(context.Background())
	require.NoError(t, err, "history failures do not fail the run")

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, records, res.Records)
	assert.Len(t, res.Exports, 3)
	assert.Equal(t, []string{"raw-data.json", "organized-data.json", "economic-data.json"}, sink.written)
	assert.EqualValues(t, 2, res.Metrics.TotalRecords)
	assert.Equal(t, 2, res.Metrics.PairsOK)
	assert.Contains(t, res.Metrics.StageMetrics, StagePersist)

	require.Len(t, recorder.started, 1)
	require.Len(t, recorder.finished, 1)
	assert.Equal(t, res.RunID, recorder.started[0].ID)
	assert.Equal(t, model.RunStatusRunning, recorder.started[0].Status)
	assert.Equal(t, model.RunStatusCompleted, recorder.finished[0].Status)
	assert.Equal(t, collection.Outcomes, recorder.outcomes)
}

func TestPipeline_Errors(t *testing.T) {
	cfg := testConfig("http://localhost", t.TempDir())
	records := []model.Observation{obs("JPN", "NY.GDP.MKTP.CD", 2022, 1)}

	t.Run("client setup", func(t *testing.T) {
		setupErr := errors.Join(ErrClientSetup, errors.New("no sockets"))
		p := New(stubCollector{err: setupErr}, testOrganizer(), NewExportManager(newRecordingSink(), cfg.Output))
		_, err := p.Run(context.Background())
		assert.ErrorIs(t, err, ErrClientSetup)
	})

	t.Run("persist", func(t *testing.T) {
		sink := newRecordingSink()
		sink.failOn = cfg.Output.RawFile
		recorder := &fakeRecorder{}
		p := New(stubCollector{collection: &Collection{Records: records}}, testOrganizer(), NewExportManager(sink, cfg.Output)).WithRecorder(recorder)

		res, err := p.Run(context.Background())
		assert.ErrorIs(t, err, ErrPersist)
		assert.Nil(t, res)
		assert.Empty(t, sink.written)
		require.Len(t, recorder.finished, 1)
		assert.Equal(t, model.RunStatusFailed, recorder.finished[0].Status)
	})
}

func TestPipeline_ReferenceCatalogs(t *testing.T) {
	fw := newFakeWorldBank(t)
	fw.set("JPN", "NY.GDP.MKTP.CD", seriesResponse{
		body: seriesBody("JPN", "Japan", map[string]*float64{"2022": f64(4.2e12), "2021": f64(5.0e12)}, "2022", "2021"),
	})
	fw.set("USA", "NY.GDP.MKTP.CD", seriesResponse{status: http.StatusInternalServerError})
	fw.set("CHN", "SP.POP.TOTL", seriesResponse{body: `<html>`})

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = fw.URL + "/v2"
	cfg.Years = config.YearsConfig{Span: 2, End: 2022}
	cfg.Output.DataDir = dir
	cfg.Store.Path = ""

	res, err := NewFromConfig(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, fw.seenQueries(), 120)
	assert.Len(t, res.Outcomes, 120)
	assert.Equal(t, 1, res.Metrics.PairsOK)
	assert.Equal(t, 2, res.Metrics.PairsFailed)
	assert.Equal(t, 117, res.Metrics.PairsEmpty)

	organized := res.Dataset
	assert.Equal(t, 2, organized.Summary.TotalRecords)
	assert.Equal(t, model.YearRange{Min: 2021, Max: 2022}, organized.Summary.YearRange)
	assert.Len(t, organized.ByCountry, 12)
	assert.Len(t, organized.ByIndicator, 10)
	assert.Len(t, organized.ByCountry["JPN"].Data, 2)
	assert.Len(t, organized.ByIndicator["NY.GDP.MKTP.CD"].Data, 2)
	for code, b := range organized.ByCountry {
		if code != "JPN" {
			assert.Empty(t, b.Data, code)
		}
	}

	for _, name := range []string{"raw-data.json", "organized-data.json", "economic-data.json"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	fw := newFakeWorldBank(t)
	fw.set("JPN", "NY.GDP.MKTP.CD", seriesResponse{
		body: seriesBody("JPN", "Japan", map[string]*float64{"2022": f64(4.2e12)}, "2022"),
	})
	for _, pair := range [][2]string{{"JPN", "SL.UEM.TOTL.ZS"}, {"USA", "NY.GDP.MKTP.CD"}, {"USA", "SL.UEM.TOTL.ZS"}} {
		fw.set(pair[0], pair[1], seriesResponse{delay: time.Second,
			body: seriesBody(pair[0], pair[0], map[string]*float64{"2022": f64(1)}, "2022")})
	}

	dir := t.TempDir()
	recorder := &fakeRecorder{}
	p := NewFromConfig(testConfig(fw.URL, dir)).WithRecorder(recorder)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := p.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Nil(t, res)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a cancelled run writes nothing")

	require.Len(t, recorder.finished, 1)
	assert.Equal(t, model.RunStatusFailed, recorder.finished[0].Status)
}
