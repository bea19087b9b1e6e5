package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
)

// FetchErrorKind classifies a per-pair fetch failure
type FetchErrorKind string

const (
	FetchErrorNetwork FetchErrorKind = "network"
	FetchErrorStatus  FetchErrorKind = "status"
	FetchErrorDecode  FetchErrorKind = "decode"
)

// FetchError is the failure of a single (country, indicator) request. It never
// escapes FetchAll; it is logged and reported through PairOutcome.
type FetchError struct {
	CountryCode   string
	IndicatorCode string
	Kind          FetchErrorKind
	Err           error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s: %s: %v", e.CountryCode, e.IndicatorCode, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClientFactory builds the HTTP client used for one collection. The returned
// release func is called once every request of that collection has finished.
type ClientFactory func() (client *http.Client, release func(), err error)

// Collection is the joined result of one FetchAll.
type Collection struct {
	Records  []model.Observation `json:"records"`
	Outcomes []model.PairOutcome `json:"outcomes"` // enumeration order
	Years    model.YearRange     `json:"years"`
}

// Fetcher retrieves observation series for every (country, indicator) pair of
// its catalogs.
type Fetcher struct {
	baseURL        string
	perPage        int
	timeout        time.Duration
	maxConcurrency int
	userAgent      string
	years          config.YearsConfig
	countries      config.Catalog
	indicators     config.Catalog
	newClient      ClientFactory
	now            func() time.Time
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithClientFactory replaces the default pooled HTTP client.
func WithClientFactory(factory ClientFactory) FetcherOption {
	return func(f *Fetcher) { f.newClient = factory }
}

// WithClock replaces time.Now, which determines the default year window.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a Fetcher from the API, year and catalog configuration.
func NewFetcher(cfg *config.Config, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:        strings.TrimRight(cfg.API.BaseURL, "/"),
		perPage:        cfg.API.PerPage,
		timeout:        cfg.API.Timeout(),
		maxConcurrency: cfg.API.MaxConcurrency,
		userAgent:      cfg.API.UserAgent,
		years:          cfg.Years,
		countries:      cfg.Countries,
		indicators:     cfg.Indicators,
		newClient:      pooledClient,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// pooledClient returns a client with its own connection pool, released by
// closing idle connections.
func pooledClient() (*http.Client, func(), error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, nil, errors.New("default transport is not an *http.Transport")
	}
	transport := base.Clone()
	transport.MaxIdleConnsPerHost = 32
	return &http.Client{Transport: transport}, transport.CloseIdleConnections, nil
}

// DefaultYears returns the year window used by FetchAll.
func (f *Fetcher) DefaultYears() model.YearRange {
	return f.years.Range(f.now())
}

// FetchOne fetches a single series. Failures are logged and yield an empty list.
func (f *Fetcher) FetchOne(ctx context.Context, countryCode, indicatorCode string, years model.YearRange) []model.Observation {
	client, release, err := f.newClient()
	if err != nil {
		klog.FromContext(ctx).Error(err, "Failed to create HTTP client", "country", countryCode, "indicator", indicatorCode)
		return nil
	}
	defer release()

	records, _, _ := f.fetchPair(ctx, client, countryCode, indicatorCode, years)
	return records
}

// FetchAll fetches every pair concurrently and returns the concatenated
// records in enumeration order (country-major, indicator-minor).
func (f *Fetcher) FetchAll(ctx context.Context) ([]model.Observation, error) {
	collection, err := f.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return collection.Records, nil
}

type pairResult struct {
	records  []model.Observation
	empty    bool
	err      error
	duration time.Duration
}

// Collect is FetchAll plus a per-pair outcome report. It only fails when the
// HTTP client cannot be created.
func (f *Fetcher) Collect(ctx context.Context) (*Collection, error) {
	log := klog.FromContext(ctx)

	client, release, err := f.newClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientSetup, err)
	}
	defer release()

	years := f.DefaultYears()
	countries := f.countries.Codes()
	indicators := f.indicators.Codes()
	log.Info("Collecting series", "countries", len(countries), "indicators", len(indicators), "from", years.Min, "to", years.Max)

	results := make([]pairResult, len(countries)*len(indicators))

	var g errgroup.Group
	if f.maxConcurrency > 0 {
		g.SetLimit(f.maxConcurrency)
	}
	for ci, country := range countries {
		for ii, indicator := range indicators {
			country, indicator := country, indicator
			slot := ci*len(indicators) + ii
			g.Go(func() error {
				start := time.Now()
				records, empty, err := f.fetchPair(ctx, client, country, indicator, years)
				results[slot] = pairResult{records: records, empty: empty, err: err, duration: time.Since(start)}
				return nil
			})
		}
	}
	_ = g.Wait() // workers never return an error; failures live in results

	collection := &Collection{
		Outcomes: make([]model.PairOutcome, 0, len(results)),
		Years:    years,
	}
	failed := 0
	for slot, res := range results {
		outcome := model.PairOutcome{
			CountryCode:   countries[slot/len(indicators)],
			IndicatorCode: indicators[slot%len(indicators)],
			Records:       len(res.records),
			Duration:      res.duration,
		}
		switch {
		case res.err != nil:
			outcome.Status = model.PairFailed
			outcome.Error = res.err.Error()
			failed++
		case res.empty || len(res.records) == 0:
			outcome.Status = model.PairEmpty
		default:
			outcome.Status = model.PairOK
		}
		collection.Outcomes = append(collection.Outcomes, outcome)
		collection.Records = append(collection.Records, res.records...)
	}

	log.Info("Collection finished", "records", len(collection.Records), "pairs", len(results), "failed", failed)
	return collection, nil
}

// seriesURL builds the per-country-per-indicator endpoint URL.
func (f *Fetcher) seriesURL(countryCode, indicatorCode string, years model.YearRange) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("date", fmt.Sprintf("%d:%d", years.Min, years.Max))
	q.Set("per_page", strconv.Itoa(f.perPage))
	return fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		f.baseURL, url.PathEscape(countryCode), url.PathEscape(indicatorCode), q.Encode())
}

// fetchPair performs one request. empty reports a response without a data
// page; err is a *FetchError and has already been logged.
func (f *Fetcher) fetchPair(ctx context.Context, client *http.Client, countryCode, indicatorCode string, years model.YearRange) (records []model.Observation, empty bool, err error) {
	log := klog.FromContext(ctx).WithValues("country", countryCode, "indicator", indicatorCode)
	log.V(2).Info("Fetching series")

	defer func() {
		if err != nil {
			log.Error(err, "Failed to fetch series")
		}
	}()
	fail := func(kind FetchErrorKind, cause error) ([]model.Observation, bool, error) {
		return nil, false, &FetchError{CountryCode: countryCode, IndicatorCode: indicatorCode, Kind: kind, Err: cause}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, f.seriesURL(countryCode, indicatorCode, years), nil)
	if reqErr != nil {
		return fail(FetchErrorNetwork, reqErr)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, doErr := client.Do(req)
	if doErr != nil {
		return fail(FetchErrorNetwork, doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(FetchErrorStatus, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fail(FetchErrorNetwork, fmt.Errorf("failed to read body: %w", readErr))
	}

	items, decodeErr := decodeSeriesPage(body)
	if errors.Is(decodeErr, errEmptyPayload) {
		log.V(2).Info("No data payload")
		return nil, true, nil
	}
	if decodeErr != nil {
		return fail(FetchErrorDecode, decodeErr)
	}

	indicator, ok := f.indicators.Lookup(indicatorCode)
	if !ok {
		indicator = config.CatalogEntry{Code: indicatorCode}
	}

	records = make([]model.Observation, 0, len(items))
	for _, item := range items {
		obs, keep, normErr := normalizeObservation(item, countryCode, indicator)
		if normErr != nil {
			log.V(2).Info("Skipping item", "reason", normErr.Error())
			continue
		}
		if keep {
			records = append(records, obs)
		}
	}

	log.V(2).Info("Fetched series", "records", len(records))
	return records, false, nil
}
