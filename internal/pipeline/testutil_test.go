package pipeline

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"econ-data-pipeline/internal/config"
)

// seriesResponse is the canned reply for one (country, indicator) pair.
type seriesResponse struct {
	status int
	body   string
	delay  time.Duration
}

// fakeWorldBank serves /country/{c}/indicator/{i} from a table of canned
// responses. Unknown pairs get a null data page.
type fakeWorldBank struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]seriesResponse
	queries   []string
}

func newFakeWorldBank(t *testing.T) *fakeWorldBank {
	t.Helper()
	fw := &fakeWorldBank{responses: make(map[string]seriesResponse)}
	fw.Server = httptest.NewServer(http.HandlerFunc(fw.serve))
	t.Cleanup(fw.Close)
	return fw
}

func (fw *fakeWorldBank) set(country, indicator string, resp seriesResponse) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.responses[country+"/"+indicator] = resp
}

func (fw *fakeWorldBank) seenQueries() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return append([]string(nil), fw.queries...)
}

func (fw *fakeWorldBank) serve(w http.ResponseWriter, r *http.Request) {
	// /v2/country/{c}/indicator/{i}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 5 || parts[1] != "country" || parts[3] != "indicator" {
		http.NotFound(w, r)
		return
	}

	fw.mu.Lock()
	fw.queries = append(fw.queries, r.URL.RawQuery)
	resp, ok := fw.responses[parts[2]+"/"+parts[4]]
	fw.mu.Unlock()

	if !ok {
		resp = seriesResponse{body: `[{"page":0,"pages":0,"per_page":100,"total":0},null]`}
	}
	if resp.delay > 0 {
		time.Sleep(resp.delay)
	}
	if resp.status == 0 {
		resp.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	fmt.Fprint(w, resp.body)
}

// seriesBody renders a data page; a nil value is encoded as JSON null.
func seriesBody(iso3, name string, points map[string]*float64, dates ...string) string {
	items := make([]string, 0, len(dates))
	for _, d := range dates {
		v := "null"
		if p := points[d]; p != nil {
			v = fmt.Sprintf("%v", *p)
		}
		items = append(items, fmt.Sprintf(
			`{"indicator":{"id":"X","value":"X"},"country":{"id":"%s","value":"%s"},"countryiso3code":"%s","date":"%s","value":%s,"unit":"","obs_status":"","decimal":0}`,
			iso3[:2], name, iso3, d, v))
	}
	return fmt.Sprintf(`[{"page":1,"pages":1,"per_page":100,"total":%d},[%s]]`, len(items), strings.Join(items, ","))
}

func f64(v float64) *float64 { return &v }

// testConfig is a two-year, small-catalog config pointed at baseURL.
func testConfig(baseURL, dataDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL + "/v2"
	cfg.API.RequestTimeout = "5s"
	cfg.Years = config.YearsConfig{Span: 2, End: 2022}
	cfg.Output.DataDir = dataDir
	cfg.Store.Path = ""
	cfg.Countries = config.Catalog{
		{Code: "JPN", Name: "日本"},
		{Code: "USA", Name: "アメリカ"},
	}
	cfg.Indicators = config.Catalog{
		{Code: "NY.GDP.MKTP.CD", Name: "GDP（現在価格、米ドル）", Unit: "米ドル"},
		{Code: "SL.UEM.TOTL.ZS", Name: "失業率（%）", Unit: "%"},
	}
	return cfg
}
