package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"econ-data-pipeline/internal/model"
	"econ-data-pipeline/pkg/utils"
)

// Environment overrides
const (
	EnvConfigPath = "PIPELINE_CONFIG"
	EnvDataDir    = "PIPELINE_DATA_DIR"
	EnvAddr       = "PIPELINE_ADDR"
)

const (
	DefaultBaseURL        = "https://api.worldbank.org/v2"
	DefaultPerPage        = 100
	DefaultRequestTimeout = 30 * time.Second
	DefaultYearSpan       = 20
)

// Config contains the pipeline configuration
type Config struct {
	API        APIConfig    `yaml:"api"`
	Years      YearsConfig  `yaml:"years"`
	Output     OutputConfig `yaml:"output"`
	Server     ServerConfig `yaml:"server"`
	Store      StoreConfig  `yaml:"store"`
	Countries  Catalog      `yaml:"countries"`
	Indicators Catalog      `yaml:"indicators"`
}

// APIConfig describes the remote statistics API
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	PerPage        int    `yaml:"per_page"`
	RequestTimeout string `yaml:"request_timeout"` // e.g. "30s"
	MaxConcurrency int    `yaml:"max_concurrency"` // 0 = unbounded
	UserAgent      string `yaml:"user_agent,omitempty"`
}

// YearsConfig describes the requested year window
type YearsConfig struct {
	Span int `yaml:"span"`
	End  int `yaml:"end,omitempty"` // 0 = current year
}

// OutputConfig names the persisted documents
type OutputConfig struct {
	DataDir       string `yaml:"data_dir"`
	RawFile       string `yaml:"raw_file"`
	OrganizedFile string `yaml:"organized_file"`
	LatestFile    string `yaml:"latest_file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig configures the run history database. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return utils.ParseDuration(a.RequestTimeout, DefaultRequestTimeout)
}

// Range returns the inclusive year window ending at End, or at now's year
// when End is unset.
func (y YearsConfig) Range(now time.Time) model.YearRange {
	end := y.End
	if end == 0 {
		end = now.Year()
	}
	span := y.Span
	if span <= 0 {
		span = DefaultYearSpan
	}
	return model.YearRange{Min: end - span + 1, Max: end}
}

// DefaultConfig returns the reference configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			PerPage:        DefaultPerPage,
			RequestTimeout: DefaultRequestTimeout.String(),
		},
		Years: YearsConfig{Span: DefaultYearSpan},
		Output: OutputConfig{
			DataDir:       "data",
			RawFile:       "raw-data.json",
			OrganizedFile: "organized-data.json",
			LatestFile:    "economic-data.json",
		},
		Server:     ServerConfig{Addr: ":8080"},
		Store:      StoreConfig{Path: "pipeline.db"},
		Countries:  DefaultCountries(),
		Indicators: DefaultIndicators(),
	}
}

// LoadConfig loads configuration from a YAML file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Load resolves the config path (argument, then $PIPELINE_CONFIG), falls back
// to defaults when neither is set and applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	var (
		config *Config
		err    error
	)
	if path == "" {
		config = DefaultConfig()
	} else if config, err = LoadConfig(path); err != nil {
		return nil, err
	}

	applyEnv(config)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnv(config *Config) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		config.Output.DataDir = dir
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		config.Server.Addr = addr
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	u, err := url.Parse(config.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", config.API.BaseURL)
	}
	if config.API.PerPage <= 0 {
		return fmt.Errorf("api.per_page must be positive")
	}
	if config.API.MaxConcurrency < 0 {
		return fmt.Errorf("api.max_concurrency must not be negative")
	}
	if config.API.RequestTimeout != "" {
		if _, err := time.ParseDuration(config.API.RequestTimeout); err != nil {
			return fmt.Errorf("api.request_timeout: %w", err)
		}
	}
	if config.Years.Span <= 0 {
		return fmt.Errorf("years.span must be positive")
	}
	if config.Output.DataDir == "" {
		return fmt.Errorf("output.data_dir is required")
	}
	if config.Output.RawFile == "" || config.Output.OrganizedFile == "" || config.Output.LatestFile == "" {
		return fmt.Errorf("output file names are required")
	}

	if err := validateCatalog("countries", config.Countries); err != nil {
		return err
	}
	for _, e := range config.Countries {
		if len(e.Code) != 3 {
			return fmt.Errorf("countries: code %q is not a 3-letter code", e.Code)
		}
	}
	return validateCatalog("indicators", config.Indicators)
}

func validateCatalog(field string, catalog Catalog) error {
	if len(catalog) == 0 {
		return fmt.Errorf("%s: at least one entry is required", field)
	}
	seen := make(map[string]bool, len(catalog))
	for _, e := range catalog {
		if e.Code == "" {
			return fmt.Errorf("%s: code is required", field)
		}
		if seen[e.Code] {
			return fmt.Errorf("%s: duplicate code %s", field, e.Code)
		}
		seen[e.Code] = true
	}
	return nil
}
