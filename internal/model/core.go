package model

import "time"

// Observation is one data point for a single country, indicator and year.
type Observation struct {
	Country       string  `json:"country"`       // display name as returned by the API
	CountryCode   string  `json:"countryCode"`   // ISO 3166-1 alpha-3
	Indicator     string  `json:"indicator"`     // display name from the indicator catalog
	IndicatorCode string  `json:"indicatorCode"` // e.g. NY.GDP.MKTP.CD
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit"`
}

// YearRange is an inclusive range of years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Bucket groups the observations that share a country or indicator code.
type Bucket struct {
	Name string        `json:"name"`
	Data []Observation `json:"data"`
}

// Summary describes an organized dataset.
type Summary struct {
	TotalRecords int       `json:"totalRecords"`
	Countries    []string  `json:"countries"`
	Indicators   []string  `json:"indicators"`
	YearRange    YearRange `json:"yearRange"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// OrganizedDataset is the country-indexed and indicator-indexed view of a flat
// observation list. Every catalog code has a bucket, even when it is empty.
type OrganizedDataset struct {
	ByCountry   map[string]Bucket `json:"byCountry"`
	ByIndicator map[string]Bucket `json:"byIndicator"`
	Summary     Summary           `json:"summary"`
}
