package pipeline

import (
	"time"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
)

// Organizer builds the country- and indicator-indexed views of a flat
// observation list.
type Organizer struct {
	countries  config.Catalog
	indicators config.Catalog
	now        func() time.Time
}

// NewOrganizer creates an Organizer over the given catalogs. now stamps
// Summary.LastUpdated; nil means time.Now.
func NewOrganizer(countries, indicators config.Catalog, now func() time.Time) *Organizer {
	if now == nil {
		now = time.Now
	}
	return &Organizer{countries: countries, indicators: indicators, now: now}
}

// Organize indexes records by country and by indicator. Every catalog code
// gets a bucket; a record whose code is missing from a catalog gets a bucket
// named after the code so that each record lands in exactly one bucket of
// each index. Records keep their input order inside a bucket.
func (o *Organizer) Organize(records []model.Observation) *model.OrganizedDataset {
	organized := &model.OrganizedDataset{
		ByCountry:   newBuckets(o.countries),
		ByIndicator: newBuckets(o.indicators),
		Summary: model.Summary{
			TotalRecords: len(records),
			Countries:    o.countries.Codes(),
			Indicators:   o.indicators.Codes(),
			YearRange:    yearRange(records),
			LastUpdated:  o.now(),
		},
	}

	for _, rec := range records {
		appendTo(organized.ByCountry, rec.CountryCode, rec)
		appendTo(organized.ByIndicator, rec.IndicatorCode, rec)
	}

	return organized
}

func newBuckets(catalog config.Catalog) map[string]model.Bucket {
	buckets := make(map[string]model.Bucket, len(catalog))
	for _, e := range catalog {
		buckets[e.Code] = model.Bucket{Name: e.Name, Data: []model.Observation{}}
	}
	return buckets
}

func appendTo(buckets map[string]model.Bucket, code string, rec model.Observation) {
	bucket, exists := buckets[code]
	if !exists {
		bucket = model.Bucket{Name: code}
	}
	bucket.Data = append(bucket.Data, rec)
	buckets[code] = bucket
}

// yearRange returns the min and max year over records, {0, 0} when empty.
func yearRange(records []model.Observation) model.YearRange {
	if len(records) == 0 {
		return model.YearRange{}
	}
	r := model.YearRange{Min: records[0].Year, Max: records[0].Year}
	for _, rec := range records[1:] {
		if rec.Year < r.Min {
			r.Min = rec.Year
		}
		if rec.Year > r.Max {
			r.Max = rec.Year
		}
	}
	return r
}
