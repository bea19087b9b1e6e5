package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
	"econ-data-pipeline/pkg/utils"
)

// errEmptyPayload marks a well-formed response without a data page.
var errEmptyPayload = errors.New("response has no data payload")

// apiObservation is one item of the second element of a series response.
type apiObservation struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3Code string   `json:"countryiso3code"`
	Date            string   `json:"date"`
	Value           *float64 `json:"value"`
}

// apiMessage is the error element the API sends instead of page metadata.
type apiMessage struct {
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

// decodeSeriesPage decodes a `[meta, [items...]]` response body. A missing or
// null second element yields errEmptyPayload; an API error element or any
// other shape is a decode error.
func decodeSeriesPage(body []byte) ([]apiObservation, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parts) == 0 {
		return nil, errEmptyPayload
	}

	var msg apiMessage
	if err := json.Unmarshal(parts[0], &msg); err == nil && len(msg.Message) > 0 {
		texts := make([]string, 0, len(msg.Message))
		for _, m := range msg.Message {
			texts = append(texts, strings.TrimSpace(m.Key+": "+m.Value))
		}
		return nil, fmt.Errorf("api error: %s", strings.Join(texts, "; "))
	}

	if len(parts) < 2 || string(parts[1]) == "null" {
		return nil, errEmptyPayload
	}

	var items []apiObservation
	if err := json.Unmarshal(parts[1], &items); err != nil {
		return nil, fmt.Errorf("unexpected data payload: %w", err)
	}
	return items, nil
}

// normalizeObservation turns one API item into an Observation. Items with a
// null value are dropped (ok == false, err == nil); items whose date is not a
// year are rejected with an error.
func normalizeObservation(item apiObservation, countryCode string, indicator config.CatalogEntry) (model.Observation, bool, error) {
	if item.Value == nil {
		return model.Observation{}, false, nil
	}

	year, err := utils.ParseYear(item.Date)
	if err != nil {
		return model.Observation{}, false, fmt.Errorf("invalid date %q: %w", item.Date, err)
	}

	code := item.CountryISO3Code
	if code == "" {
		code = countryCode
	}

	return model.Observation{
		Country:       item.Country.Value,
		CountryCode:   code,
		Indicator:     indicator.Name,
		IndicatorCode: indicator.Code,
		Year:          year,
		Value:         *item.Value,
		Unit:          indicator.Unit,
	}, true, nil
}
