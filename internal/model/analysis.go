package model

// Analysis is the structure handed to the render collaborator next to the
// organized dataset. The pipeline passes it through without inspecting it.
type Analysis struct {
	Overview              AnalysisOverview             `json:"overview"`
	ByCountry             map[string]CountryAnalysis   `json:"byCountry"`
	ByIndicator           map[string]IndicatorAnalysis `json:"byIndicator"`
	GlobalEconomicSummary GlobalEconomicSummary        `json:"globalEconomicSummary"`
}

type AnalysisOverview struct {
	Title       string   `json:"title,omitempty"`
	Summary     string   `json:"summary"`
	KeyFindings []string `json:"keyFindings"`
	Methodology string   `json:"methodology,omitempty"`
	DataQuality string   `json:"dataQuality,omitempty"`
}

type CountryAnalysis struct {
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Overview    string   `json:"overview"`
	Strengths   []string `json:"strengths"`
	Challenges  []string `json:"challenges"`
	Outlook     string   `json:"outlook"`
}

type IndicatorAnalysis struct {
	Indicator     string   `json:"indicator"`
	IndicatorCode string   `json:"indicatorCode"`
	Analysis      string   `json:"analysis"`
	Insights      []string `json:"insights"`
	GlobalTrends  string   `json:"globalTrends"`
}

type GlobalEconomicSummary struct {
	MainTrends []string `json:"mainTrends"`
	KeyPoints  []string `json:"keyPoints"`
}
