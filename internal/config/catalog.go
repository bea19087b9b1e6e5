package config

// CatalogEntry maps a short code to its display name. Unit is only used by
// indicator catalogs.
type CatalogEntry struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Unit string `yaml:"unit,omitempty"`
}

// Catalog is an ordered, read-only list of codes. Order is significant: it
// drives fetch enumeration and the summary code lists.
type Catalog []CatalogEntry

// Codes returns the codes in catalog order.
func (c Catalog) Codes() []string {
	codes := make([]string, len(c))
	for i, e := range c {
		codes[i] = e.Code
	}
	return codes
}

// Lookup returns the entry for code.
func (c Catalog) Lookup(code string) (CatalogEntry, bool) {
	for _, e := range c {
		if e.Code == code {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// DefaultCountries is the reference country set.
func DefaultCountries() Catalog {
	return Catalog{
		{Code: "JPN", Name: "日本"},
		{Code: "USA", Name: "アメリカ"},
		{Code: "CHN", Name: "中国"},
		{Code: "DEU", Name: "ドイツ"},
		{Code: "GBR", Name: "イギリス"},
		{Code: "FRA", Name: "フランス"},
		{Code: "IND", Name: "インド"},
		{Code: "BRA", Name: "ブラジル"},
		{Code: "CAN", Name: "カナダ"},
		{Code: "AUS", Name: "オーストラリア"},
		{Code: "IDN", Name: "インドネシア"},
		{Code: "PER", Name: "ペルー"},
	}
}

// DefaultIndicators is the reference indicator set with units.
func DefaultIndicators() Catalog {
	return Catalog{
		{Code: "NY.GDP.MKTP.CD", Name: "GDP（現在価格、米ドル）", Unit: "米ドル"},
		{Code: "NY.GDP.MKTP.KD.ZG", Name: "GDP成長率（年率）", Unit: "%"},
		{Code: "SL.UEM.TOTL.ZS", Name: "失業率（%）", Unit: "%"},
		{Code: "FP.CPI.TOTL.ZG", Name: "インフレ率（%）", Unit: "%"},
		{Code: "NY.GDP.PCAP.CD", Name: "一人当たりGDP（米ドル）", Unit: "米ドル"},
		{Code: "NE.TRD.GNFS.ZS", Name: "貿易（GDP比%）", Unit: "%"},
		{Code: "GC.DPT.TOTL.GD.ZS", Name: "政府債務（GDP比%）", Unit: "%"},
		{Code: "SP.POP.TOTL", Name: "総人口", Unit: "人"},
		{Code: "SP.POP.GROW", Name: "人口増減率（年率%）", Unit: "%"},
		{Code: "BX.KLT.DINV.CD.WD", Name: "外国直接投資（米ドル）", Unit: "米ドル"},
	}
}
