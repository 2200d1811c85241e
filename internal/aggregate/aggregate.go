// Package aggregate reduces provider rows into balance sheets, rankings and
// series points. Every function is pure; rows are never modified.
package aggregate

import (
	"strings"

	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/normalize"
)

// Balance sheet attribute labels.
const (
	Production          = "Production"
	DomesticConsumption = "Domestic Consumption"
	MYImports           = "MY Imports"
	TYImports           = "TY Imports"
	MYExports           = "MY Exports"
	TYExports           = "TY Exports"
	BeginningStocks     = "Beginning Stocks"
	EndingStocks        = "Ending Stocks"
	TotalSupply         = "Total Supply"
)

// BalanceSheet is the canonical set of supply/demand labels.
var BalanceSheet = []string{
	Production,
	DomesticConsumption,
	MYImports,
	TYImports,
	MYExports,
	TYExports,
	BeginningStocks,
	EndingStocks,
	TotalSupply,
}

var balanceSheetSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(BalanceSheet))
	for _, label := range BalanceSheet {
		set[label] = struct{}{}
	}
	return set
}()

// IsBalanceSheet reports whether label is a balance sheet line.
func IsBalanceSheet(label string) bool {
	_, ok := balanceSheetSet[strings.TrimSpace(label)]
	return ok
}

// Meta describes the scope a summary was built from.
type Meta struct {
	CommodityCode string `json:"commodity_code,omitempty"`
	Commodity     string `json:"commodity,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	Country       string `json:"country,omitempty"`
	MarketYear    int    `json:"market_year,omitempty"`
	Month         string `json:"month,omitempty"`
	CalendarYear  int    `json:"calendar_year,omitempty"`
}

func metaOf(r catalog.Row) Meta {
	return Meta{
		CommodityCode: r.CommodityCode,
		Commodity:     r.CommodityDescription,
		CountryCode:   r.CountryCode,
		Country:       r.CountryName,
		MarketYear:    r.MarketYear,
		Month:         r.Month,
		CalendarYear:  r.CalendarYear,
	}
}

// Summary maps attribute labels to values and units.
type Summary struct {
	Values map[string]float64 `json:"values"`
	Units  map[string]string  `json:"units"`
	Meta   Meta               `json:"meta"`
}

// Empty reports whether the summary holds no values.
func (s Summary) Empty() bool {
	return len(s.Values) == 0
}

func newSummary() Summary {
	return Summary{
		Values: make(map[string]float64),
		Units:  make(map[string]string),
	}
}

// FilterBalanceSheet keeps the rows whose attribute is a balance sheet line.
func FilterBalanceSheet(rows []catalog.Row) []catalog.Row {
	out := make([]catalog.Row, 0, len(rows))
	for _, r := range rows {
		if IsBalanceSheet(r.Attribute) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCountry keeps the rows of one country code.
func FilterCountry(rows []catalog.Row, code string) []catalog.Row {
	out := make([]catalog.Row, 0)
	for _, r := range rows {
		if strings.EqualFold(r.CountryCode, code) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAttribute keeps the rows of one attribute label.
func FilterAttribute(rows []catalog.Row, attribute string) []catalog.Row {
	want := normalize.Normalize(attribute)
	out := make([]catalog.Row, 0)
	for _, r := range rows {
		if normalize.Normalize(r.Attribute) == want {
			out = append(out, r)
		}
	}
	return out
}

// Summarize builds a summary from rows already scoped to one country.
// Non-numeric rows are skipped; metadata comes from the last row.
func Summarize(rows []catalog.Row) Summary {
	s := newSummary()
	for _, r := range rows {
		if r.Value != nil {
			s.Values[r.Attribute] = *r.Value
			if r.Unit != "" {
				s.Units[r.Attribute] = r.Unit
			}
		}
		s.Meta = metaOf(r)
	}
	return s
}

// IsWorldRow reports whether r belongs to the world pseudo-country, either
// by code or by name.
func IsWorldRow(r catalog.Row, worldCode string) bool {
	if worldCode != "" && strings.EqualFold(r.CountryCode, worldCode) {
		return true
	}
	return normalize.Normalize(r.CountryName) == normalize.Normalize(catalog.WorldName)
}

// SumAcrossCountries sums numeric values per attribute over every
// non-world row. The unit of each attribute comes from its first
// contributing row.
func SumAcrossCountries(rows []catalog.Row, worldCode string) Summary {
	s := newSummary()
	for _, r := range rows {
		if IsWorldRow(r, worldCode) {
			continue
		}
		if s.Meta.CommodityCode == "" {
			s.Meta = metaOf(r)
		}
		if r.Value == nil {
			continue
		}
		if _, seen := s.Values[r.Attribute]; !seen && r.Unit != "" {
			s.Units[r.Attribute] = r.Unit
		}
		s.Values[r.Attribute] += *r.Value
	}
	s.Meta.CountryCode = worldCode
	s.Meta.Country = catalog.WorldName
	return s
}
