// Package catalog holds the provider's reference lists (commodities,
// countries, attributes, units) and the row type every query returns.
package catalog

import (
	"strconv"
	"strings"
)

// Kind identifies one of the upstream reference lists.
type Kind string

// Catalog kinds.
const (
	KindCommodities Kind = "commodities"
	KindCountries   Kind = "countries"
	KindAttributes  Kind = "attributes"
	KindUnits       Kind = "units"
)

// Kinds lists every catalog kind in a stable order.
var Kinds = []Kind{KindCommodities, KindCountries, KindAttributes, KindUnits}

// WorldName is the display name of the aggregate pseudo-country.
const WorldName = "World"

// Entry is one item of a reference list.
type Entry struct {
	Code        string `json:"code"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Alternate   string `json:"alternate,omitempty"`
}

// Names returns the non-empty textual fields in match order.
func (e Entry) Names() []string {
	names := make([]string, 0, 3)
	for _, s := range []string{e.Name, e.Description, e.Alternate} {
		if strings.TrimSpace(s) != "" {
			names = append(names, s)
		}
	}
	return names
}

// DisplayName returns the first non-empty name, or the code.
func (e Entry) DisplayName() string {
	if names := e.Names(); len(names) > 0 {
		return names[0]
	}
	return e.Code
}

// Row is one data row of a commodity/year query.
// Value is nil when the upstream value was not numeric.
type Row struct {
	CommodityCode        string   `json:"commodity_code"`
	CommodityDescription string   `json:"commodity_description,omitempty"`
	CountryCode          string   `json:"country_code"`
	CountryName          string   `json:"country_name,omitempty"`
	MarketYear           int      `json:"market_year"`
	CalendarYear         int      `json:"calendar_year,omitempty"`
	Month                string   `json:"month,omitempty"`
	AttributeID          int      `json:"attribute_id,omitempty"`
	Attribute            string   `json:"attribute"`
	UnitID               int      `json:"unit_id,omitempty"`
	Unit                 string   `json:"unit,omitempty"`
	Value                *float64 `json:"value"`
}

// Numeric reports whether the row carries a numeric value.
func (r Row) Numeric() bool {
	return r.Value != nil
}

// WorldRef describes how the world pseudo-country is represented.
// Official is false when the country catalog has no world entry, in which
// case callers compute a cross-country sum.
type WorldRef struct {
	Code     string `json:"code,omitempty"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
}

func idKey(id int) string {
	return strconv.Itoa(id)
}
