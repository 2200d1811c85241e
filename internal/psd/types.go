package psd

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cropline/psdgate/internal/catalog"
)

// Envelope is the uniform wrapper around every upstream response.
type Envelope struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code"`
	URL        string `json:"url"`
	Data       any    `json:"data"`

	body []byte
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexInt accepts a JSON number or a numeric string; anything else is 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// flexValue accepts a JSON number or a numeric string; anything else is
// non-numeric.
type flexValue struct {
	v *float64
}

func (f *flexValue) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(string(s), ",", ""), 64)
	if err != nil {
		f.v = nil
		return nil
	}
	f.v = &v
	return nil
}

// rawEntry is the union of the fields the four reference lists use, in
// both the OpenData camelCase and the PSD Online PascalCase spellings.
// Field matching in encoding/json is case-insensitive.
type rawEntry struct {
	ID   flexString `json:"id"`
	Code flexString `json:"code"`
	Name flexString `json:"name"`

	CommodityCode flexString `json:"commodityCode"`
	CommodityName flexString `json:"commodityName"`
	Description   flexString `json:"description"`

	CountryCode        flexString `json:"countryCode"`
	CountryName        flexString `json:"countryName"`
	CountryDescription flexString `json:"countryDescription"`
	GencCode           flexString `json:"gencCode"`

	AttributeID          flexString `json:"attributeId"`
	AttributeName        flexString `json:"attributeName"`
	AttributeDescription flexString `json:"attributeDescription"`

	UnitID          flexString `json:"unitId"`
	UnitDescription flexString `json:"unitDescription"`
	UnitName        flexString `json:"unitName"`
}

func first(values ...flexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

func (r rawEntry) toEntry(kind catalog.Kind) catalog.Entry {
	switch kind {
	case catalog.KindCommodities:
		return catalog.Entry{
			Code:        first(r.CommodityCode, r.Code, r.ID),
			Name:        first(r.CommodityName, r.Name),
			Description: string(r.Description),
		}
	case catalog.KindCountries:
		return catalog.Entry{
			Code:        first(r.CountryCode, r.Code, r.ID),
			Name:        first(r.CountryName, r.Name),
			Description: string(r.CountryDescription),
			Alternate:   string(r.GencCode),
		}
	case catalog.KindAttributes:
		return catalog.Entry{
			Code: first(r.AttributeID, r.ID, r.Code),
			Name: first(r.AttributeName, r.AttributeDescription, r.Name),
		}
	default:
		return catalog.Entry{
			Code: first(r.UnitID, r.ID, r.Code),
			Name: first(r.UnitDescription, r.UnitName, r.Name),
		}
	}
}

type rawRow struct {
	CommodityCode        flexString `json:"commodityCode"`
	CommodityDescription flexString `json:"commodityDescription"`
	CountryCode          flexString `json:"countryCode"`
	CountryName          flexString `json:"countryName"`
	MarketYear           flexInt    `json:"marketYear"`
	CalendarYear         flexInt    `json:"calendarYear"`
	Month                flexString `json:"month"`
	AttributeID          flexInt    `json:"attributeId"`
	AttributeDescription flexString `json:"attributeDescription"`
	UnitID               flexInt    `json:"unitId"`
	UnitDescription      flexString `json:"unitDescription"`
	Value                flexValue  `json:"value"`
}

func (r rawRow) toRow() catalog.Row {
	return catalog.Row{
		CommodityCode:        string(r.CommodityCode),
		CommodityDescription: string(r.CommodityDescription),
		CountryCode:          string(r.CountryCode),
		CountryName:          string(r.CountryName),
		MarketYear:           int(r.MarketYear),
		CalendarYear:         int(r.CalendarYear),
		Month:                string(r.Month),
		AttributeID:          int(r.AttributeID),
		Attribute:            string(r.AttributeDescription),
		UnitID:               int(r.UnitID),
		Unit:                 string(r.UnitDescription),
		Value:                r.Value.v,
	}
}
