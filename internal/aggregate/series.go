package aggregate

import (
	"strings"

	"github.com/cropline/psdgate/internal/catalog"
)

// MaxSeriesYears bounds the number of years in one series.
const MaxSeriesYears = 40

// Point sources.
const (
	SourceCountry  = "country"
	SourceOfficial = "official"
	SourceComputed = "computed"
)

// Scope selects what a series point measures: one country, or the world.
type Scope struct {
	CountryCode string
	World       bool
	WorldCode   string
}

// Point is one year of a series. Value is nil when the year had no
// matching numeric row; Error is set when the year could not be fetched.
type Point struct {
	Year   int      `json:"year"`
	Value  *float64 `json:"value"`
	Unit   string   `json:"unit,omitempty"`
	Source string   `json:"source,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Years returns from..to inclusive, ascending.
func Years(from, to int) []int {
	if to < from {
		return []int{}
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// SelectPoint picks the value of attribute for scope out of one year's rows.
func SelectPoint(rows []catalog.Row, year int, attribute string, scope Scope) Point {
	p := Point{Year: year}
	matching := FilterAttribute(rows, attribute)

	if !scope.World {
		for _, r := range matching {
			if strings.EqualFold(r.CountryCode, scope.CountryCode) {
				p.Value = copyValue(r.Value)
				p.Unit = r.Unit
				p.Source = SourceCountry
				return p
			}
		}
		return p
	}

	for _, r := range matching {
		if IsWorldRow(r, scope.WorldCode) && r.Value != nil {
			p.Value = copyValue(r.Value)
			p.Unit = r.Unit
			p.Source = SourceOfficial
			return p
		}
	}

	var total float64
	contributed := false
	for _, r := range matching {
		if r.Value == nil || IsWorldRow(r, scope.WorldCode) {
			continue
		}
		if !contributed {
			p.Unit = r.Unit
			contributed = true
		}
		total += *r.Value
	}
	if contributed {
		p.Value = &total
		p.Source = SourceComputed
	}
	return p
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
