package aggregate

import (
	"sort"

	"github.com/cropline/psdgate/internal/catalog"
)

// Top-N bounds.
const (
	MinTopN     = 1
	MaxTopN     = 60
	DefaultTopN = 10
)

// Ranked is one entry of a top-N ranking.
type Ranked struct {
	Rank        int     `json:"rank"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
}

// ClampTopN bounds n to [MinTopN, MaxTopN].
func ClampTopN(n int) int {
	return min(max(n, MinTopN), MaxTopN)
}

// Top ranks countries by one attribute, largest first. World rows and
// non-numeric values are excluded; equal values keep row order.
func Top(rows []catalog.Row, attribute string, n int, worldCode string) []Ranked {
	candidates := make([]catalog.Row, 0)
	for _, r := range FilterAttribute(rows, attribute) {
		if r.Value == nil || IsWorldRow(r, worldCode) {
			continue
		}
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Value > *candidates[j].Value
	})

	n = ClampTopN(n)
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	ranked := make([]Ranked, len(candidates))
	for i, r := range candidates {
		ranked[i] = Ranked{
			Rank:        i + 1,
			CountryCode: r.CountryCode,
			Country:     r.CountryName,
			Value:       *r.Value,
			Unit:        r.Unit,
		}
	}
	return ranked
}
