package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropline/psdgate/internal/catalog"
)

func TestYears(t *testing.T) {
	assert.Equal(t, []int{2015, 2016, 2017}, Years(2015, 2017))
	assert.Equal(t, []int{2020}, Years(2020, 2020))
	assert.Empty(t, Years(2021, 2020))
	assert.Len(t, Years(2015, 2024), 10)
}

func TestSelectPoint(t *testing.T) {
	withWorld := []catalog.Row{
		row("BR", "Brazil", Production, ptr(100)),
		row("AR", "Argentina", Production, ptr(50)),
		row("WD", "World", Production, ptr(400)),
		row("BR", "Brazil", EndingStocks, ptr(3)),
	}
	withoutWorld := withWorld[:2]

	tests := []struct {
		name       string
		rows       []catalog.Row
		attribute  string
		scope      Scope
		wantValue  *float64
		wantSource string
	}{
		{"country", withWorld, Production, Scope{CountryCode: "BR"}, ptr(100), SourceCountry},
		{"country missing", withWorld, Production, Scope{CountryCode: "US"}, nil, ""},
		{"official world", withWorld, Production, Scope{World: true, WorldCode: "WD"}, ptr(400), SourceOfficial},
		{"computed world", withoutWorld, Production, Scope{World: true, WorldCode: "WD"}, ptr(150), SourceComputed},
		{"no attribute", withWorld, "Yield", Scope{World: true, WorldCode: "WD"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SelectPoint(tt.rows, 2020, tt.attribute, tt.scope)

			assert.Equal(t, 2020, p.Year)
			assert.Equal(t, tt.wantSource, p.Source)
			if tt.wantValue == nil {
				assert.Nil(t, p.Value)
				return
			}
			require.NotNil(t, p.Value)
			assert.Equal(t, *tt.wantValue, *p.Value)
			assert.Equal(t, "(1000 MT)", p.Unit)
		})
	}
}

func TestSelectPoint_DoesNotAliasRows(t *testing.T) {
	rows := []catalog.Row{row("BR", "Brazil", Production, ptr(100))}

	p := SelectPoint(rows, 2020, Production, Scope{CountryCode: "BR"})
	*p.Value = 1

	assert.Equal(t, 100.0, *rows[0].Value)
}
