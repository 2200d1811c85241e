package psd

import (
	"context"
	"fmt"

	"github.com/cropline/psdgate/internal/catalog"
)

// ListCommodities fetches the commodity list.
func (c *Client) ListCommodities(ctx context.Context) ([]catalog.Entry, error) {
	return c.list(ctx, catalog.KindCommodities, c.paths.Commodities)
}

// ListCountries fetches the country list.
func (c *Client) ListCountries(ctx context.Context) ([]catalog.Entry, error) {
	return c.list(ctx, catalog.KindCountries, c.paths.Countries)
}

// ListAttributes fetches the attribute (balance sheet line) list.
func (c *Client) ListAttributes(ctx context.Context) ([]catalog.Entry, error) {
	return c.list(ctx, catalog.KindAttributes, c.paths.Attributes)
}

// ListUnits fetches the unit of measure list.
func (c *Client) ListUnits(ctx context.Context) ([]catalog.Entry, error) {
	return c.list(ctx, catalog.KindUnits, c.paths.Units)
}

func (c *Client) list(ctx context.Context, kind catalog.Kind, path string) ([]catalog.Entry, error) {
	op := string(kind)
	env, err := c.fetch(ctx, op, path, nil)
	if err != nil {
		return nil, err
	}

	raw, err := decodeList[rawEntry](env, op, path)
	if err != nil {
		return nil, err
	}

	entries := make([]catalog.Entry, 0, len(raw))
	for _, r := range raw {
		e := r.toEntry(kind)
		if e.Code == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// YearRows fetches every country's rows for one commodity and market year.
func (c *Client) YearRows(ctx context.Context, code string, year int) ([]catalog.Row, error) {
	return c.yearRows(ctx, "year", fmt.Sprintf(c.paths.CountryYear, code, year), code, year)
}

// WorldYearRows fetches the official world totals for one commodity and
// market year. Rows without a country are labeled as the world.
func (c *Client) WorldYearRows(ctx context.Context, code string, year int) ([]catalog.Row, error) {
	rows, err := c.yearRows(ctx, "world_year", fmt.Sprintf(c.paths.WorldYear, code, year), code, year)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].CountryCode == "" && rows[i].CountryName == "" {
			rows[i].CountryName = catalog.WorldName
		}
	}
	return rows, nil
}

// WorldRows adapts WorldYearRows to the year cache fetcher.
type WorldRows struct {
	Client *Client
}

// YearRows implements yearcache.Fetcher.
func (w WorldRows) YearRows(ctx context.Context, code string, year int) ([]catalog.Row, error) {
	return w.Client.WorldYearRows(ctx, code, year)
}

func (c *Client) yearRows(ctx context.Context, op, path, code string, year int) ([]catalog.Row, error) {
	env, err := c.fetch(ctx, op, path, nil)
	if err != nil {
		return nil, err
	}

	raw, err := decodeList[rawRow](env, op, path)
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.Row, 0, len(raw))
	for _, r := range raw {
		row := r.toRow()
		if row.CommodityCode == "" {
			row.CommodityCode = code
		}
		if row.MarketYear == 0 {
			row.MarketYear = year
		}
		rows = append(rows, row)
	}
	return rows, nil
}
