package catalog

import (
	"context"
)

// Enrich returns a copy of rows with empty labels filled from the
// attribute, unit, country and commodity lists. A list that fails to load
// is logged and its labels are left empty.
func (c *Catalog) Enrich(ctx context.Context, rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	var need struct{ attr, unit, country, commodity bool }
	for _, r := range out {
		need.attr = need.attr || (r.Attribute == "" && r.AttributeID != 0)
		need.unit = need.unit || (r.Unit == "" && r.UnitID != 0)
		need.country = need.country || (r.CountryName == "" && r.CountryCode != "")
		need.commodity = need.commodity || (r.CommodityDescription == "" && r.CommodityCode != "")
	}

	attrs := c.labels(ctx, KindAttributes, need.attr)
	units := c.labels(ctx, KindUnits, need.unit)
	countries := c.labels(ctx, KindCountries, need.country)
	commodities := c.labels(ctx, KindCommodities, need.commodity)

	for i := range out {
		r := &out[i]
		if r.Attribute == "" && r.AttributeID != 0 {
			r.Attribute = attrs[idKey(r.AttributeID)]
		}
		if r.Unit == "" && r.UnitID != 0 {
			r.Unit = units[idKey(r.UnitID)]
		}
		if r.CountryName == "" {
			r.CountryName = countries[r.CountryCode]
		}
		if r.CommodityDescription == "" {
			r.CommodityDescription = commodities[r.CommodityCode]
		}
	}

	return out
}

func (c *Catalog) labels(ctx context.Context, kind Kind, needed bool) map[string]string {
	if !needed {
		return nil
	}

	entries, err := c.Entries(ctx, kind)
	if err != nil {
		c.logger.Warn("enrichment skipped", "kind", kind, "error", err)
		return nil
	}

	labels := make(map[string]string, len(entries))
	for _, e := range entries {
		labels[e.Code] = e.DisplayName()
	}
	return labels
}
