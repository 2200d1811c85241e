// Package resolve turns free-text commodity, country and metric names into
// provider codes and labels.
package resolve

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/alias"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/normalize"
)

// Resolution kinds and outcomes reported to metrics.
const (
	kindCommodity = "commodity"
	kindCountry   = "country"

	outcomeResolved   = "resolved"
	outcomeCode       = "code"
	outcomeUnresolved = "unresolved"
	outcomeError      = "error"
)

var codePattern = regexp.MustCompile(`^\d{5,8}$`)

// IsCode reports whether s already looks like a commodity code.
func IsCode(s string) bool {
	return codePattern.MatchString(strings.TrimSpace(s))
}

// Result is a resolved code and the catalog name it matched.
type Result struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog is the subset of the catalog the resolvers read.
type Catalog interface {
	Commodities(ctx context.Context) ([]catalog.Entry, error)
	Countries(ctx context.Context) ([]catalog.Entry, error)
}

// CommodityResolver resolves commodity names using alias candidates and a
// scoring strategy per recognized query tag.
type CommodityResolver struct {
	catalog Catalog
	aliases *alias.Tables
	scorers map[alias.Tag]Scorer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCommodityResolver creates a resolver with the default scorers.
func NewCommodityResolver(c Catalog, aliases *alias.Tables, m *metrics.Metrics, logger *slog.Logger) *CommodityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommodityResolver{
		catalog: c,
		aliases: aliases,
		scorers: DefaultScorers(),
		metrics: m,
		logger:  logger,
	}
}

type candidate struct {
	entry catalog.Entry
	term  string
	score float64
}

// Resolve returns the best catalog match for input. ok is false when
// nothing matched; err is set only when the catalog could not be loaded.
func (r *CommodityResolver) Resolve(ctx context.Context, input string) (Result, bool, error) {
	input = strings.TrimSpace(input)
	if IsCode(input) {
		r.metrics.Resolution(kindCommodity, outcomeCode)
		return Result{Code: input, Name: input}, true, nil
	}

	terms, ok := r.aliases.Commodity(input)
	if !ok {
		terms = []string{normalize.Normalize(input)}
	}
	if len(terms) == 0 || terms[0] == "" {
		r.metrics.Resolution(kindCommodity, outcomeUnresolved)
		return Result{}, false, nil
	}

	entries, err := r.catalog.Commodities(ctx)
	if err != nil {
		r.metrics.Resolution(kindCommodity, outcomeError)
		return Result{}, false, err
	}

	tag := r.aliases.Tag(append([]string{input}, terms...)...)
	tagScore := r.scorers[tag]

	var best *candidate
	for _, term := range terms {
		for _, e := range entries {
			if !matches(e, term) {
				continue
			}
			c := candidate{entry: e, term: term}
			name := normalize.Normalize(e.DisplayName())
			c.score = BaseScore(term, name)
			if tagScore != nil {
				c.score += tagScore(name)
			}
			if best == nil || c.score > best.score {
				best = &c
			}
		}
	}

	if best == nil {
		r.metrics.Resolution(kindCommodity, outcomeUnresolved)
		r.logger.Debug("commodity unresolved", "input", input, "terms", terms)
		return Result{}, false, nil
	}

	r.metrics.Resolution(kindCommodity, outcomeResolved)
	r.logger.Debug("commodity resolved",
		"input", input,
		"tag", tag,
		"term", best.term,
		"code", best.entry.Code,
		"name", best.entry.DisplayName(),
		"score", best.score,
	)
	return Result{Code: best.entry.Code, Name: best.entry.DisplayName()}, true, nil
}

// matches reports whether any name of e contains term, directly or with
// punctuation removed.
func matches(e catalog.Entry, term string) bool {
	term = normalize.Normalize(term)
	stripped := normalize.StripNonLetters(term)
	for _, name := range e.Names() {
		n := normalize.Normalize(name)
		if n == term || strings.Contains(n, term) {
			return true
		}
		if stripped != "" && strings.Contains(normalize.StripNonLetters(name), stripped) {
			return true
		}
	}
	return false
}

// CountryResolver resolves country names and the world pseudo-country.
type CountryResolver struct {
	catalog Catalog
	aliases *alias.Tables
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCountryResolver creates a country resolver.
func NewCountryResolver(c Catalog, aliases *alias.Tables, m *metrics.Metrics, logger *slog.Logger) *CountryResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountryResolver{catalog: c, aliases: aliases, metrics: m, logger: logger}
}

// IsWorld reports whether input names the world aggregate.
func (r *CountryResolver) IsWorld(input string) bool {
	term := normalize.Normalize(input)
	if translated, ok := r.aliases.Country(input); ok {
		term = normalize.Normalize(translated)
	}
	return term == normalize.Normalize(catalog.WorldName)
}

// Resolve finds the country for input. Matching runs in tiers: exact
// name, name containing the term, then the same with punctuation removed.
// The first entry of the first non-empty tier wins.
func (r *CountryResolver) Resolve(ctx context.Context, input string) (Result, bool, error) {
	term := normalize.Normalize(input)
	if translated, ok := r.aliases.Country(input); ok {
		term = normalize.Normalize(translated)
	}
	if term == "" {
		r.metrics.Resolution(kindCountry, outcomeUnresolved)
		return Result{}, false, nil
	}

	entries, err := r.catalog.Countries(ctx)
	if err != nil {
		r.metrics.Resolution(kindCountry, outcomeError)
		return Result{}, false, err
	}

	stripped := normalize.StripNonLetters(term)
	tiers := []func(name string) bool{
		func(name string) bool { return normalize.Normalize(name) == term },
		func(name string) bool { return strings.Contains(normalize.Normalize(name), term) },
		func(name string) bool {
			return stripped != "" && strings.Contains(normalize.StripNonLetters(name), stripped)
		},
	}

	for _, match := range tiers {
		for _, e := range entries {
			for _, name := range e.Names() {
				if match(name) {
					r.metrics.Resolution(kindCountry, outcomeResolved)
					return Result{Code: e.Code, Name: e.DisplayName()}, true, nil
				}
			}
		}
	}

	r.metrics.Resolution(kindCountry, outcomeUnresolved)
	r.logger.Debug("country unresolved", "input", input, "term", term)
	return Result{}, false, nil
}

// MetricResolver maps metric names to attribute labels.
type MetricResolver struct {
	aliases *alias.Tables
}

// NewMetricResolver creates a metric resolver.
func NewMetricResolver(aliases *alias.Tables) *MetricResolver {
	return &MetricResolver{aliases: aliases}
}

// Resolve returns the attribute label for input: an alias translation, a
// case-insensitive balance sheet label, or the trimmed input unchanged.
func (r *MetricResolver) Resolve(input string) string {
	if label, ok := r.aliases.Metric(input); ok {
		return label
	}
	want := normalize.Normalize(input)
	for _, label := range aggregate.BalanceSheet {
		if normalize.Normalize(label) == want {
			return label
		}
	}
	return strings.TrimSpace(input)
}
