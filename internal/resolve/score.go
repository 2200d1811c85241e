package resolve

import (
	"strings"

	"github.com/cropline/psdgate/internal/alias"
)

// Scoring constants.
const (
	substringBonus  = 10.0
	baselineLength  = 12
	lengthPenalty   = 0.5
	soyOilseedBonus = 250.0
	soyPrefixBonus  = 200.0
	soyDerivPenalty = 200.0
)

// Scorer adds a tag-specific adjustment for a normalized catalog name.
type Scorer func(name string) float64

// DefaultScorers returns the tag strategies. Only soy queries carry a
// disambiguation rule; every other tag scores zero.
func DefaultScorers() map[alias.Tag]Scorer {
	return map[alias.Tag]Scorer{
		alias.TagSoy: SoyScore,
	}
}

// BaseScore rewards names containing term and penalizes long names.
func BaseScore(term, name string) float64 {
	var score float64
	if term != "" && strings.Contains(name, term) {
		score += substringBonus
	}
	if extra := len([]rune(name)) - baselineLength; extra > 0 {
		score -= lengthPenalty * float64(extra)
	}
	return score
}

// SoyScore prefers the raw bean over meal and oil.
func SoyScore(name string) float64 {
	var score float64
	if strings.Contains(name, "oilseed") && strings.Contains(name, "soybean") {
		score += soyOilseedBonus
	}
	if name == "soybeans" || strings.HasPrefix(name, "soybeans") {
		score += soyPrefixBonus
	}
	if strings.Contains(name, "meal") || strings.Contains(name, "oil, soybean") {
		score -= soyDerivPenalty
	}
	return score
}
