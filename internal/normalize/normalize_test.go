package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Soybeans", "soybeans"},
		{"  Oil,   Soybean ", "oil, soybean"},
		{"Meal,\tSoybean\n", "meal, soybean"},
		{"BRASIL", "brasil"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "Soybeans", "  Oil,   Soybean ", "Açúcar  Refinado",
		"\t\nWorld\t", "Corn (Maize)", "MY   Exports",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestStripNonLetters(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Oil, Soybean", "oil soybean"},
		{"Oilseed, Soybean (Local)", "oilseed soybean local"},
		{"Cotton 480lb", "cotton 480lb"},
		{"Côte d'Ivoire", "cte divoire"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripNonLetters(tt.input); got != tt.expected {
				t.Errorf("StripNonLetters(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Açúcar", "acucar"},
		{"  Algodão ", "algodao"},
		{"Côte d'Ivoire", "cote d'ivoire"},
		{"corn", "corn"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.expected {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"commas", "brasil,argentina,xx-unknown", []string{"brasil", "argentina", "xx-unknown"}},
		{"mixed separators", "Brazil | Argentina; China", []string{"Brazil", "Argentina", "China"}},
		{"dedupe keeps first", "brasil, BRASIL ,Brasil", []string{"brasil"}},
		{"empty items dropped", ",, ;|", []string{}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
