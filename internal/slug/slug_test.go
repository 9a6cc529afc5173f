package slug

import "testing"

// TestGenerate covers category and headline titles, punctuation, and
// whitespace handling.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single word", input: "Markets", want: "markets"},
		{name: "two words", input: "Central Banks", want: "central-banks"},
		{name: "ampersand", input: "Bonds & Rates", want: "bonds-rates"},
		{name: "headline punctuation", input: "S&P 500 Reaches New All-Time High!", want: "sp-500-reaches-new-all-time-high"},
		{name: "currency symbol", input: "Bitcoin Surges Past $45,000", want: "bitcoin-surges-past-45000"},
		{name: "leading and trailing spaces", input: "  Earnings  ", want: "earnings"},
		{name: "multiple spaces", input: "Forex    News", want: "forex-news"},
		{name: "existing hyphens collapse", input: "Q4 -- Results", want: "q4-results"},
		{name: "only punctuation", input: "!!!", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "non-ascii dropped", input: "Économie", want: "conomie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"markets", "earnings-q4-2026", "a", "500"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "markets", want: true},
		{input: "central-banks", want: true},
		{input: "q4-2026", want: true},
		{input: "", want: false},
		{input: "Markets", want: false},
		{input: "central banks", want: false},
		{input: "-markets", want: false},
		{input: "markets--news", want: false},
		{input: "bonds&rates", want: false},
		{input: "tab\tseparated", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
