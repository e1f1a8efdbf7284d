package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantBase   int
		wantSuffix string
		wantFound  bool
	}{
		{
			name:      "trailing number",
			in:        "VIA ROMA 32",
			wantBase:  32,
			wantFound: true,
		},
		{
			name:       "trailing number with slash suffix",
			in:         "VIA ROMA 32/A",
			wantBase:   32,
			wantSuffix: "A",
			wantFound:  true,
		},
		{
			name:       "trailing number with attached suffix",
			in:         "VIA ROMA 32A",
			wantBase:   32,
			wantSuffix: "A",
			wantFound:  true,
		},
		{
			name:      "explicit civic marker",
			in:        "VIA MANZONI N. 12",
			wantBase:  12,
			wantFound: true,
		},
		{
			name:       "civic marker with suffix",
			in:         "VIA MANZONI N. 12/B",
			wantBase:   12,
			wantSuffix: "B",
			wantFound:  true,
		},
		{
			name:      "numero spelled out",
			in:        "CORSO ITALIA NUMERO 5",
			wantBase:  5,
			wantFound: true,
		},
		{
			name:      "marker beats trailing token",
			in:        "VIA MANZONI N. 12 MILANO 20121",
			wantBase:  12,
			wantFound: true,
		},
		{
			name:      "date street name is not a number",
			in:        "VIA 4 NOVEMBRE",
			wantFound: false,
		},
		{
			name:      "date street with civic number",
			in:        "VIA 4 NOVEMBRE 10",
			wantBase:  10,
			wantFound: true,
		},
		{
			name:      "no number at all",
			in:        "PIAZZA DEL DUOMO",
			wantFound: false,
		},
		{
			name:      "snc marker short-circuits",
			in:        "VIA DEI MULINI SNC",
			wantFound: false,
		},
		{
			name:      "empty string",
			in:        "",
			wantFound: false,
		},
		{
			name:      "trailing postal code is not a civic number",
			in:        "VIA ROMA 20100",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumber(tt.in)
			require.Equal(t, tt.wantFound, got.Found)
			if tt.wantFound {
				assert.Equal(t, tt.wantBase, got.Base)
				assert.Equal(t, tt.wantSuffix, got.Suffix)
			}
		})
	}
}

func TestParseGeocoded(t *testing.T) {
	tests := []struct {
		name       string
		number     string
		suffix     string
		wantBase   int
		wantSuffix string
		wantFound  bool
	}{
		{"plain number", "32", "", 32, "", true},
		{"separate suffix", "32", "A", 32, "A", true},
		{"suffix folded into number", "12/A", "", 12, "A", true},
		{"lowercase suffix", "12", "a", 12, "A", true},
		{"separator-only suffix", "12", "/A", 12, "A", true},
		{"empty", "", "", 0, "", false},
		{"non-numeric", "SNC", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGeocoded(tt.number, tt.suffix)
			require.Equal(t, tt.wantFound, got.Found)
			if tt.wantFound {
				assert.Equal(t, tt.wantBase, got.Base)
				assert.Equal(t, tt.wantSuffix, got.Suffix)
			}
		})
	}
}
