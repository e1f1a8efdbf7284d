package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: "",
		},
		{
			name: "case folded and collapsed",
			raw:  "  via   Roma 32 ",
			want: "VIA ROMA 32",
		},
		{
			name: "internal unit stripped",
			raw:  "Via Roma 32 int. 5",
			want: "VIA ROMA 32",
		},
		{
			name: "floor and staircase stripped",
			raw:  "Via Garibaldi 7 Piano 2 Scala B",
			want: "VIA GARIBALDI 7",
		},
		{
			name: "commas dropped",
			raw:  "Via Verdi, 21, Milano",
			want: "VIA VERDI 21 MILANO",
		},
		{
			name: "trailing province code removed",
			raw:  "Via Roma 12 (MI)",
			want: "VIA ROMA 12",
		},
		{
			name: "street named after a date survives",
			raw:  "Via 4 Novembre",
			want: "VIA 4 NOVEMBRE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestMarkedNoNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain snc", "VIA DEI MULINI SNC", true},
		{"dotted snc", "VIA DEI MULINI S.N.C.", true},
		{"spaced snc", "VIA DEI MULINI S N C", true},
		{"ordinary address", "VIA ROMA 32", false},
		{"snc inside a word", "VIA FRANCESCHINI 4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkedNoNumber(tt.in))
		})
	}
}

func TestDeclaredProvince(t *testing.T) {
	assert.Equal(t, "MI", DeclaredProvince("Via Roma 12 (MI)"))
	assert.Equal(t, "LO", DeclaredProvince("via garibaldi 7 (lo)"))
	assert.Equal(t, "", DeclaredProvince("Via Roma 12"))
	assert.Equal(t, "", DeclaredProvince("Via (Vecchia) Roma 12"))
}
