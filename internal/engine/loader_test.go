package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadParcels(t *testing.T) {
	input := strings.Join([]string{
		"municipality,sheet,parcel,province,area_hectares",
		"Lodi,1,101,lo,1.5",
		"LODI,1,102,LO,\"2,75\"",
		"Casalpusterlengo,3,55,LO,0.25",
	}, "\n")

	parcels, err := ReadParcels(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parcels, 3)

	assert.Equal(t, "LODI", parcels[0].Key.Municipality)
	assert.Equal(t, "LO", parcels[0].Province)
	assert.InDelta(t, 1.5, parcels[0].AreaHectares, 1e-9)
	assert.InDelta(t, 2.75, parcels[1].AreaHectares, 1e-9, "comma decimal accepted")
	assert.Equal(t, "CASALPUSTERLENGO", parcels[2].Key.Municipality)
}

func TestReadParcelsNoHeader(t *testing.T) {
	parcels, err := ReadParcels(strings.NewReader("Lodi,1,101,LO,1.5\n"))
	require.NoError(t, err)
	require.Len(t, parcels, 1)
}

func TestReadParcelsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"header only", "municipality,sheet,parcel,province,area_hectares\n"},
		{"bad area", "Lodi,1,101,LO,abc\n"},
		{"negative area", "Lodi,1,101,LO,-1.5\n"},
		{"missing key", "Lodi,,101,LO,1.5\n"},
		{"wrong column count", "Lodi,1,101,LO\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadParcels(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadParcels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.csv")
	require.NoError(t, os.WriteFile(path, []byte("Lodi,1,101,LO,1.5\n"), 0o600))

	parcels, err := LoadParcels(path)
	require.NoError(t, err)
	assert.Len(t, parcels, 1)

	_, err = LoadParcels(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
