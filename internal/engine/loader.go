package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pgoretti/landcontact/internal/model"
)

// LoadParcels reads a campaign's parcel list from a CSV file with columns
// municipality, sheet, parcel, province, area_hectares. A header row is
// detected and skipped. Areas accept both "1.5" and the locale's "1,5".
func LoadParcels(path string) ([]model.Parcel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parcel list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadParcels(f)
}

// ReadParcels parses a parcel list from a reader.
func ReadParcels(r io.Reader) ([]model.Parcel, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	var parcels []model.Parcel
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parcel list: %w", err)
		}
		line++

		if line == 1 && isHeader(record) {
			continue
		}

		area, err := parseArea(record[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		parcel := model.Parcel{
			Key: model.ParcelKey{
				Municipality: strings.ToUpper(strings.TrimSpace(record[0])),
				SheetID:      strings.TrimSpace(record[1]),
				ParcelID:     strings.TrimSpace(record[2]),
			},
			Province:     strings.ToUpper(strings.TrimSpace(record[3])),
			AreaHectares: area,
		}
		if parcel.Key.Municipality == "" || parcel.Key.SheetID == "" || parcel.Key.ParcelID == "" {
			return nil, fmt.Errorf("line %d: incomplete parcel key", line)
		}

		parcels = append(parcels, parcel)
	}

	if len(parcels) == 0 {
		return nil, fmt.Errorf("parcel list is empty")
	}

	return parcels, nil
}

func isHeader(record []string) bool {
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "municipality" || first == "comune"
}

// parseArea parses an area in hectares, accepting a comma decimal separator.
// Registry extracts from Italian sources routinely use "1,5" for 1.5 ha.
func parseArea(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	area, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid area %q", s)
	}
	if area < 0 {
		return 0, fmt.Errorf("negative area %q", s)
	}
	return area, nil
}
