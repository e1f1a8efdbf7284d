package address

import "github.com/pgoretti/landcontact/internal/model"

// Field weights for the completeness score. Required fields dominate;
// coordinates and country only refine an already usable address.
const (
	requiredWeight = 0.8
	optionalWeight = 0.2
)

// Completeness scores how much of the expected geocoded data is actually
// present, in [0,1]. countryPresent should be true for single-country
// campaigns, where the country is known without the geocoder saying so.
// A failed geocode scores 0.
func Completeness(g model.GeocodeResult, countryPresent bool) float64 {
	if !g.OK {
		return 0
	}

	required := 0
	for _, f := range []string{g.StreetName, g.PostalCode, g.City, g.Province} {
		if f != "" {
			required++
		}
	}

	optional := 0
	if g.Latitude != nil {
		optional++
	}
	if g.Longitude != nil {
		optional++
	}
	if countryPresent {
		optional++
	}

	return requiredWeight*float64(required)/4 + optionalWeight*float64(optional)/3
}
