package geocode

import (
	"context"
	"strconv"
	"sync"

	"github.com/pgoretti/landcontact/internal/address"
	"github.com/pgoretti/landcontact/internal/model"
)

// MockGeocoder is a test and offline-mode double keyed by declared address.
type MockGeocoder struct {
	Results map[string]model.GeocodeResult
	Err     error

	mu    sync.Mutex
	calls []string
}

// NewMockGeocoder creates an empty mock; unknown addresses fail terminally.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{Results: make(map[string]model.GeocodeResult)}
}

// Lookup returns the canned result for the address, or a terminal failure.
func (m *MockGeocoder) Lookup(_ context.Context, declared string) (model.GeocodeResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, declared)
	m.mu.Unlock()

	if m.Err != nil {
		return model.GeocodeFailure(), m.Err
	}
	if r, ok := m.Results[declared]; ok {
		return r, nil
	}
	return model.GeocodeFailure(), nil
}

// Calls returns the addresses looked up so far.
func (m *MockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// EchoGeocoder is the offline geocoder: it reflects the declared address
// back as a fully populated result, so dry runs exercise the whole pipeline
// without network access.
type EchoGeocoder struct{}

// Lookup synthesizes a result from the declared address itself.
func (EchoGeocoder) Lookup(_ context.Context, declared string) (model.GeocodeResult, error) {
	normalized := address.Normalize(declared)
	if normalized == "" {
		return model.GeocodeFailure(), nil
	}

	num := address.ExtractNumber(normalized)
	result := model.GeocodeResult{
		OK:                true,
		NormalizedAddress: normalized,
		StreetName:        normalized,
		City:              "OFFLINE",
	}
	if num.Found {
		result.StreetNumber = strconv.Itoa(num.Base)
		result.StreetSuffix = num.Suffix
	}
	return result, nil
}
