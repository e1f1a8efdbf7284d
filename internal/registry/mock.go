package registry

import (
	"context"
	"fmt"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

// MockClient is a test double keyed by parcel.
type MockClient struct {
	Rows     map[model.ParcelKey][]model.OwnershipRow
	Failures map[model.ParcelKey]error
}

// NewMockClient creates an empty mock; unknown parcels report no data.
func NewMockClient() *MockClient {
	return &MockClient{
		Rows:     make(map[model.ParcelKey][]model.OwnershipRow),
		Failures: make(map[model.ParcelKey]error),
	}
}

// Add registers ownership rows for a parcel.
func (m *MockClient) Add(parcel model.ParcelKey, rows ...model.OwnershipRow) {
	m.Rows[parcel] = append(m.Rows[parcel], rows...)
}

// Fail registers a failure for a parcel.
func (m *MockClient) Fail(parcel model.ParcelKey, err error) {
	m.Failures[parcel] = err
}

// OwnershipRows returns the canned rows for the parcel.
func (m *MockClient) OwnershipRows(_ context.Context, parcel model.ParcelKey) ([]model.OwnershipRow, error) {
	if err, ok := m.Failures[parcel]; ok {
		return nil, err
	}
	if rows, ok := m.Rows[parcel]; ok {
		return rows, nil
	}
	return nil, fmt.Errorf("%w: no data for parcel %s", common.ErrRegistryLookup, parcel)
}
