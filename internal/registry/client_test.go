package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

func parcelKey() model.ParcelKey {
	return model.ParcelKey{Municipality: "LODI", SheetID: "1", ParcelID: "101"}
}

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	return client
}

func TestOwnershipRows(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/municipalities/LODI/sheets/1/parcels/101/owners", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"owners": [
				{
					"fiscal_id": "RSSMRA80A01E648X",
					"name": "Mario Rossi",
					"kind": "PF",
					"category": "SEMINATIVO",
					"quota": "1/2",
					"residence": "Via Garibaldi 32 (LO)"
				},
				{
					"fiscal_id": "12345678901",
					"name": "Agricola Lodi SRL",
					"kind": "PG",
					"category": "SEMINATIVO",
					"quota": "1/2",
					"residence": ""
				}
			]
		}`))
	})

	rows, err := client.OwnershipRows(context.Background(), parcelKey())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "RSSMRA80A01E648X", rows[0].OwnerID)
	assert.Equal(t, model.OwnerIndividual, rows[0].Kind)
	assert.Equal(t, "Via Garibaldi 32 (LO)", rows[0].DeclaredAddress)
	assert.Equal(t, parcelKey(), rows[0].Parcel)
	assert.Equal(t, model.OwnerCompany, rows[1].Kind)
}

func TestOwnershipRowsNoData(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.OwnershipRows(context.Background(), parcelKey())
	assert.ErrorIs(t, err, common.ErrRegistryLookup)
}

func TestOwnershipRowsGatewayTimeout(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := client.OwnershipRows(context.Background(), parcelKey())
	assert.ErrorIs(t, err, common.ErrRegistryTimeout)
}

func TestOwnershipRowsRateLimited(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.OwnershipRows(context.Background(), parcelKey())
	assert.ErrorIs(t, err, common.ErrRateLimit)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, model.OwnerIndividual, parseKind("PF"))
	assert.Equal(t, model.OwnerIndividual, parseKind("individual"))
	assert.Equal(t, model.OwnerCompany, parseKind("PG"))
	assert.Equal(t, model.OwnerGovernment, parseKind("ENTE"))
	assert.Equal(t, model.OwnerCompany, parseKind("???"), "unknown kinds stay out of the mailing pipeline")
}
