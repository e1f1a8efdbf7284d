package email

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/common"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	return client
}

func TestCompanyEmail(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/companies/12345678901/email", r.URL.Path)
		assert.Equal(t, "Agricola Lodi SRL", r.URL.Query().Get("name"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email": "legal@agricola-lodi.example"}`))
	})

	email, err := client.CompanyEmail(context.Background(), "Agricola Lodi SRL", "12345678901")
	require.NoError(t, err)
	assert.Equal(t, "legal@agricola-lodi.example", email)
}

func TestCompanyEmailNotFound(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.CompanyEmail(context.Background(), "Ghost SRL", "00000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestMockLookup(t *testing.T) {
	mock := &MockLookup{Emails: map[string]string{"12345678901": "legal@example.com"}}

	email, err := mock.CompanyEmail(context.Background(), "Any", "12345678901")
	require.NoError(t, err)
	assert.Equal(t, "legal@example.com", email)

	_, err = mock.CompanyEmail(context.Background(), "Any", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
