// Package registry implements the land-registry collaborator: it retrieves
// the ownership rows for one parcel at a time.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

// Config holds the registry service settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the HTTP registry client.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a registry client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("%w: registry base URL", common.ErrMissingConfig)
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// ownerRow is the registry's wire format for one ownership relationship.
type ownerRow struct {
	FiscalID  string `json:"fiscal_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Category  string `json:"category"`
	Quota     string `json:"quota"`
	Residence string `json:"residence"`
}

type ownersResponse struct {
	Rows []ownerRow `json:"owners"`
}

// OwnershipRows retrieves the ownership rows for one parcel.
// A parcel the registry has no data for yields common.ErrRegistryLookup; a
// provider timeout yields common.ErrRegistryTimeout. Both must surface as a
// registry-failure funnel exclusion, never as a classified address.
func (c *Client) OwnershipRows(ctx context.Context, parcel model.ParcelKey) ([]model.OwnershipRow, error) {
	u := fmt.Sprintf("%s/v1/municipalities/%s/sheets/%s/parcels/%s/owners",
		c.config.BaseURL, parcel.Municipality, parcel.SheetID, parcel.ParcelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: parcel %s", common.ErrRegistryTimeout, parcel)
		}
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no data for parcel %s", common.ErrRegistryLookup, parcel)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: parcel %s", common.ErrRegistryTimeout, parcel)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimit
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registry error: %d - %s", resp.StatusCode, string(body))
	}

	var or ownersResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	rows := make([]model.OwnershipRow, 0, len(or.Rows))
	for _, r := range or.Rows {
		rows = append(rows, model.OwnershipRow{
			Parcel:           parcel,
			OwnerID:          r.FiscalID,
			OwnerName:        r.Name,
			Kind:             parseKind(r.Kind),
			PropertyCategory: r.Category,
			Quota:            r.Quota,
			DeclaredAddress:  r.Residence,
		})
	}

	return rows, nil
}

// parseKind maps the registry's owner-kind strings onto the model's.
// Unrecognized kinds default to company: they stay out of the mailing
// pipeline rather than being mailed on a guess.
func parseKind(s string) model.OwnerKind {
	switch s {
	case "PF", "individual":
		return model.OwnerIndividual
	case "PG", "company":
		return model.OwnerCompany
	case "ENTE", "government":
		return model.OwnerGovernment
	}
	return model.OwnerCompany
}
