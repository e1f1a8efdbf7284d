// Package email implements the corporate-email collaborator. Company owners
// are routed through this channel upstream of address classification.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pgoretti/landcontact/internal/common"
)

// Config holds the corporate-email service settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the HTTP corporate-email lookup client.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates an email-lookup client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("%w: email-lookup base URL", common.ErrMissingConfig)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type lookupResponse struct {
	Email string `json:"email"`
}

// CompanyEmail resolves a certified contact email for a corporate owner.
// An unknown company yields common.ErrNotFound.
func (c *Client) CompanyEmail(ctx context.Context, ownerName, fiscalID string) (string, error) {
	u, err := url.Parse(c.config.BaseURL + "/v1/companies/" + url.PathEscape(fiscalID) + "/email")
	if err != nil {
		return "", fmt.Errorf("failed to parse email-lookup URL: %w", err)
	}
	q := u.Query()
	q.Set("name", ownerName)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email lookup failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, fiscalID)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("email-lookup error: %d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("failed to decode email-lookup response: %w", err)
	}

	return lr.Email, nil
}

// MockLookup is a test double keyed by fiscal identifier.
type MockLookup struct {
	Emails map[string]string
}

// CompanyEmail returns the canned email, or ErrNotFound.
func (m *MockLookup) CompanyEmail(_ context.Context, _, fiscalID string) (string, error) {
	if email, ok := m.Emails[fiscalID]; ok {
		return email, nil
	}
	return "", fmt.Errorf("%w: %s", common.ErrNotFound, fiscalID)
}
