// Package geocode implements the geocoding collaborator: one declared
// address in, one structured result or a terminal failure out.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

// Config holds the geocoding service settings.
type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	Timeout           time.Duration
}

// DefaultConfig returns conservative client settings.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		Timeout:           30 * time.Second,
	}
}

// Client is a rate-limited HTTP geocoder.
type Client struct {
	httpClient *http.Client
	limiter    *rateLimiter
	config     Config
}

// NewClient creates a geocoding client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("%w: geocoder base URL", common.ErrMissingConfig)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		limiter:    newRateLimiter(config.RequestsPerMinute),
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Close stops the rate limiter.
func (c *Client) Close() {
	c.limiter.Close()
}

// lookupResponse is the provider's wire format.
type lookupResponse struct {
	Status  string `json:"status"` // "OK" or "ZERO_RESULTS"
	Address struct {
		Formatted string `json:"formatted"`
		Street    string `json:"street"`
		Number    string `json:"number"`
		Suffix    string `json:"suffix"`
		Postcode  string `json:"postcode"`
		City      string `json:"city"`
		Province  string `json:"province"`
	} `json:"address"`
	Location *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
}

// Lookup resolves one declared address. A provider "no result" is a valid
// terminal outcome (OK=false, nil error); transport and server errors are
// returned for the retry layer to handle.
func (c *Client) Lookup(ctx context.Context, declared string) (model.GeocodeResult, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return model.GeocodeFailure(), err
	}

	u, err := url.Parse(c.config.BaseURL + "/v1/geocode")
	if err != nil {
		return model.GeocodeFailure(), fmt.Errorf("failed to parse geocoder URL: %w", err)
	}
	q := u.Query()
	q.Set("q", declared)
	q.Set("country", "it")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.GeocodeFailure(), fmt.Errorf("failed to create request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.GeocodeFailure(), fmt.Errorf("geocoder request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return model.GeocodeFailure(), common.ErrRateLimit
	case resp.StatusCode == http.StatusNotFound:
		return model.GeocodeFailure(), nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return model.GeocodeFailure(), fmt.Errorf("%w: status %d - %s", common.ErrGeocodingFailed, resp.StatusCode, string(body))
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return model.GeocodeFailure(), fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	if lr.Status != "OK" {
		return model.GeocodeFailure(), nil
	}

	result := model.GeocodeResult{
		OK:                true,
		NormalizedAddress: lr.Address.Formatted,
		StreetName:        lr.Address.Street,
		StreetNumber:      lr.Address.Number,
		StreetSuffix:      lr.Address.Suffix,
		PostalCode:        lr.Address.Postcode,
		City:              lr.Address.City,
		Province:          lr.Address.Province,
	}
	if lr.Location != nil {
		lat, lon := lr.Location.Lat, lr.Location.Lon
		result.Latitude = &lat
		result.Longitude = &lon
	}

	return result, nil
}
