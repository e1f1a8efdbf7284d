package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pgoretti/landcontact/internal/config"
	"github.com/pgoretti/landcontact/internal/email"
	"github.com/pgoretti/landcontact/internal/geocode"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/registry"
	"github.com/pgoretti/landcontact/internal/service"
	"github.com/pgoretti/landcontact/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initGeocoder builds the geocoding client, or the offline echo double.
func initGeocoder(offline bool) (service.Geocoder, error) {
	if offline {
		return geocode.EchoGeocoder{}, nil
	}

	client, err := geocode.NewClient(geocode.Config{
		BaseURL:           viper.GetString("geocode.base_url"),
		APIKey:            viper.GetString("geocode.api_key"),
		RequestsPerMinute: viper.GetInt("geocode.requests_per_minute"),
		Timeout:           viper.GetDuration("geocode.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder: %w", err)
	}
	return client, nil
}

// initRegistry builds the land-registry client.
func initRegistry() (service.RegistryClient, error) {
	client, err := registry.NewClient(registry.Config{
		BaseURL: viper.GetString("registry.base_url"),
		APIKey:  viper.GetString("registry.api_key"),
		Timeout: viper.GetDuration("registry.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}
	return client, nil
}

// initEmailLookup builds the corporate-email client; with no configured
// endpoint every lookup reports not found.
func initEmailLookup() service.EmailLookup {
	baseURL := viper.GetString("email.base_url")
	if baseURL == "" {
		return &email.MockLookup{}
	}

	client, err := email.NewClient(email.Config{
		BaseURL: baseURL,
		APIKey:  viper.GetString("email.api_key"),
		Timeout: viper.GetDuration("email.timeout"),
	})
	if err != nil {
		return &email.MockLookup{}
	}
	return client
}

// resolveCampaign loads the requested campaign, or the latest one when id
// is zero.
func resolveCampaign(ctx context.Context, store service.Storage, id int64) (*model.Campaign, error) {
	if id > 0 {
		return store.GetCampaign(ctx, id)
	}
	return store.GetLatestCampaign(ctx)
}

// loadReport reassembles a persisted campaign report. Corporate contacts
// are resolved at run time only and are not part of the stored report.
func loadReport(ctx context.Context, store service.Storage, campaign *model.Campaign) (*service.CampaignReport, error) {
	land, err := store.GetFunnelStages(ctx, campaign.ID, model.FunnelLand)
	if err != nil {
		return nil, fmt.Errorf("failed to load land funnel: %w", err)
	}
	contact, err := store.GetFunnelStages(ctx, campaign.ID, model.FunnelContact)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact funnel: %w", err)
	}
	quality, err := store.GetQualityDistribution(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality distribution: %w", err)
	}
	addresses, err := store.GetClassifiedAddresses(ctx, campaign.ID, service.AddressFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}

	return &service.CampaignReport{
		Campaign:      *campaign,
		LandFunnel:    land,
		ContactFunnel: contact,
		Quality:       quality,
		Addresses:     addresses,
		Duration:      time.Duration(0),
	}, nil
}
