// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pgoretti/landcontact/internal/model"
)

// AddressFilter defines filtering options for classified-address queries.
type AddressFilter struct {
	Tier    *model.ConfidenceTier
	Channel *model.RoutingChannel
	Limit   int
}

// Storage defines the contract for the campaign persistence layer.
type Storage interface {
	// Campaign operations
	CreateCampaign(ctx context.Context, name string, municipalities []string) (*model.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*model.Campaign, error)
	GetLatestCampaign(ctx context.Context) (*model.Campaign, error)

	// Parcel operations
	SaveParcels(ctx context.Context, campaignID int64, parcels []model.Parcel) error
	GetParcels(ctx context.Context, campaignID int64) ([]model.Parcel, error)

	// Classified address operations
	SaveClassifiedAddresses(ctx context.Context, campaignID int64, addresses []model.ClassifiedAddress) error
	GetClassifiedAddresses(ctx context.Context, campaignID int64, filter AddressFilter) ([]model.ClassifiedAddress, error)

	// Funnel report operations
	SaveFunnelStages(ctx context.Context, campaignID int64, stages []model.FunnelStage) error
	GetFunnelStages(ctx context.Context, campaignID int64, funnel model.FunnelType) ([]model.FunnelStage, error)
	SaveQualityDistribution(ctx context.Context, campaignID int64, entries []model.QualityDistributionEntry) error
	GetQualityDistribution(ctx context.Context, campaignID int64) ([]model.QualityDistributionEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RegistryClient retrieves ownership rows from the national land registry.
// A parcel with no data or a terminal registry timeout yields an error
// wrapping common.ErrRegistryLookup / common.ErrRegistryTimeout; it must be
// surfaced as a registry-failure exclusion, never silently classified.
type RegistryClient interface {
	OwnershipRows(ctx context.Context, parcel model.ParcelKey) ([]model.OwnershipRow, error)
}

// Geocoder resolves one declared address. A terminal geocoding failure is a
// valid outcome: GeocodeResult with OK=false and a nil error. Non-nil errors
// are transport-level and retryable.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (model.GeocodeResult, error)
}

// EmailLookup resolves a contact email for corporate owners, which are
// routed upstream of address classification.
type EmailLookup interface {
	CompanyEmail(ctx context.Context, ownerName, fiscalID string) (string, error)
}

// CompanyContact is a corporate owner routed through the email channel.
type CompanyContact struct {
	OwnerID   string
	OwnerName string
	Email     string
	Parcels   []model.ParcelKey
}

// CampaignReport is everything the reporting layer consumes: plain
// structured records with no embedded formatting.
type CampaignReport struct {
	Campaign        model.Campaign
	LandFunnel      []model.FunnelStage
	ContactFunnel   []model.FunnelStage
	Quality         []model.QualityDistributionEntry
	Addresses       []model.ClassifiedAddress
	CompanyContacts []CompanyContact
	Duration        time.Duration
}

// ReportWriter exports a campaign report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *CampaignReport) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
