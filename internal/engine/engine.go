// Package engine orchestrates a mailing campaign: registry retrieval per
// parcel, owner-kind split, deduplication, geocoding, classification and
// funnel aggregation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/dedupe"
	"github.com/pgoretti/landcontact/internal/funnel"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

// Config holds configuration options for the campaign engine.
type Config struct {
	// EligibleCategories lists the property-use categories that qualify a
	// parcel for the mailing pipeline. Empty means every category qualifies.
	EligibleCategories []string
	RegistryRetry      service.RetryOptions
	GeocodeRetry       service.RetryOptions
	// ProgressWriter receives the geocoding progress bar; nil disables it.
	ProgressWriter io.Writer
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		EligibleCategories: []string{
			"SEMINATIVO",
			"SEMINATIVO IRRIGUO",
			"PRATO",
			"VIGNETO",
			"FRUTTETO",
		},
		RegistryRetry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
		GeocodeRetry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// CampaignEngine runs one campaign end to end and persists the results.
type CampaignEngine struct {
	storage    service.Storage
	registry   service.RegistryClient
	geocoder   service.Geocoder
	emails     service.EmailLookup
	classifier AddressClassifier
	config     Config
	eligible   map[string]struct{}
}

// New creates a campaign engine with the default configuration.
func New(storage service.Storage, registry service.RegistryClient, geocoder service.Geocoder, emails service.EmailLookup, classifier AddressClassifier) *CampaignEngine {
	return NewWithConfig(storage, registry, geocoder, emails, classifier, DefaultConfig())
}

// NewWithConfig creates a campaign engine with custom configuration.
func NewWithConfig(storage service.Storage, registry service.RegistryClient, geocoder service.Geocoder, emails service.EmailLookup, classifier AddressClassifier, config Config) *CampaignEngine {
	eligible := make(map[string]struct{}, len(config.EligibleCategories))
	for _, c := range config.EligibleCategories {
		eligible[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}

	return &CampaignEngine{
		storage:    storage,
		registry:   registry,
		geocoder:   geocoder,
		emails:     emails,
		classifier: classifier,
		config:     config,
		eligible:   eligible,
	}
}

// Run processes the given parcels as one campaign and returns the report.
func (e *CampaignEngine) Run(ctx context.Context, name string, parcels []model.Parcel) (*service.CampaignReport, error) {
	start := time.Now()

	if len(parcels) == 0 {
		return nil, fmt.Errorf("no parcels to process")
	}

	byMunicipality := groupByMunicipality(parcels)
	municipalities := make([]string, 0, len(byMunicipality))
	for m := range byMunicipality {
		municipalities = append(municipalities, m)
	}
	sort.Strings(municipalities)

	slog.Info("Starting campaign",
		"name", name,
		"parcels", len(parcels),
		"municipalities", len(municipalities))

	campaign, err := e.storage.CreateCampaign(ctx, name, municipalities)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	if err := e.storage.SaveParcels(ctx, campaign.ID, parcels); err != nil {
		return nil, fmt.Errorf("failed to save parcels: %w", err)
	}

	components := make([]funnel.Components, 0, len(municipalities))
	var allRows []model.OwnershipRow

	for _, municipality := range municipalities {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c, rows, err := e.fetchMunicipality(ctx, municipality, byMunicipality[municipality])
		if err != nil {
			return nil, err
		}
		components = append(components, c)
		allRows = append(allRows, rows...)
	}

	contacts, err := e.resolveCompanyContacts(ctx, allRows)
	if err != nil {
		return nil, err
	}

	bar := e.newProgressBar(totalPairs(components))
	for i := range components {
		if err := e.classifyComponents(ctx, &components[i], bar); err != nil {
			return nil, err
		}
	}

	merged := funnel.Merge(components...)

	land, err := funnel.LandFunnel(merged)
	if err != nil {
		return nil, fmt.Errorf("land funnel: %w", err)
	}
	contact, err := funnel.ContactFunnel(merged)
	if err != nil {
		return nil, fmt.Errorf("contact funnel: %w", err)
	}
	quality := funnel.QualityDistribution(merged.Classified)

	if err := e.persist(ctx, campaign.ID, merged.Classified, land, contact, quality); err != nil {
		return nil, err
	}

	slog.Info("Campaign complete",
		"campaign_id", campaign.ID,
		"addresses", len(merged.Classified),
		"company_contacts", len(contacts),
		"duration", time.Since(start))

	return &service.CampaignReport{
		Campaign:        *campaign,
		LandFunnel:      land,
		ContactFunnel:   contact,
		Quality:         quality,
		Addresses:       merged.Classified,
		CompanyContacts: contacts,
		Duration:        time.Since(start),
	}, nil
}

// fetchMunicipality retrieves ownership rows for one municipality's parcels
// and builds its raw funnel components up to the deduplicated address pairs.
// Registry "no data" and terminal timeouts become the registry-failed stage,
// never a classified address.
func (e *CampaignEngine) fetchMunicipality(ctx context.Context, municipality string, parcels []model.Parcel) (funnel.Components, []model.OwnershipRow, error) {
	c := funnel.Components{
		Municipality: municipality,
		InputParcels: parcels,
	}

	var rows []model.OwnershipRow

	for _, parcel := range parcels {
		select {
		case <-ctx.Done():
			return c, nil, ctx.Err()
		default:
		}

		parcelRows, err := e.fetchParcel(ctx, parcel.Key)
		if err != nil {
			if errors.Is(err, common.ErrRegistryLookup) || errors.Is(err, common.ErrRegistryTimeout) {
				slog.Warn("Registry lookup failed",
					"parcel", parcel.Key.String(),
					"error", err)
				c.RegistryFailed = append(c.RegistryFailed, parcel.Key)
				continue
			}
			return c, nil, fmt.Errorf("registry fetch for parcel %s: %w", parcel.Key, err)
		}

		c.RegistryOK = append(c.RegistryOK, parcel.Key)
		rows = append(rows, parcelRows...)
	}

	c.WithIndividual = dedupe.UniqueParcels(rows, func(r model.OwnershipRow) bool {
		return r.Kind == model.OwnerIndividual
	})
	c.Eligible = dedupe.UniqueParcels(rows, e.eligibleIndividual)

	eligibleRows := make([]model.OwnershipRow, 0, len(rows))
	for _, r := range rows {
		if e.eligibleIndividual(r) {
			eligibleRows = append(eligibleRows, r)
		}
	}

	c.Owners = dedupe.UniqueOwners(eligibleRows, func(model.OwnershipRow) bool { return true })
	c.Pairs = dedupe.OwnerAddressPairs(eligibleRows)

	slog.Info("Municipality fetched",
		"municipality", municipality,
		"parcels", len(parcels),
		"registry_failed", len(c.RegistryFailed),
		"ownership_rows", len(rows),
		"address_pairs", len(c.Pairs))

	return c, rows, nil
}

// fetchParcel calls the registry with retry. "No data" is definitive and
// never retried; timeouts are retried and keep their sentinel when the
// attempts run out, so both land in the registry-failed stage.
func (e *CampaignEngine) fetchParcel(ctx context.Context, key model.ParcelKey) ([]model.OwnershipRow, error) {
	var rows []model.OwnershipRow
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		rows, fetchErr = e.registry.OwnershipRows(ctx, key)
		if fetchErr != nil && errors.Is(fetchErr, common.ErrRegistryLookup) {
			return &common.RetryableError{Err: fetchErr, Retryable: false}
		}
		return fetchErr
	}, e.config.RegistryRetry)
	return rows, err
}

// classifyComponents geocodes and classifies one municipality's address pairs.
func (e *CampaignEngine) classifyComponents(ctx context.Context, c *funnel.Components, bar *progressbar.ProgressBar) error {
	for _, pair := range c.Pairs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := e.lookupAddress(ctx, pair.DeclaredAddress)
		if err != nil {
			slog.Warn("Geocoding gave up, classifying as failure",
				"owner", pair.OwnerID,
				"error", err)
			result = model.GeocodeFailure()
		}

		c.Classified = append(c.Classified, e.classifier.Classify(pair, result))

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

// lookupAddress geocodes with retry. A terminal "address not found" is a
// successful call returning a failed result, and is never retried.
func (e *CampaignEngine) lookupAddress(ctx context.Context, declared string) (model.GeocodeResult, error) {
	var result model.GeocodeResult
	err := common.WithRetry(ctx, func() error {
		var lookupErr error
		result, lookupErr = e.geocoder.Lookup(ctx, declared)
		if lookupErr != nil && !errors.Is(lookupErr, common.ErrRateLimit) {
			return &common.RetryableError{Err: lookupErr, Retryable: true}
		}
		return lookupErr
	}, e.config.GeocodeRetry)
	return result, err
}

// resolveCompanyContacts routes corporate owners through the email channel.
// A company the lookup does not know stays in the report without an email.
func (e *CampaignEngine) resolveCompanyContacts(ctx context.Context, rows []model.OwnershipRow) ([]service.CompanyContact, error) {
	byOwner := make(map[string]*service.CompanyContact)
	parcelSeen := make(map[string]map[model.ParcelKey]struct{})

	for _, r := range rows {
		if r.Kind != model.OwnerCompany {
			continue
		}
		contact, ok := byOwner[r.OwnerID]
		if !ok {
			contact = &service.CompanyContact{OwnerID: r.OwnerID, OwnerName: r.OwnerName}
			byOwner[r.OwnerID] = contact
			parcelSeen[r.OwnerID] = make(map[model.ParcelKey]struct{})
		}
		if _, dup := parcelSeen[r.OwnerID][r.Parcel]; !dup {
			parcelSeen[r.OwnerID][r.Parcel] = struct{}{}
			contact.Parcels = append(contact.Parcels, r.Parcel)
		}
	}

	ids := make([]string, 0, len(byOwner))
	for id := range byOwner {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	contacts := make([]service.CompanyContact, 0, len(ids))
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		contact := byOwner[id]
		email, err := e.emails.CompanyEmail(ctx, contact.OwnerName, contact.OwnerID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				slog.Warn("Email lookup failed",
					"owner", contact.OwnerID,
					"error", err)
			}
		} else {
			contact.Email = email
		}

		sort.Slice(contact.Parcels, func(i, j int) bool {
			return contact.Parcels[i].String() < contact.Parcels[j].String()
		})
		contacts = append(contacts, *contact)
	}

	return contacts, nil
}

func (e *CampaignEngine) persist(ctx context.Context, campaignID int64, addresses []model.ClassifiedAddress, land, contact []model.FunnelStage, quality []model.QualityDistributionEntry) error {
	if err := e.storage.SaveClassifiedAddresses(ctx, campaignID, addresses); err != nil {
		return fmt.Errorf("failed to save classified addresses: %w", err)
	}
	if err := e.storage.SaveFunnelStages(ctx, campaignID, land); err != nil {
		return fmt.Errorf("failed to save land funnel: %w", err)
	}
	if err := e.storage.SaveFunnelStages(ctx, campaignID, contact); err != nil {
		return fmt.Errorf("failed to save contact funnel: %w", err)
	}
	if err := e.storage.SaveQualityDistribution(ctx, campaignID, quality); err != nil {
		return fmt.Errorf("failed to save quality distribution: %w", err)
	}
	return nil
}

// eligibleIndividual reports whether an ownership row belongs to an
// individual holding an eligible property-use category.
func (e *CampaignEngine) eligibleIndividual(r model.OwnershipRow) bool {
	if r.Kind != model.OwnerIndividual {
		return false
	}
	if len(e.eligible) == 0 {
		return true
	}
	_, ok := e.eligible[strings.ToUpper(strings.TrimSpace(r.PropertyCategory))]
	return ok
}

func (e *CampaignEngine) newProgressBar(total int) *progressbar.ProgressBar {
	if e.config.ProgressWriter == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.config.ProgressWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Geocoding addresses..."),
	)
}

func groupByMunicipality(parcels []model.Parcel) map[string][]model.Parcel {
	groups := make(map[string][]model.Parcel)
	for _, p := range parcels {
		groups[p.Key.Municipality] = append(groups[p.Key.Municipality], p)
	}
	return groups
}

func totalPairs(components []funnel.Components) int {
	total := 0
	for _, c := range components {
		total += len(c.Pairs)
	}
	return total
}
