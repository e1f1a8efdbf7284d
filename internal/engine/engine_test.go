package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/classify"
	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/email"
	"github.com/pgoretti/landcontact/internal/funnel"
	"github.com/pgoretti/landcontact/internal/geocode"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/registry"
	"github.com/pgoretti/landcontact/internal/service"
)

// fakeStorage is an in-memory service.Storage for engine tests.
type fakeStorage struct {
	campaigns map[int64]*model.Campaign
	parcels   map[int64][]model.Parcel
	addresses map[int64][]model.ClassifiedAddress
	stages    map[int64][]model.FunnelStage
	quality   map[int64][]model.QualityDistributionEntry
	nextID    int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		campaigns: make(map[int64]*model.Campaign),
		parcels:   make(map[int64][]model.Parcel),
		addresses: make(map[int64][]model.ClassifiedAddress),
		stages:    make(map[int64][]model.FunnelStage),
		quality:   make(map[int64][]model.QualityDistributionEntry),
	}
}

func (s *fakeStorage) CreateCampaign(_ context.Context, name string, municipalities []string) (*model.Campaign, error) {
	s.nextID++
	c := &model.Campaign{
		ID:             s.nextID,
		Name:           name,
		Municipalities: municipalities,
		CreatedAt:      time.Now(),
	}
	s.campaigns[c.ID] = c
	return c, nil
}

func (s *fakeStorage) GetCampaign(_ context.Context, id int64) (*model.Campaign, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("%w: campaign %d", common.ErrNotFound, id)
	}
	return c, nil
}

func (s *fakeStorage) GetLatestCampaign(_ context.Context) (*model.Campaign, error) {
	c, ok := s.campaigns[s.nextID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (s *fakeStorage) SaveParcels(_ context.Context, campaignID int64, parcels []model.Parcel) error {
	s.parcels[campaignID] = parcels
	return nil
}

func (s *fakeStorage) GetParcels(_ context.Context, campaignID int64) ([]model.Parcel, error) {
	return s.parcels[campaignID], nil
}

func (s *fakeStorage) SaveClassifiedAddresses(_ context.Context, campaignID int64, addresses []model.ClassifiedAddress) error {
	s.addresses[campaignID] = addresses
	return nil
}

func (s *fakeStorage) GetClassifiedAddresses(_ context.Context, campaignID int64, filter service.AddressFilter) ([]model.ClassifiedAddress, error) {
	var out []model.ClassifiedAddress
	for _, a := range s.addresses[campaignID] {
		if filter.Tier != nil && a.Tier != *filter.Tier {
			continue
		}
		if filter.Channel != nil && a.Channel != *filter.Channel {
			continue
		}
		out = append(out, a)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStorage) SaveFunnelStages(_ context.Context, campaignID int64, stages []model.FunnelStage) error {
	s.stages[campaignID] = append(s.stages[campaignID], stages...)
	return nil
}

func (s *fakeStorage) GetFunnelStages(_ context.Context, campaignID int64, funnelType model.FunnelType) ([]model.FunnelStage, error) {
	var out []model.FunnelStage
	for _, st := range s.stages[campaignID] {
		if st.Funnel == funnelType {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *fakeStorage) SaveQualityDistribution(_ context.Context, campaignID int64, entries []model.QualityDistributionEntry) error {
	s.quality[campaignID] = entries
	return nil
}

func (s *fakeStorage) GetQualityDistribution(_ context.Context, campaignID int64) ([]model.QualityDistributionEntry, error) {
	return s.quality[campaignID], nil
}

func (s *fakeStorage) Migrate(_ context.Context) error { return nil }
func (s *fakeStorage) Close() error                    { return nil }

func testParcel(municipality, sheet, id string, area float64) model.Parcel {
	return model.Parcel{
		Key:          model.ParcelKey{Municipality: municipality, SheetID: sheet, ParcelID: id},
		Province:     "LO",
		AreaHectares: area,
	}
}

func individualRow(parcel model.ParcelKey, ownerID, name, address string) model.OwnershipRow {
	return model.OwnershipRow{
		Parcel:           parcel,
		OwnerID:          ownerID,
		OwnerName:        name,
		Kind:             model.OwnerIndividual,
		PropertyCategory: "SEMINATIVO",
		Quota:            "1/1",
		DeclaredAddress:  address,
	}
}

func fullResult(street, number, province string) model.GeocodeResult {
	lat, lon := 45.31, 9.5
	return model.GeocodeResult{
		OK:                true,
		NormalizedAddress: street + " " + number,
		StreetName:        street,
		StreetNumber:      number,
		PostalCode:        "26900",
		City:              "LODI",
		Province:          province,
		Latitude:          &lat,
		Longitude:         &lon,
	}
}

func newTestEngine(t *testing.T) (*CampaignEngine, *fakeStorage, *registry.MockClient, *geocode.MockGeocoder) {
	t.Helper()

	store := newFakeStorage()
	reg := registry.NewMockClient()
	geo := geocode.NewMockGeocoder()
	emails := &email.MockLookup{Emails: map[string]string{
		"12345678901": "legal@agricola-lodi.example",
	}}
	classifier := classify.New(classify.DefaultConfig())

	cfg := DefaultConfig()
	cfg.RegistryRetry.InitialDelay = time.Millisecond
	cfg.GeocodeRetry.InitialDelay = time.Millisecond

	eng := NewWithConfig(store, reg, geo, emails, classifier, cfg)
	return eng, store, reg, geo
}

func TestRunFullCampaign(t *testing.T) {
	eng, store, reg, geo := newTestEngine(t)

	p1 := testParcel("LODI", "1", "101", 1.5)
	p2 := testParcel("LODI", "1", "102", 2.0)
	p3 := testParcel("LODI", "2", "201", 3.0)

	// p1: one individual plus a company co-owner; p2: the same individual,
	// same declared address; p3: registry has no data.
	reg.Add(p1.Key,
		individualRow(p1.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi 32 (LO)"),
		model.OwnershipRow{
			Parcel:           p1.Key,
			OwnerID:          "12345678901",
			OwnerName:        "Agricola Lodi SRL",
			Kind:             model.OwnerCompany,
			PropertyCategory: "SEMINATIVO",
			Quota:            "1/2",
		},
	)
	reg.Add(p2.Key,
		individualRow(p2.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi, 32 (LO)"),
		individualRow(p2.Key, "VRDLGU75B02E648Y", "Luigi Verdi", "Piazza Duomo 1"),
	)
	reg.Fail(p3.Key, fmt.Errorf("%w: no data", common.ErrRegistryLookup))

	geo.Results["Via Garibaldi 32 (LO)"] = fullResult("VIA GARIBALDI", "32", "LO")
	// Luigi's address stays unknown to the geocoder: terminal failure.

	report, err := eng.Run(context.Background(), "lodi-spring", []model.Parcel{p1, p2, p3})
	require.NoError(t, err)

	land := report.LandFunnel
	require.Len(t, land, 4)
	assert.Equal(t, 3, land[0].Count)
	assert.Equal(t, 2, land[1].Count, "registry failure excluded from lookup stage")
	assert.Equal(t, 2, land[2].Count)
	assert.Equal(t, 2, land[3].Count)
	assert.InDelta(t, 6.5, land[0].AreaHectares, 1e-9)
	assert.InDelta(t, 3.5, land[1].AreaHectares, 1e-9)

	byName := make(map[string]model.FunnelStage)
	for _, s := range report.ContactFunnel {
		byName[s.Name] = s
	}
	assert.Equal(t, 2, byName[funnel.StageUniqueOwners].Count, "company owner excluded")
	assert.Equal(t, 2, byName[funnel.StageAddressPairs].Count, "address variants merge")
	assert.Equal(t, 1, byName[funnel.StageGeocoded].Count)
	assert.Equal(t, 1, byName[funnel.StageDirectMail].Count)
	assert.Equal(t, 1, byName[funnel.StageAgency].Count)

	require.Len(t, report.Addresses, 2)
	byOwner := make(map[string]model.ClassifiedAddress)
	for _, a := range report.Addresses {
		byOwner[a.Pair.OwnerID] = a
	}
	mario := byOwner["RSSMRA80A01E648X"]
	assert.Equal(t, model.TierUltraHigh, mario.Tier)
	assert.Equal(t, model.ChannelDirectMail, mario.Channel)
	assert.Len(t, mario.Pair.Parcels, 2, "both parcels follow the merged pair")

	luigi := byOwner["VRDLGU75B02E648Y"]
	assert.Equal(t, model.TierLow, luigi.Tier)
	assert.Equal(t, model.ChannelAgency, luigi.Channel)
	assert.False(t, luigi.Geocode.OK)

	require.Len(t, report.CompanyContacts, 1)
	assert.Equal(t, "legal@agricola-lodi.example", report.CompanyContacts[0].Email)
	assert.Equal(t, []model.ParcelKey{p1.Key}, report.CompanyContacts[0].Parcels)

	// Everything the report carries is also persisted.
	saved, err := store.GetClassifiedAddresses(context.Background(), report.Campaign.ID, service.AddressFilter{})
	require.NoError(t, err)
	assert.Len(t, saved, 2)
	landStages, err := store.GetFunnelStages(context.Background(), report.Campaign.ID, model.FunnelLand)
	require.NoError(t, err)
	assert.Len(t, landStages, 4)
	quality, err := store.GetQualityDistribution(context.Background(), report.Campaign.ID)
	require.NoError(t, err)
	assert.Len(t, quality, 4)
}

func TestRunRegistryFailureNeverClassified(t *testing.T) {
	eng, _, reg, _ := newTestEngine(t)

	p := testParcel("LODI", "1", "101", 1.0)
	reg.Fail(p.Key, fmt.Errorf("%w: provider down", common.ErrRegistryTimeout))

	report, err := eng.Run(context.Background(), "timeouts", []model.Parcel{p})
	require.NoError(t, err)

	assert.Empty(t, report.Addresses, "failed parcel must not produce a classified address")
	assert.Equal(t, 1, report.LandFunnel[0].Count)
	assert.Equal(t, 0, report.LandFunnel[1].Count)
}

func TestRunIneligibleCategoryFiltered(t *testing.T) {
	eng, _, reg, geo := newTestEngine(t)

	p := testParcel("LODI", "1", "101", 1.0)
	row := individualRow(p.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi 32")
	row.PropertyCategory = "FABBRICATO INDUSTRIALE"
	reg.Add(p.Key, row)
	geo.Results["Via Garibaldi 32"] = fullResult("VIA GARIBALDI", "32", "LO")

	report, err := eng.Run(context.Background(), "filtered", []model.Parcel{p})
	require.NoError(t, err)

	assert.Equal(t, 1, report.LandFunnel[2].Count, "individual owner present")
	assert.Equal(t, 0, report.LandFunnel[3].Count, "category not eligible")
	assert.Empty(t, report.Addresses)
	assert.Empty(t, geo.Calls(), "nothing to geocode")
}

func TestRunOwnerAcrossMunicipalitiesMailedOnce(t *testing.T) {
	eng, _, reg, geo := newTestEngine(t)

	p1 := testParcel("LODI", "1", "101", 1.0)
	p2 := testParcel("CASALPUSTERLENGO", "3", "55", 2.0)
	reg.Add(p1.Key, individualRow(p1.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi 32 (LO)"))
	reg.Add(p2.Key, individualRow(p2.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi 32 (LO)"))
	geo.Results["Via Garibaldi 32 (LO)"] = fullResult("VIA GARIBALDI", "32", "LO")

	report, err := eng.Run(context.Background(), "cross", []model.Parcel{p1, p2})
	require.NoError(t, err)

	require.Len(t, report.Addresses, 1, "one owner, one mailing")
	assert.Len(t, report.Addresses[0].Pair.Parcels, 2)

	byName := make(map[string]model.FunnelStage)
	for _, s := range report.ContactFunnel {
		byName[s.Name] = s
	}
	assert.Equal(t, 1, byName[funnel.StageUniqueOwners].Count)
	assert.Equal(t, 1, byName[funnel.StageAddressPairs].Count)
}

func TestRunEmptyParcelList(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	_, err := eng.Run(context.Background(), "empty", nil)
	require.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	eng, _, reg, _ := newTestEngine(t)

	p := testParcel("LODI", "1", "101", 1.0)
	reg.Add(p.Key, individualRow(p.Key, "RSSMRA80A01E648X", "Mario Rossi", "Via Garibaldi 32"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx, "canceled", []model.Parcel{p})
	require.ErrorIs(t, err, context.Canceled)
}
