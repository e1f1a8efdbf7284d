package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

func TestPrepareReportData(t *testing.T) {
	report := &service.CampaignReport{
		Campaign: model.Campaign{
			ID:             1,
			Name:           "lodi-spring",
			Municipalities: []string{"LODI"},
			CreatedAt:      time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		LandFunnel: []model.FunnelStage{
			{Funnel: model.FunnelLand, Name: "input parcels", Count: 4, AreaHectares: 7.0, Conversion: 1, Retention: 1},
		},
		ContactFunnel: []model.FunnelStage{
			{Funnel: model.FunnelContact, Name: "unique owners", Count: 5, Conversion: 1.25, Retention: 1},
		},
		Quality: []model.QualityDistributionEntry{
			{Tier: model.TierUltraHigh, Count: 3, Percentage: 100.0},
		},
		Addresses: []model.ClassifiedAddress{
			{
				Pair: model.OwnerAddressPair{
					OwnerID:         "RSSMRA80A01E648X",
					OwnerName:       "Mario Rossi",
					DeclaredAddress: "Via Garibaldi 32 (LO)",
					Parcels:         []model.ParcelKey{{Municipality: "LODI", SheetID: "1", ParcelID: "101"}},
				},
				Tier:      model.TierUltraHigh,
				Channel:   model.ChannelDirectMail,
				Reasoning: "exact number match with complete geocoding",
			},
		},
		CompanyContacts: []service.CompanyContact{
			{OwnerID: "123", OwnerName: "Agricola Lodi SRL", Email: "legal@agricola.example"},
		},
	}

	values := prepareReportData(report)
	require.NotEmpty(t, values)

	flat := make(map[any]bool)
	for _, row := range values {
		for _, cell := range row {
			flat[cell] = true
		}
	}

	assert.True(t, flat[`Campaign "lodi-spring"`])
	assert.True(t, flat["Land acquisition funnel"])
	assert.True(t, flat["Contact processing funnel"])
	assert.True(t, flat["input parcels"])
	assert.True(t, flat["1.25×"], "multiplying stages render as multipliers")
	assert.True(t, flat["ULTRA_HIGH"])
	assert.True(t, flat["RSSMRA80A01E648X"])
	assert.True(t, flat["legal@agricola.example"])
}

func TestPrepareReportDataOmitsEmptyCompanySection(t *testing.T) {
	report := &service.CampaignReport{
		Campaign: model.Campaign{Name: "empty"},
	}

	values := prepareReportData(report)
	for _, row := range values {
		for _, cell := range row {
			assert.NotEqual(t, "Corporate owners (email channel)", cell)
		}
	}
}
