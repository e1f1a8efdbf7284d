package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

func sampleReport() *service.CampaignReport {
	return &service.CampaignReport{
		Campaign: model.Campaign{
			ID:             1,
			Name:           "lodi-spring",
			Municipalities: []string{"LODI"},
			CreatedAt:      time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		LandFunnel: []model.FunnelStage{
			{Funnel: model.FunnelLand, Name: "input parcels", Count: 4, AreaHectares: 7.0, Conversion: 1, Retention: 1},
			{Funnel: model.FunnelLand, Name: "registry lookup succeeded", Count: 3, AreaHectares: 4.0, Conversion: 0.75, Retention: 0.75},
		},
		ContactFunnel: []model.FunnelStage{
			{Funnel: model.FunnelContact, Name: "unique owners", Count: 5, Conversion: 1.25, Retention: 1},
		},
		Quality: []model.QualityDistributionEntry{
			{Tier: model.TierUltraHigh, Count: 2, Percentage: 66.7},
			{Tier: model.TierHigh, Count: 1, Percentage: 33.3},
			{Tier: model.TierMedium, Count: 0, Percentage: 0},
			{Tier: model.TierLow, Count: 0, Percentage: 0},
		},
		CompanyContacts: []service.CompanyContact{
			{OwnerID: "123", OwnerName: "Agricola Lodi SRL", Email: "legal@agricola.example"},
			{OwnerID: "456", OwnerName: "Fondiaria Adda SPA"},
		},
		Duration: 42 * time.Second,
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	RenderReport(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "lodi-spring")
	assert.Contains(t, out, "Land acquisition")
	assert.Contains(t, out, "Contact processing")
	assert.Contains(t, out, "input parcels")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "1.25×", "owners-per-parcel expansion shown as a multiplier")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "Agricola Lodi SRL")
	assert.Contains(t, out, "no email found")
}

func TestRenderAddresses(t *testing.T) {
	var buf bytes.Buffer
	RenderAddresses(&buf, []model.ClassifiedAddress{
		{
			Pair:      model.OwnerAddressPair{OwnerID: "RSSMRA80A01E648X", DeclaredAddress: "Via Garibaldi 32 (LO)"},
			Tier:      model.TierUltraHigh,
			Channel:   model.ChannelDirectMail,
			Reasoning: "exact number match with complete geocoding",
		},
	})
	out := buf.String()

	assert.Contains(t, out, "RSSMRA80A01E648X")
	assert.Contains(t, out, "ULTRA_HIGH")
	assert.Contains(t, out, "DIRECT_MAIL")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a ver...", truncate("a very long address", 8))
}
