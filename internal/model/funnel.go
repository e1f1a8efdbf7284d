package model

import "time"

// FunnelType identifies which of the two campaign funnels a stage belongs to.
type FunnelType string

// Funnel types.
const (
	FunnelLand    FunnelType = "land_acquisition"
	FunnelContact FunnelType = "contact_processing"
)

// FunnelStage is one row of a campaign funnel. Rates are stored as plain
// ratios (1.0 == 100%); conversion may legitimately exceed 1.0 when a stage
// multiplies, e.g. several owners per parcel.
type FunnelStage struct {
	Funnel       FunnelType
	Name         string
	Count        int
	AreaHectares float64
	Conversion   float64 // relative to the immediately preceding stage
	Retention    float64 // relative to the funnel's anchor stage
}

// QualityDistributionEntry is one confidence tier's share of the classified
// address set. The four percentages always sum to exactly 100.0.
type QualityDistributionEntry struct {
	Tier       ConfidenceTier
	Count      int
	Percentage float64
}

// Campaign groups one batch run's inputs and results.
type Campaign struct {
	CreatedAt      time.Time
	Name           string
	Municipalities []string
	ID             int64
}
