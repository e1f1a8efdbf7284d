package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/model"
)

func withTier(tier model.ConfidenceTier) model.ClassifiedAddress {
	return model.ClassifiedAddress{Tier: tier}
}

func TestQualityDistribution(t *testing.T) {
	tests := []struct {
		name  string
		tiers []model.ConfidenceTier
	}{
		{
			name:  "even split",
			tiers: []model.ConfidenceTier{model.TierUltraHigh, model.TierHigh, model.TierMedium, model.TierLow},
		},
		{
			name:  "thirds do not round to 99.9",
			tiers: []model.ConfidenceTier{model.TierUltraHigh, model.TierHigh, model.TierMedium},
		},
		{
			name: "sevenths",
			tiers: []model.ConfidenceTier{
				model.TierUltraHigh, model.TierUltraHigh, model.TierUltraHigh,
				model.TierHigh, model.TierHigh,
				model.TierMedium,
				model.TierLow,
			},
		},
		{
			name:  "single address",
			tiers: []model.ConfidenceTier{model.TierLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addrs []model.ClassifiedAddress
			for _, tier := range tt.tiers {
				addrs = append(addrs, withTier(tier))
			}

			entries := QualityDistribution(addrs)
			require.Len(t, entries, 4)

			totalPct := 0.0
			totalCount := 0
			for _, e := range entries {
				totalPct += e.Percentage
				totalCount += e.Count
			}

			assert.InDelta(t, 100.0, totalPct, 1e-9, "percentages must sum to exactly 100.0")
			assert.Equal(t, len(tt.tiers), totalCount)
		})
	}
}

func TestQualityDistributionOrderAndCounts(t *testing.T) {
	entries := QualityDistribution([]model.ClassifiedAddress{
		withTier(model.TierLow),
		withTier(model.TierLow),
		withTier(model.TierUltraHigh),
	})

	require.Len(t, entries, 4)
	assert.Equal(t, model.TierUltraHigh, entries[0].Tier)
	assert.Equal(t, model.TierLow, entries[3].Tier)
	assert.Equal(t, 2, entries[3].Count)

	// Remainder lands on the largest bucket
	assert.InDelta(t, 66.7, entries[3].Percentage, 1e-9)
	assert.InDelta(t, 33.3, entries[0].Percentage, 1e-9)
}

func TestQualityDistributionEmpty(t *testing.T) {
	entries := QualityDistribution(nil)
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Zero(t, e.Count)
		assert.Zero(t, e.Percentage)
	}
}
