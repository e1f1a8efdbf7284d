package funnel

import "github.com/pgoretti/landcontact/internal/model"

// tierOrder fixes the reporting order, best tier first.
var tierOrder = []model.ConfidenceTier{
	model.TierUltraHigh,
	model.TierHigh,
	model.TierMedium,
	model.TierLow,
}

// QualityDistribution tallies confidence tiers across the classified set.
// Percentages are computed in tenths with a largest-remainder correction so
// the four values always sum to exactly 100.0 for a non-empty set.
func QualityDistribution(classified []model.ClassifiedAddress) []model.QualityDistributionEntry {
	counts := make(map[model.ConfidenceTier]int, len(tierOrder))
	for _, a := range classified {
		counts[a.Tier]++
	}

	total := len(classified)
	entries := make([]model.QualityDistributionEntry, len(tierOrder))

	if total == 0 {
		for i, tier := range tierOrder {
			entries[i] = model.QualityDistributionEntry{Tier: tier}
		}
		return entries
	}

	// Work in integer tenths of a percent to keep the sum exact.
	tenths := make([]int, len(tierOrder))
	sum := 0
	largest := 0
	for i, tier := range tierOrder {
		tenths[i] = (counts[tier]*1000 + total/2) / total
		sum += tenths[i]
		if counts[tier] > counts[tierOrder[largest]] {
			largest = i
		}
	}

	// Rounding remainder lands on the largest bucket.
	tenths[largest] += 1000 - sum

	for i, tier := range tierOrder {
		entries[i] = model.QualityDistributionEntry{
			Tier:       tier,
			Count:      counts[tier],
			Percentage: float64(tenths[i]) / 10,
		}
	}

	return entries
}
