package model

// OwnerAddressPair is the deduplicated unit the classifier operates on:
// one owner's one declared residential address. It carries back-references
// to every parcel the owner co-owns, for aggregation.
type OwnerAddressPair struct {
	OwnerID           string
	OwnerName         string
	DeclaredAddress   string // original string, preserved for display and mailing
	NormalizedAddress string
	DeclaredProvince  string // two-letter code when recognizable, else empty
	Parcels           []ParcelKey
}

// GeocodeResult is the outcome of the external geocoding lookup for one
// declared address. When OK is false the lookup failed terminally and every
// other field is meaningless. Any structured field may be individually
// absent even on success.
type GeocodeResult struct {
	OK                bool
	NormalizedAddress string
	StreetName        string
	StreetNumber      string
	StreetSuffix      string
	PostalCode        string
	City              string
	Province          string
	Latitude          *float64
	Longitude         *float64
}

// GeocodeFailure returns the terminal-failure result.
func GeocodeFailure() GeocodeResult {
	return GeocodeResult{OK: false}
}

// ConfidenceTier is one of four ordered address quality levels,
// TierUltraHigh highest.
type ConfidenceTier int

// Confidence tiers, in ascending order.
const (
	TierLow ConfidenceTier = iota
	TierMedium
	TierHigh
	TierUltraHigh
)

func (t ConfidenceTier) String() string {
	switch t {
	case TierUltraHigh:
		return "ULTRA_HIGH"
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	case TierLow:
		return "LOW"
	}
	return "UNKNOWN"
}

// ParseConfidenceTier converts a stored tier string back to its value.
func ParseConfidenceTier(s string) (ConfidenceTier, bool) {
	switch s {
	case "ULTRA_HIGH":
		return TierUltraHigh, true
	case "HIGH":
		return TierHigh, true
	case "MEDIUM":
		return TierMedium, true
	case "LOW":
		return TierLow, true
	}
	return TierLow, false
}

// Cap returns the lower of t and max.
func (t ConfidenceTier) Cap(max ConfidenceTier) ConfidenceTier {
	if t > max {
		return max
	}
	return t
}

// RoutingChannel is the downstream handling path for a classified address.
type RoutingChannel string

// Routing channels.
const (
	ChannelDirectMail RoutingChannel = "DIRECT_MAIL"
	ChannelAgency     RoutingChannel = "AGENCY"
)

// ClassifiedAddress is an owner-address pair after classification.
// Immutable after creation; re-classification produces a new record.
type ClassifiedAddress struct {
	Pair         OwnerAddressPair
	Geocode      GeocodeResult
	Tier         ConfidenceTier
	Channel      RoutingChannel
	Reasoning    string
	Completeness float64
}
