// Package classify implements the address confidence classifier: an ordered
// decision table that turns geocode quality signals into a confidence tier
// and a routing channel.
package classify

import "github.com/pgoretti/landcontact/internal/model"

// SNCPolicy is the routing for addresses carrying the reserved "small
// street, no civic number" marker. The direction of this rule has flipped
// more than once on postal-deliverability feedback, so it is a named,
// swappable value rather than hard-coded logic.
type SNCPolicy struct {
	Tier    model.ConfidenceTier
	Channel model.RoutingChannel
	Reason  string
}

// SNCToAgency sends marked addresses to manual verification. Current default.
var SNCToAgency = SNCPolicy{
	Tier:    model.TierMedium,
	Channel: model.ChannelAgency,
	Reason:  "small street without number - requires manual verification",
}

// SNCToDirectMail trusts the postal service to deliver on small streets
// without a civic number.
var SNCToDirectMail = SNCPolicy{
	Tier:    model.TierMedium,
	Channel: model.ChannelDirectMail,
	Reason:  "small street without number - deliverable per postal guidance",
}

// Config holds the classifier thresholds and policies. It is immutable and
// passed in explicitly so that parallel runs can use different settings.
type Config struct {
	SNC SNCPolicy

	// Completeness thresholds for the top two tiers.
	UltraHighCompleteness float64
	HighCompleteness      float64

	// CountryPresent marks a single-country campaign, where the country
	// field counts as present without the geocoder reporting it.
	CountryPresent bool
}

// DefaultConfig returns the thresholds and policies the campaigns run with.
func DefaultConfig() Config {
	return Config{
		SNC:                   SNCToAgency,
		UltraHighCompleteness: 0.75,
		HighCompleteness:      0.5,
		CountryPresent:        true,
	}
}
