package classify

import (
	"github.com/pgoretti/landcontact/internal/address"
	"github.com/pgoretti/landcontact/internal/model"
)

// Input is everything one classification decision depends on. It is
// assembled once per address by the classifier and never mutated.
type Input struct {
	Pair           model.OwnerAddressPair
	Geocode        model.GeocodeResult
	Similarity     address.Similarity
	Completeness   float64
	ProvinceMatch  bool
	MarkedNoNumber bool
}

// Outcome is the decision for one address.
type Outcome struct {
	Tier    model.ConfidenceTier
	Channel model.RoutingChannel
	Reason  string
	Rule    string
}

// rule is one row of the decision table.
type rule struct {
	name    string
	applies func(Input, Config) bool
	decide  func(Input, Config) Outcome
}

// The decision table, evaluated top to bottom; the first matching rule wins.
// Keeping the precedence as data makes it testable in isolation and safe to
// extend without silent reordering.
var decisionTable = []rule{
	{
		name: "geocode-failure",
		applies: func(in Input, _ Config) bool {
			return !in.Geocode.OK
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierLow,
				Channel: model.ChannelAgency,
				Reason:  "geocoding failed",
			}
		},
	},
	{
		name: "no-number-marker",
		applies: func(in Input, _ Config) bool {
			return in.MarkedNoNumber
		},
		decide: func(_ Input, cfg Config) Outcome {
			return Outcome{
				Tier:    cfg.SNC.Tier,
				Channel: cfg.SNC.Channel,
				Reason:  cfg.SNC.Reason,
			}
		},
	},
	{
		name: "exact-complete",
		applies: func(in Input, cfg Config) bool {
			return in.Similarity == address.SimilarityExact &&
				in.Completeness >= cfg.UltraHighCompleteness
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierUltraHigh,
				Channel: model.ChannelDirectMail,
				Reason:  "exact civic number match with complete geocode data",
			}
		},
	},
	{
		name: "base-match-sufficient",
		applies: func(in Input, cfg Config) bool {
			return (in.Similarity == address.SimilarityExact ||
				in.Similarity == address.SimilarityBaseMatch) &&
				in.Completeness >= cfg.HighCompleteness
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierHigh,
				Channel: model.ChannelDirectMail,
				Reason:  "civic number base match with sufficient geocode data",
			}
		},
	},
	{
		name: "minor-mismatch-deliverable",
		applies: func(in Input, _ Config) bool {
			return in.Similarity == address.SimilarityExact ||
				in.Similarity == address.SimilarityBaseMatch ||
				in.Similarity == address.SimilarityAdjacent
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierMedium,
				Channel: model.ChannelDirectMail,
				Reason:  "minor civic number mismatch - treated as deliverable",
			}
		},
	},
	{
		name: "distant-number",
		applies: func(in Input, _ Config) bool {
			return in.Similarity == address.SimilarityDistant
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierMedium,
				Channel: model.ChannelAgency,
				Reason:  "geocoded civic number far from declared - mailing uses the declared address",
			}
		},
	},
	{
		name: "no-number",
		applies: func(in Input, _ Config) bool {
			return in.Similarity == address.SimilarityNone
		},
		decide: func(_ Input, _ Config) Outcome {
			return Outcome{
				Tier:    model.TierLow,
				Channel: model.ChannelAgency,
				Reason:  "no civic number declared or geocoded",
			}
		},
	},
}

// provinceMismatchReason documents a geographically inconsistent geocode.
const provinceMismatchReason = "province mismatch - possible geocoding error"

// Evaluate runs the decision table over one input and applies the province
// cap: a declared/geocoded province disagreement caps the tier at MEDIUM
// regardless of other signals, so an inconsistent geocode can never produce
// false confidence. The cap keeps the underlying rule's channel.
func Evaluate(in Input, cfg Config) Outcome {
	for _, r := range decisionTable {
		if !r.applies(in, cfg) {
			continue
		}
		out := r.decide(in, cfg)
		out.Rule = r.name

		if in.Geocode.OK && !in.ProvinceMatch && out.Tier > model.TierMedium {
			out.Tier = model.TierMedium
			out.Reason = provinceMismatchReason
			out.Rule = "province-mismatch-cap"
		}

		return out
	}

	// The table is total over its inputs; SimilarityNone is the fallthrough.
	return Outcome{
		Tier:    model.TierLow,
		Channel: model.ChannelAgency,
		Reason:  "unclassifiable address",
		Rule:    "fallback",
	}
}

// RuleNames returns the table's rule names in evaluation order.
func RuleNames() []string {
	names := make([]string, len(decisionTable))
	for i, r := range decisionTable {
		names[i] = r.name
	}
	return names
}
