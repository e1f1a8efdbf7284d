package classify

import (
	"strings"

	"github.com/pgoretti/landcontact/internal/address"
	"github.com/pgoretti/landcontact/internal/model"
)

// Classifier turns owner-address pairs and geocode results into classified
// addresses. Classify is a pure function of its inputs: no side effects, no
// hidden state, so runs are repeatable and the decision table can be
// exercised under any configuration in parallel.
type Classifier struct {
	cfg Config
}

// New creates a classifier with the given configuration.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the classifier's immutable configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// BuildInput derives the decision-table signals for one address.
func (c *Classifier) BuildInput(pair model.OwnerAddressPair, g model.GeocodeResult) Input {
	declared := address.ExtractNumber(pair.NormalizedAddress)
	geocoded := address.ParseGeocoded(g.StreetNumber, g.StreetSuffix)

	return Input{
		Pair:           pair,
		Geocode:        g,
		Similarity:     address.Compare(declared, geocoded),
		Completeness:   address.Completeness(g, c.cfg.CountryPresent),
		ProvinceMatch:  provinceMatch(pair.DeclaredProvince, g.Province),
		MarkedNoNumber: address.MarkedNoNumber(pair.NormalizedAddress),
	}
}

// Classify produces the classified record for one owner-address pair.
func (c *Classifier) Classify(pair model.OwnerAddressPair, g model.GeocodeResult) model.ClassifiedAddress {
	in := c.BuildInput(pair, g)
	out := Evaluate(in, c.cfg)

	return model.ClassifiedAddress{
		Pair:         pair,
		Geocode:      g,
		Tier:         out.Tier,
		Channel:      out.Channel,
		Reasoning:    out.Reason,
		Completeness: in.Completeness,
	}
}

// provinceMatch compares the declared and geocoded provinces. Missing input
// on either side counts as a match: absent data is not evidence of a
// geocoding error.
func provinceMatch(declared, geocoded string) bool {
	if declared == "" || geocoded == "" {
		return true
	}
	return strings.EqualFold(declared, geocoded)
}
