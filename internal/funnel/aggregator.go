// Package funnel aggregates per-parcel, per-owner and per-address results
// into the campaign's multi-stage funnel reports.
package funnel

import (
	"fmt"
	"sort"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

// Stage names for the land-acquisition funnel.
const (
	StageInputParcels    = "input parcels"
	StageRegistryOK      = "registry lookup succeeded"
	StageWithIndividual  = "with individual owner"
	StageEligibleParcels = "eligible property category"
)

// Stage names for the contact-processing funnel.
const (
	StageEligibleInput = "eligible parcels"
	StageUniqueOwners  = "unique owners"
	StageAddressPairs  = "owner-address pairs"
	StageGeocoded      = "addresses geocoded"
	StageDirectMail    = "routed to direct mail"
	StageAgency        = "routed to agency"
)

// Components holds one municipality's raw funnel components. Aggregation
// across municipalities merges these raw sets and recounts; it never adds up
// or concatenates already-built funnel rows, which double-counts owners and
// parcels shared across municipality boundaries.
type Components struct {
	Municipality   string
	InputParcels   []model.Parcel
	RegistryOK     []model.ParcelKey
	RegistryFailed []model.ParcelKey
	WithIndividual []model.ParcelKey
	Eligible       []model.ParcelKey
	Owners         []string
	Pairs          []model.OwnerAddressPair
	Classified     []model.ClassifiedAddress
}

// Merge unions raw components across municipalities, deduplicating parcels
// by key and owners by fiscal identifier.
func Merge(inputs ...Components) Components {
	var out Components

	parcelSeen := make(map[model.ParcelKey]struct{})
	addParcels := func(dst *[]model.ParcelKey, keys []model.ParcelKey, seen map[model.ParcelKey]struct{}) {
		for _, k := range keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			*dst = append(*dst, k)
		}
	}

	registrySeen := make(map[model.ParcelKey]struct{})
	failedSeen := make(map[model.ParcelKey]struct{})
	individualSeen := make(map[model.ParcelKey]struct{})
	eligibleSeen := make(map[model.ParcelKey]struct{})
	ownerSeen := make(map[string]struct{})

	type pairKey struct {
		ownerID    string
		normalized string
	}
	pairIdx := make(map[pairKey]int)
	classifiedIdx := make(map[pairKey]int)

	mergeParcels := func(dst *model.OwnerAddressPair, src model.OwnerAddressPair) {
		seen := make(map[model.ParcelKey]struct{}, len(dst.Parcels))
		for _, k := range dst.Parcels {
			seen[k] = struct{}{}
		}
		for _, k := range src.Parcels {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			dst.Parcels = append(dst.Parcels, k)
		}
		sort.Slice(dst.Parcels, func(i, j int) bool {
			return dst.Parcels[i].String() < dst.Parcels[j].String()
		})
	}

	for _, in := range inputs {
		for _, p := range in.InputParcels {
			if _, ok := parcelSeen[p.Key]; ok {
				continue
			}
			parcelSeen[p.Key] = struct{}{}
			out.InputParcels = append(out.InputParcels, p)
		}
		addParcels(&out.RegistryOK, in.RegistryOK, registrySeen)
		addParcels(&out.RegistryFailed, in.RegistryFailed, failedSeen)
		addParcels(&out.WithIndividual, in.WithIndividual, individualSeen)
		addParcels(&out.Eligible, in.Eligible, eligibleSeen)

		for _, o := range in.Owners {
			if _, ok := ownerSeen[o]; ok {
				continue
			}
			ownerSeen[o] = struct{}{}
			out.Owners = append(out.Owners, o)
		}

		// An owner-address pair spanning municipalities is one mailing,
		// not two: the duplicate's parcels fold into the surviving pair.
		// The classifier is pure, so duplicate classifications agree and
		// only the parcel set needs merging.
		for _, p := range in.Pairs {
			k := pairKey{ownerID: p.OwnerID, normalized: p.NormalizedAddress}
			if i, ok := pairIdx[k]; ok {
				mergeParcels(&out.Pairs[i], p)
				continue
			}
			pairIdx[k] = len(out.Pairs)
			out.Pairs = append(out.Pairs, p)
		}
		for _, a := range in.Classified {
			k := pairKey{ownerID: a.Pair.OwnerID, normalized: a.Pair.NormalizedAddress}
			if i, ok := classifiedIdx[k]; ok {
				mergeParcels(&out.Classified[i].Pair, a.Pair)
				continue
			}
			classifiedIdx[k] = len(out.Classified)
			out.Classified = append(out.Classified, a)
		}
	}

	sort.Strings(out.Owners)
	return out
}

// AreaIndex maps parcel keys to their area. A parcel appearing twice with
// different areas is an upstream data defect and fails loudly.
type AreaIndex map[model.ParcelKey]float64

// NewAreaIndex builds an area index from the campaign's input parcels.
func NewAreaIndex(parcels []model.Parcel) (AreaIndex, error) {
	idx := make(AreaIndex, len(parcels))
	for _, p := range parcels {
		if prev, ok := idx[p.Key]; ok && prev != p.AreaHectares {
			return nil, fmt.Errorf("%w: parcel %s reported as %.4f and %.4f ha",
				common.ErrInconsistentArea, p.Key, prev, p.AreaHectares)
		}
		idx[p.Key] = p.AreaHectares
	}
	return idx, nil
}

// Sum totals the area of the given parcels. Each parcel contributes once:
// the keys are expected deduplicated, and owner multiplicity never reaches
// this point.
func (a AreaIndex) Sum(keys []model.ParcelKey) float64 {
	total := 0.0
	for _, k := range keys {
		total += a[k]
	}
	return total
}

// LandFunnel builds the parcel-centric acquisition funnel. Retention is
// anchored to the input-parcels stage.
func LandFunnel(c Components) ([]model.FunnelStage, error) {
	areas, err := NewAreaIndex(c.InputParcels)
	if err != nil {
		return nil, err
	}

	inputKeys := make([]model.ParcelKey, len(c.InputParcels))
	for i, p := range c.InputParcels {
		inputKeys[i] = p.Key
	}

	rows := []struct {
		name string
		keys []model.ParcelKey
	}{
		{StageInputParcels, inputKeys},
		{StageRegistryOK, c.RegistryOK},
		{StageWithIndividual, c.WithIndividual},
		{StageEligibleParcels, c.Eligible},
	}

	anchor := len(inputKeys)
	prev := anchor
	stages := make([]model.FunnelStage, 0, len(rows))

	for i, row := range rows {
		stage := model.FunnelStage{
			Funnel:       model.FunnelLand,
			Name:         row.name,
			Count:        len(row.keys),
			AreaHectares: areas.Sum(row.keys),
			Conversion:   rate(len(row.keys), prev),
			Retention:    rate(len(row.keys), anchor),
		}
		if i == 0 {
			stage.Conversion = 1
			stage.Retention = 1
		}
		stages = append(stages, stage)
		prev = stage.Count
	}

	return stages, nil
}

// ContactFunnel builds the owner/address-centric processing funnel.
// Retention is anchored to the unique-owners stage, a deliberate reporting
// convention distinct from the stage-to-stage conversion. The direct-mail
// and agency rows must partition the classified set exactly.
func ContactFunnel(c Components) ([]model.FunnelStage, error) {
	areas, err := NewAreaIndex(c.InputParcels)
	if err != nil {
		return nil, err
	}

	geocoded := 0
	directMail := 0
	agency := 0
	for _, a := range c.Classified {
		if a.Geocode.OK {
			geocoded++
		}
		switch a.Channel {
		case model.ChannelDirectMail:
			directMail++
		case model.ChannelAgency:
			agency++
		}
	}

	if directMail+agency != len(c.Classified) {
		return nil, fmt.Errorf("%w: %d + %d != %d",
			common.ErrRoutingTotalsSplit, directMail, agency, len(c.Classified))
	}

	anchor := len(c.Owners)
	total := len(c.Classified)

	stages := []model.FunnelStage{
		{
			Funnel:       model.FunnelContact,
			Name:         StageEligibleInput,
			Count:        len(c.Eligible),
			AreaHectares: areas.Sum(c.Eligible),
			Conversion:   1,
			Retention:    rate(len(c.Eligible), anchor),
		},
		{
			Funnel:     model.FunnelContact,
			Name:       StageUniqueOwners,
			Count:      anchor,
			Conversion: rate(anchor, len(c.Eligible)),
			Retention:  1,
		},
		{
			Funnel:     model.FunnelContact,
			Name:       StageAddressPairs,
			Count:      len(c.Pairs),
			Conversion: rate(len(c.Pairs), anchor),
			Retention:  rate(len(c.Pairs), anchor),
		},
		{
			Funnel:     model.FunnelContact,
			Name:       StageGeocoded,
			Count:      geocoded,
			Conversion: rate(geocoded, len(c.Pairs)),
			Retention:  rate(geocoded, anchor),
		},
		{
			Funnel:     model.FunnelContact,
			Name:       StageDirectMail,
			Count:      directMail,
			Conversion: rate(directMail, total),
			Retention:  rate(directMail, anchor),
		},
		{
			Funnel:     model.FunnelContact,
			Name:       StageAgency,
			Count:      agency,
			Conversion: rate(agency, total),
			Retention:  rate(agency, anchor),
		},
	}

	return stages, nil
}

// FormatRate renders a ratio for reporting. Ratios above 1 come from stages
// that naturally multiply (several owners per parcel) and are shown as a
// multiplier instead of a misleading ">100%" percentage.
func FormatRate(r float64) string {
	if r > 1 {
		return fmt.Sprintf("%.2f×", r)
	}
	return fmt.Sprintf("%.1f%%", r*100)
}

func rate(count, base int) float64 {
	if base == 0 {
		return 0
	}
	return float64(count) / float64(base)
}
