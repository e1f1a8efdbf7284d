// Package dedupe collapses raw registry ownership rows into the unique
// units the rest of the pipeline operates on.
package dedupe

import (
	"sort"

	"github.com/pgoretti/landcontact/internal/address"
	"github.com/pgoretti/landcontact/internal/model"
)

// OwnerAddressPairs collapses ownership rows into pairs unique by
// (owner, normalized address). Each pair accumulates the union of every
// parcel its rows reference: two owners whose addresses normalize
// identically stay distinct, and an owner's parcels are never dropped when
// several rows share one address.
func OwnerAddressPairs(rows []model.OwnershipRow) []model.OwnerAddressPair {
	type pairKey struct {
		ownerID    string
		normalized string
	}

	pairs := make(map[pairKey]*model.OwnerAddressPair)
	parcelSeen := make(map[pairKey]map[model.ParcelKey]struct{})

	for _, row := range rows {
		normalized := address.Normalize(row.DeclaredAddress)
		key := pairKey{ownerID: row.OwnerID, normalized: normalized}

		pair, ok := pairs[key]
		if !ok {
			pair = &model.OwnerAddressPair{
				OwnerID:           row.OwnerID,
				OwnerName:         row.OwnerName,
				DeclaredAddress:   row.DeclaredAddress,
				NormalizedAddress: normalized,
				DeclaredProvince:  address.DeclaredProvince(row.DeclaredAddress),
			}
			pairs[key] = pair
			parcelSeen[key] = make(map[model.ParcelKey]struct{})
		}

		if _, dup := parcelSeen[key][row.Parcel]; !dup {
			parcelSeen[key][row.Parcel] = struct{}{}
			pair.Parcels = append(pair.Parcels, row.Parcel)
		}
	}

	out := make([]model.OwnerAddressPair, 0, len(pairs))
	for _, pair := range pairs {
		sort.Slice(pair.Parcels, func(i, j int) bool {
			return pair.Parcels[i].String() < pair.Parcels[j].String()
		})
		out = append(out, *pair)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerID != out[j].OwnerID {
			return out[i].OwnerID < out[j].OwnerID
		}
		return out[i].NormalizedAddress < out[j].NormalizedAddress
	})

	return out
}

// UniqueParcels returns the distinct parcels among rows satisfying keep,
// deduplicated by parcel key so a parcel with several owners counts once.
func UniqueParcels(rows []model.OwnershipRow, keep func(model.OwnershipRow) bool) []model.ParcelKey {
	seen := make(map[model.ParcelKey]struct{})
	var out []model.ParcelKey

	for _, row := range rows {
		if keep != nil && !keep(row) {
			continue
		}
		if _, ok := seen[row.Parcel]; ok {
			continue
		}
		seen[row.Parcel] = struct{}{}
		out = append(out, row.Parcel)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// UniqueOwners returns the distinct owner fiscal identifiers among rows
// satisfying keep.
func UniqueOwners(rows []model.OwnershipRow, keep func(model.OwnershipRow) bool) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, row := range rows {
		if keep != nil && !keep(row) {
			continue
		}
		if _, ok := seen[row.OwnerID]; ok {
			continue
		}
		seen[row.OwnerID] = struct{}{}
		out = append(out, row.OwnerID)
	}

	sort.Strings(out)
	return out
}
