package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/model"
)

func key(municipality, sheet, parcel string) model.ParcelKey {
	return model.ParcelKey{Municipality: municipality, SheetID: sheet, ParcelID: parcel}
}

func row(owner, address string, parcel model.ParcelKey) model.OwnershipRow {
	return model.OwnershipRow{
		Parcel:          parcel,
		OwnerID:         owner,
		OwnerName:       "Owner " + owner,
		Kind:            model.OwnerIndividual,
		DeclaredAddress: address,
	}
}

func TestOwnerAddressPairs(t *testing.T) {
	p1 := key("LODI", "12", "101")
	p2 := key("LODI", "12", "102")
	p3 := key("LODI", "14", "7")

	t.Run("one owner one address many parcels", func(t *testing.T) {
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma 32", p1),
			row("AAA", "Via Roma 32", p2),
		})

		require.Len(t, pairs, 1)
		assert.Equal(t, []model.ParcelKey{p1, p2}, pairs[0].Parcels)
	})

	t.Run("address variants normalize together", func(t *testing.T) {
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma, 32", p1),
			row("AAA", "VIA  ROMA 32", p2),
		})

		require.Len(t, pairs, 1)
		assert.Len(t, pairs[0].Parcels, 2)
		// Display string keeps the first raw form
		assert.Equal(t, "Via Roma, 32", pairs[0].DeclaredAddress)
	})

	t.Run("distinct owners with identical addresses stay distinct", func(t *testing.T) {
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma 32", p1),
			row("BBB", "Via Roma 32", p3),
		})

		require.Len(t, pairs, 2)
		assert.Equal(t, []model.ParcelKey{p1}, pairs[0].Parcels)
		assert.Equal(t, []model.ParcelKey{p3}, pairs[1].Parcels)
	})

	t.Run("same owner same address keeps every parcel", func(t *testing.T) {
		// Deduplicating on owner+address alone would drop p3 here.
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma 32", p1),
			row("AAA", "Via Roma 32", p3),
			row("AAA", "Via Roma 32", p1),
		})

		require.Len(t, pairs, 1)
		assert.Equal(t, []model.ParcelKey{p1, p3}, pairs[0].Parcels)
	})

	t.Run("same owner different addresses yields two pairs", func(t *testing.T) {
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma 32", p1),
			row("AAA", "Via Verdi 7", p1),
		})

		assert.Len(t, pairs, 2)
	})

	t.Run("declared province extracted", func(t *testing.T) {
		pairs := OwnerAddressPairs([]model.OwnershipRow{
			row("AAA", "Via Roma 32 (LO)", p1),
		})

		require.Len(t, pairs, 1)
		assert.Equal(t, "LO", pairs[0].DeclaredProvince)
	})
}

func TestUniqueParcels(t *testing.T) {
	p1 := key("LODI", "12", "101")
	p2 := key("LODI", "12", "102")

	rows := []model.OwnershipRow{
		row("AAA", "Via Roma 32", p1),
		row("BBB", "Via Verdi 7", p1), // second owner, same parcel
		row("AAA", "Via Roma 32", p2),
	}

	t.Run("multi-owner parcel counts once", func(t *testing.T) {
		got := UniqueParcels(rows, nil)
		assert.Equal(t, []model.ParcelKey{p1, p2}, got)
	})

	t.Run("filter applies before dedup", func(t *testing.T) {
		got := UniqueParcels(rows, func(r model.OwnershipRow) bool {
			return r.OwnerID == "BBB"
		})
		assert.Equal(t, []model.ParcelKey{p1}, got)
	})
}

func TestUniqueOwners(t *testing.T) {
	p1 := key("LODI", "12", "101")
	p2 := key("LODI", "12", "102")

	rows := []model.OwnershipRow{
		row("BBB", "Via Verdi 7", p1),
		row("AAA", "Via Roma 32", p1),
		row("AAA", "Via Roma 32", p2),
	}

	assert.Equal(t, []string{"AAA", "BBB"}, UniqueOwners(rows, nil))
}
