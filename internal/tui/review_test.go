package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgoretti/landcontact/internal/model"
)

func reviewAddresses() []model.ClassifiedAddress {
	return []model.ClassifiedAddress{
		{
			Pair:      model.OwnerAddressPair{OwnerID: "A", OwnerName: "Mario Rossi", DeclaredAddress: "Via Garibaldi 32"},
			Tier:      model.TierUltraHigh,
			Channel:   model.ChannelDirectMail,
			Reasoning: "exact number match with complete geocoding",
		},
		{
			Pair:      model.OwnerAddressPair{OwnerID: "B", OwnerName: "Luigi Verdi", DeclaredAddress: "Piazza Duomo 1"},
			Tier:      model.TierLow,
			Channel:   model.ChannelAgency,
			Reasoning: "geocoding failed",
		},
		{
			Pair:      model.OwnerAddressPair{OwnerID: "C", OwnerName: "Anna Bianchi", DeclaredAddress: "Via Po 3"},
			Tier:      model.TierLow,
			Channel:   model.ChannelAgency,
			Reasoning: "geocoding failed",
		},
	}
}

func TestNewModelShowsAllAddresses(t *testing.T) {
	m := NewModel("lodi-spring", reviewAddresses())

	assert.Len(t, m.visible, 3)
	assert.Contains(t, m.View(), "Mario Rossi")
	assert.Contains(t, m.View(), "lodi-spring")
}

func TestFilterCyclesTiers(t *testing.T) {
	m := NewModel("test", reviewAddresses())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	filtered, ok := updated.(Model)
	require.True(t, ok)

	assert.Equal(t, "LOW", filtered.filterName())
	assert.Len(t, filtered.visible, 2)

	// Cycling through every filter returns to ALL
	for i := 0; i < len(tierFilters)-1; i++ {
		updated, _ = filtered.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
		filtered = updated.(Model)
	}
	assert.Equal(t, "ALL", filtered.filterName())
	assert.Len(t, filtered.visible, 3)
}

func TestDetailToggle(t *testing.T) {
	m := NewModel("test", reviewAddresses())
	assert.NotContains(t, m.View(), "Completeness")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	detailed := updated.(Model)
	assert.Contains(t, detailed.View(), "Completeness")
}

func TestQuitKeys(t *testing.T) {
	m := NewModel("test", reviewAddresses())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
