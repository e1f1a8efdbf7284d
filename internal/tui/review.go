// Package tui provides an interactive terminal review of classified
// addresses, focused on the agency-routed ones that need manual work.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pgoretti/landcontact/internal/model"
)

// KeyMap defines the review keyboard shortcuts.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Detail key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle tier filter"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle detail"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7FB069"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

// tierFilters cycles through the review scopes, broadest first.
var tierFilters = []*model.ConfidenceTier{
	nil,
	tierPtr(model.TierLow),
	tierPtr(model.TierMedium),
	tierPtr(model.TierHigh),
	tierPtr(model.TierUltraHigh),
}

func tierPtr(t model.ConfidenceTier) *model.ConfidenceTier { return &t }

// Model holds the review TUI state.
type Model struct {
	table      table.Model
	keys       KeyMap
	addresses  []model.ClassifiedAddress
	visible    []model.ClassifiedAddress
	campaign   string
	filterIdx  int
	showDetail bool
}

// NewModel creates the review model over a campaign's classified addresses.
func NewModel(campaign string, addresses []model.ClassifiedAddress) Model {
	columns := []table.Column{
		{Title: "Owner", Width: 20},
		{Title: "Address", Width: 36},
		{Title: "Tier", Width: 10},
		{Title: "Channel", Width: 12},
		{Title: "Reasoning", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7FB069"))
	t.SetStyles(styles)

	m := Model{
		table:     t,
		keys:      DefaultKeyMap(),
		addresses: addresses,
		campaign:  campaign,
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filterIdx = (m.filterIdx + 1) % len(tierFilters)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Detail):
			m.showDetail = !m.showDetail
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 8)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Address review · %s", m.campaign)))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  [%s · %d of %d]",
		m.filterName(), len(m.visible), len(m.addresses))))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.showDetail {
		if a, ok := m.selected(); ok {
			b.WriteString(boxStyle.Render(detailView(a)))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("↑/↓ navigate · f filter tier · enter detail · q quit"))
	return b.String()
}

func (m *Model) applyFilter() {
	filter := tierFilters[m.filterIdx]

	m.visible = m.visible[:0]
	for _, a := range m.addresses {
		if filter != nil && a.Tier != *filter {
			continue
		}
		m.visible = append(m.visible, a)
	}

	rows := make([]table.Row, len(m.visible))
	for i, a := range m.visible {
		rows[i] = table.Row{
			a.Pair.OwnerName,
			a.Pair.DeclaredAddress,
			a.Tier.String(),
			string(a.Channel),
			a.Reasoning,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m Model) filterName() string {
	if f := tierFilters[m.filterIdx]; f != nil {
		return f.String()
	}
	return "ALL"
}

func (m Model) selected() (model.ClassifiedAddress, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return model.ClassifiedAddress{}, false
	}
	return m.visible[idx], true
}

func detailView(a model.ClassifiedAddress) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Owner:       %s (%s)\n", a.Pair.OwnerName, a.Pair.OwnerID)
	fmt.Fprintf(&b, "Declared:    %s\n", a.Pair.DeclaredAddress)
	fmt.Fprintf(&b, "Normalized:  %s\n", a.Pair.NormalizedAddress)
	if a.Geocode.OK {
		fmt.Fprintf(&b, "Geocoded:    %s %s%s, %s %s (%s)\n",
			a.Geocode.StreetName, a.Geocode.StreetNumber, a.Geocode.StreetSuffix,
			a.Geocode.PostalCode, a.Geocode.City, a.Geocode.Province)
	} else {
		b.WriteString("Geocoded:    lookup failed\n")
	}
	fmt.Fprintf(&b, "Completeness: %.0f%%\n", a.Completeness*100)

	parcels := make([]string, len(a.Pair.Parcels))
	for i, p := range a.Pair.Parcels {
		parcels[i] = p.String()
	}
	fmt.Fprintf(&b, "Parcels:     %s", strings.Join(parcels, ", "))

	return b.String()
}

// Run starts the review program.
func Run(campaign string, addresses []model.ClassifiedAddress) error {
	p := tea.NewProgram(NewModel(campaign, addresses), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
