package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pgoretti/landcontact/internal/funnel"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

// RenderReport writes the full campaign report to w.
func RenderReport(w io.Writer, report *service.CampaignReport) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Campaign %q", report.Campaign.Name)))
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%s · %d municipalities · completed in %s",
		report.Campaign.CreatedAt.Format("2006-01-02 15:04"),
		len(report.Campaign.Municipalities),
		report.Duration.Round(1e9))))

	RenderFunnel(w, "Land acquisition", report.LandFunnel)
	fmt.Fprintln(w)
	RenderFunnel(w, "Contact processing", report.ContactFunnel)
	fmt.Fprintln(w)
	RenderQuality(w, report.Quality)

	if len(report.CompanyContacts) > 0 {
		fmt.Fprintln(w)
		RenderCompanyContacts(w, report.CompanyContacts)
	}
}

// RenderFunnel writes one funnel as a table.
func RenderFunnel(w io.Writer, title string, stages []model.FunnelStage) {
	fmt.Fprintln(w, BoldStyle.Render(title))
	fmt.Fprintln(w, TableHeaderStyle.Render(fmt.Sprintf("%-28s %8s %12s %12s %12s",
		"Stage", "Count", "Area (ha)", "Conversion", "Retention")))

	for _, s := range stages {
		area := ""
		if s.AreaHectares > 0 {
			area = fmt.Sprintf("%.2f", s.AreaHectares)
		}
		fmt.Fprintf(w, "%-28s %8d %12s %12s %12s\n",
			s.Name, s.Count, area,
			funnel.FormatRate(s.Conversion),
			funnel.FormatRate(s.Retention))
	}
}

// RenderQuality writes the tier distribution.
func RenderQuality(w io.Writer, entries []model.QualityDistributionEntry) {
	fmt.Fprintln(w, BoldStyle.Render("Address quality"))

	for _, e := range entries {
		name := e.Tier.String()
		bar := strings.Repeat("█", int(e.Percentage/2))
		fmt.Fprintf(w, "%-12s %6d  %5.1f%%  %s\n",
			TierStyle(name).Render(name), e.Count, e.Percentage, bar)
	}
}

// RenderCompanyContacts writes the corporate owners routed to the email
// channel.
func RenderCompanyContacts(w io.Writer, contacts []service.CompanyContact) {
	fmt.Fprintln(w, BoldStyle.Render("Corporate owners (email channel)"))

	for _, c := range contacts {
		email := c.Email
		if email == "" {
			email = SubtleStyle.Render("no email found")
		}
		fmt.Fprintf(w, "%-32s %-24s %d parcels\n", c.OwnerName, email, len(c.Parcels))
	}
}

// RenderAddresses writes classified addresses one per line.
func RenderAddresses(w io.Writer, addresses []model.ClassifiedAddress) {
	fmt.Fprintln(w, TableHeaderStyle.Render(fmt.Sprintf("%-18s %-36s %-12s %-12s %s",
		"Owner", "Address", "Tier", "Channel", "Reasoning")))

	for _, a := range addresses {
		tier := a.Tier.String()
		fmt.Fprintf(w, "%-18s %-36s %-12s %-12s %s\n",
			a.Pair.OwnerID,
			truncate(a.Pair.DeclaredAddress, 36),
			TierStyle(tier).Render(tier),
			a.Channel,
			a.Reasoning)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
