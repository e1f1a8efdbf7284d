package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pgoretti/landcontact/internal/cli"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a stored campaign's funnel reports",
		RunE:  runReport,
	}

	cmd.Flags().Int64("campaign", 0, "campaign id (default: latest)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	campaignID, _ := cmd.Flags().GetInt64("campaign")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	campaign, err := resolveCampaign(ctx, store, campaignID)
	if err != nil {
		return err
	}

	report, err := loadReport(ctx, store, campaign)
	if err != nil {
		return err
	}

	cli.RenderReport(os.Stdout, report)
	return nil
}
