package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgoretti/landcontact/internal/service"
	"github.com/pgoretti/landcontact/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively review a campaign's classified addresses",
		RunE:  runReview,
	}

	cmd.Flags().Int64("campaign", 0, "campaign id (default: latest)")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
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

	addresses, err := store.GetClassifiedAddresses(ctx, campaign.ID, service.AddressFilter{})
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		fmt.Println("Campaign has no classified addresses to review.")
		return nil
	}

	return tui.Run(campaign.Name, addresses)
}
