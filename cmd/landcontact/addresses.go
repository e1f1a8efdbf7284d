package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgoretti/landcontact/internal/cli"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

func addressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List a campaign's classified addresses",
		RunE:  runAddresses,
	}

	cmd.Flags().Int64("campaign", 0, "campaign id (default: latest)")
	cmd.Flags().String("tier", "", "filter by tier (ULTRA_HIGH, HIGH, MEDIUM, LOW)")
	cmd.Flags().String("channel", "", "filter by channel (DIRECT_MAIL, AGENCY)")
	cmd.Flags().Int("limit", 0, "maximum rows to print")

	return cmd
}

func runAddresses(cmd *cobra.Command, _ []string) error {
	campaignID, _ := cmd.Flags().GetInt64("campaign")
	tierName, _ := cmd.Flags().GetString("tier")
	channelName, _ := cmd.Flags().GetString("channel")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()

	filter := service.AddressFilter{Limit: limit}
	if tierName != "" {
		tier, ok := model.ParseConfidenceTier(strings.ToUpper(tierName))
		if !ok {
			return fmt.Errorf("unknown tier %q", tierName)
		}
		filter.Tier = &tier
	}
	if channelName != "" {
		channel := model.RoutingChannel(strings.ToUpper(channelName))
		switch channel {
		case model.ChannelDirectMail, model.ChannelAgency:
		default:
			return fmt.Errorf("unknown channel %q", channelName)
		}
		filter.Channel = &channel
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	campaign, err := resolveCampaign(ctx, store, campaignID)
	if err != nil {
		return err
	}

	addresses, err := store.GetClassifiedAddresses(ctx, campaign.ID, filter)
	if err != nil {
		return err
	}

	if len(addresses) == 0 {
		fmt.Println("No addresses match the filter.")
		return nil
	}

	cli.RenderAddresses(os.Stdout, addresses)
	return nil
}
