package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pgoretti/landcontact/internal/classify"
	"github.com/pgoretti/landcontact/internal/cli"
	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/engine"
)

func campaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Run a mailing campaign over a parcel list",
		Long: `Fetch ownership for every parcel in the list, classify each owner's
declared address by mailing confidence, and store the funnel reports.`,
		RunE: runCampaign,
	}

	cmd.Flags().String("parcels", "", "CSV parcel list (municipality,sheet,parcel,province,area_hectares)")
	cmd.Flags().String("name", "", "campaign name")
	cmd.Flags().Bool("offline", false, "use the offline geocoder (no network lookups)")
	cmd.Flags().Bool("snc-direct-mail", false, "route addresses marked as number-less to direct mail instead of agency")
	_ = cmd.MarkFlagRequired("parcels")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runCampaign(cmd *cobra.Command, _ []string) error {
	parcelPath, _ := cmd.Flags().GetString("parcels")
	name, _ := cmd.Flags().GetString("name")
	offline, _ := cmd.Flags().GetBool("offline")
	sncDirectMail, _ := cmd.Flags().GetBool("snc-direct-mail")

	ctx := cmd.Context()

	parcels, err := engine.LoadParcels(parcelPath)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not read parcel list %s", parcelPath), err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	registryClient, err := initRegistry()
	if err != nil {
		return err
	}
	geocoder, err := initGeocoder(offline)
	if err != nil {
		return err
	}

	classifyCfg := classify.DefaultConfig()
	if sncDirectMail {
		classifyCfg.SNC = classify.SNCToDirectMail
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.ProgressWriter = os.Stderr
	if categories := viper.GetStringSlice("campaign.eligible_categories"); len(categories) > 0 {
		engineCfg.EligibleCategories = categories
	}

	eng := engine.NewWithConfig(store, registryClient, geocoder, initEmailLookup(),
		classify.New(classifyCfg), engineCfg)

	report, err := eng.Run(ctx, name, parcels)
	if err != nil {
		return fmt.Errorf("campaign failed: %w", err)
	}

	fmt.Println()
	cli.RenderReport(os.Stdout, report)
	return nil
}
