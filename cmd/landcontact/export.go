package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pgoretti/landcontact/internal/config"
	"github.com/pgoretti/landcontact/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a campaign report to Google Sheets",
		RunE:  runExport,
	}

	cmd.Flags().Int64("campaign", 0, "campaign id (default: latest)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	campaignID, _ := cmd.Flags().GetInt64("campaign")
	ctx := cmd.Context()

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
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

	report, err := loadReport(ctx, store, campaign)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return err
	}

	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	slog.Info("Campaign exported", "campaign", campaign.Name)
	return nil
}
