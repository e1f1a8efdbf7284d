package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/funnel"
	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write implements the ReportWriter interface.
func (w *Writer) Write(ctx context.Context, report *service.CampaignReport) error {
	w.logger.Info("starting report export",
		"campaign", report.Campaign.Name,
		"addresses", len(report.Addresses))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := prepareReportData(report)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Campaign",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes the prepared values starting at A1.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{Values: values}
	_, err := w.service.Spreadsheets.Values.
		Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

// prepareReportData flattens a campaign report into spreadsheet rows.
func prepareReportData(report *service.CampaignReport) [][]any {
	estimatedRows := 16 + len(report.LandFunnel) + len(report.ContactFunnel) +
		len(report.Quality) + len(report.Addresses) + len(report.CompanyContacts)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{
			fmt.Sprintf("Campaign %q", report.Campaign.Name),
			report.Campaign.CreatedAt.Format("Jan 2, 2006"),
		},
		[]any{},
		[]any{"Land acquisition funnel"},
		[]any{"Stage", "Count", "Area (ha)", "Conversion", "Retention"},
	)
	values = append(values, funnelRows(report.LandFunnel)...)

	values = append(values,
		[]any{},
		[]any{"Contact processing funnel"},
		[]any{"Stage", "Count", "Area (ha)", "Conversion", "Retention"},
	)
	values = append(values, funnelRows(report.ContactFunnel)...)

	values = append(values,
		[]any{},
		[]any{"Address quality"},
		[]any{"Tier", "Count", "Percentage"},
	)
	for _, e := range report.Quality {
		values = append(values, []any{e.Tier.String(), e.Count, fmt.Sprintf("%.1f%%", e.Percentage)})
	}

	values = append(values,
		[]any{},
		[]any{"Classified addresses"},
		[]any{"Owner ID", "Owner", "Declared address", "Tier", "Channel", "Reasoning", "Parcels"},
	)
	for _, a := range report.Addresses {
		values = append(values, []any{
			a.Pair.OwnerID,
			a.Pair.OwnerName,
			a.Pair.DeclaredAddress,
			a.Tier.String(),
			string(a.Channel),
			a.Reasoning,
			len(a.Pair.Parcels),
		})
	}

	if len(report.CompanyContacts) > 0 {
		values = append(values,
			[]any{},
			[]any{"Corporate owners (email channel)"},
			[]any{"Owner ID", "Owner", "Email", "Parcels"},
		)
		for _, c := range report.CompanyContacts {
			values = append(values, []any{c.OwnerID, c.OwnerName, c.Email, len(c.Parcels)})
		}
	}

	return values
}

func funnelRows(stages []model.FunnelStage) [][]any {
	rows := make([][]any, 0, len(stages))
	for _, s := range stages {
		rows = append(rows, []any{
			s.Name,
			s.Count,
			s.AreaHectares,
			funnel.FormatRate(s.Conversion),
			funnel.FormatRate(s.Retention),
		})
	}
	return rows
}
