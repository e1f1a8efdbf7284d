package storage

import (
	"context"
	"fmt"

	"github.com/pgoretti/landcontact/internal/model"
)

// SaveFunnelStages stores one funnel's stage rows, preserving their order.
// Re-running a campaign replaces the funnel's previous rows.
func (s *SQLiteStorage) SaveFunnelStages(ctx context.Context, campaignID int64, stages []model.FunnelStage) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, stage := range stages {
		if err := validateStage(stage); err != nil {
			return fmt.Errorf("stage at index %d: %w", i, err)
		}
	}
	if len(stages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM funnel_stages WHERE campaign_id = ? AND funnel = ?`,
		campaignID, string(stages[0].Funnel)); err != nil {
		return fmt.Errorf("failed to clear previous funnel stages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO funnel_stages
			(campaign_id, funnel, position, name, count, area_hectares, conversion, retention)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stage insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, stage := range stages {
		if _, err := stmt.ExecContext(ctx,
			campaignID, string(stage.Funnel), i, stage.Name, stage.Count,
			stage.AreaHectares, stage.Conversion, stage.Retention); err != nil {
			return fmt.Errorf("failed to insert stage %q: %w", stage.Name, err)
		}
	}

	return tx.Commit()
}

// GetFunnelStages retrieves one funnel's stages in reporting order.
func (s *SQLiteStorage) GetFunnelStages(ctx context.Context, campaignID int64, funnel model.FunnelType) ([]model.FunnelStage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT funnel, name, count, area_hectares, conversion, retention
		FROM funnel_stages
		WHERE campaign_id = ? AND funnel = ?
		ORDER BY position`, campaignID, string(funnel))
	if err != nil {
		return nil, fmt.Errorf("failed to query funnel stages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stages []model.FunnelStage
	for rows.Next() {
		var stage model.FunnelStage
		var funnelType string
		if err := rows.Scan(&funnelType, &stage.Name, &stage.Count,
			&stage.AreaHectares, &stage.Conversion, &stage.Retention); err != nil {
			return nil, fmt.Errorf("failed to scan funnel stage: %w", err)
		}
		stage.Funnel = model.FunnelType(funnelType)
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

// SaveQualityDistribution stores the campaign's tier distribution.
func (s *SQLiteStorage) SaveQualityDistribution(ctx context.Context, campaignID int64, entries []model.QualityDistributionEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM quality_distribution WHERE campaign_id = ?`, campaignID); err != nil {
		return fmt.Errorf("failed to clear previous distribution: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quality_distribution (campaign_id, position, tier, count, percentage)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare distribution insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			campaignID, i, e.Tier.String(), e.Count, e.Percentage); err != nil {
			return fmt.Errorf("failed to insert distribution entry %s: %w", e.Tier, err)
		}
	}

	return tx.Commit()
}

// GetQualityDistribution retrieves the campaign's tier distribution in
// reporting order.
func (s *SQLiteStorage) GetQualityDistribution(ctx context.Context, campaignID int64) ([]model.QualityDistributionEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tier, count, percentage
		FROM quality_distribution
		WHERE campaign_id = ?
		ORDER BY position`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quality distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.QualityDistributionEntry
	for rows.Next() {
		var e model.QualityDistributionEntry
		var tier string
		if err := rows.Scan(&tier, &e.Count, &e.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan distribution entry: %w", err)
		}
		parsed, ok := model.ParseConfidenceTier(tier)
		if !ok {
			return nil, fmt.Errorf("unknown stored tier %q", tier)
		}
		e.Tier = parsed
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
