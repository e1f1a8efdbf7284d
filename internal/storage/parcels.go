package storage

import (
	"context"
	"fmt"

	"github.com/pgoretti/landcontact/internal/model"
)

// SaveParcels stores a campaign's input parcel list.
func (s *SQLiteStorage) SaveParcels(ctx context.Context, campaignID int64, parcels []model.Parcel) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, p := range parcels {
		if err := validateParcel(p); err != nil {
			return fmt.Errorf("parcel at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO parcels
			(campaign_id, municipality, sheet_id, parcel_id, province, area_hectares)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare parcel insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range parcels {
		if _, err := stmt.ExecContext(ctx,
			campaignID, p.Key.Municipality, p.Key.SheetID, p.Key.ParcelID,
			p.Province, p.AreaHectares); err != nil {
			return fmt.Errorf("failed to insert parcel %s: %w", p.Key, err)
		}
	}

	return tx.Commit()
}

// GetParcels retrieves a campaign's input parcels.
func (s *SQLiteStorage) GetParcels(ctx context.Context, campaignID int64) ([]model.Parcel, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT municipality, sheet_id, parcel_id, province, area_hectares
		FROM parcels
		WHERE campaign_id = ?
		ORDER BY municipality, sheet_id, parcel_id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var parcels []model.Parcel
	for rows.Next() {
		var p model.Parcel
		if err := rows.Scan(&p.Key.Municipality, &p.Key.SheetID, &p.Key.ParcelID,
			&p.Province, &p.AreaHectares); err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, p)
	}

	return parcels, rows.Err()
}
