package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pgoretti/landcontact/internal/common"
	"github.com/pgoretti/landcontact/internal/model"
)

// CreateCampaign records a new campaign run.
func (s *SQLiteStorage) CreateCampaign(ctx context.Context, name string, municipalities []string) (*model.Campaign, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(municipalities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode municipalities: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (name, municipalities, created_at) VALUES (?, ?, ?)`,
		name, string(encoded), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign id: %w", err)
	}

	return &model.Campaign{
		ID:             id,
		Name:           name,
		Municipalities: municipalities,
		CreatedAt:      now,
	}, nil
}

// GetCampaign retrieves a campaign by id.
func (s *SQLiteStorage) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, municipalities, created_at FROM campaigns WHERE id = ?`, id)
	return scanCampaign(row)
}

// GetLatestCampaign retrieves the most recently created campaign.
func (s *SQLiteStorage) GetLatestCampaign(ctx context.Context) (*model.Campaign, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, municipalities, created_at FROM campaigns ORDER BY id DESC LIMIT 1`)
	return scanCampaign(row)
}

func scanCampaign(row *sql.Row) (*model.Campaign, error) {
	var c model.Campaign
	var encoded string

	err := row.Scan(&c.ID, &c.Name, &encoded, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: campaign", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}

	if err := json.Unmarshal([]byte(encoded), &c.Municipalities); err != nil {
		return nil, fmt.Errorf("failed to decode municipalities: %w", err)
	}

	return &c, nil
}
