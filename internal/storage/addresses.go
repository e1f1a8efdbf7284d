package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgoretti/landcontact/internal/model"
	"github.com/pgoretti/landcontact/internal/service"
)

// SaveClassifiedAddresses stores a campaign's classified address set.
// Re-running a campaign replaces its previous results.
func (s *SQLiteStorage) SaveClassifiedAddresses(ctx context.Context, campaignID int64, addresses []model.ClassifiedAddress) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, a := range addresses {
		if err := validateAddress(a); err != nil {
			return fmt.Errorf("address at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM classified_addresses WHERE campaign_id = ?`, campaignID); err != nil {
		return fmt.Errorf("failed to clear previous addresses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classified_addresses
			(campaign_id, owner_id, owner_name, declared_address, normalized_address,
			 declared_province, parcels, geocode_ok, geo_normalized, street_name,
			 street_number, street_suffix, postal_code, city, province,
			 latitude, longitude, tier, channel, reasoning, completeness)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare address insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range addresses {
		parcels, err := json.Marshal(a.Pair.Parcels)
		if err != nil {
			return fmt.Errorf("failed to encode parcels for owner %s: %w", a.Pair.OwnerID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			campaignID, a.Pair.OwnerID, a.Pair.OwnerName, a.Pair.DeclaredAddress,
			a.Pair.NormalizedAddress, a.Pair.DeclaredProvince, string(parcels),
			a.Geocode.OK, a.Geocode.NormalizedAddress, a.Geocode.StreetName,
			a.Geocode.StreetNumber, a.Geocode.StreetSuffix, a.Geocode.PostalCode,
			a.Geocode.City, a.Geocode.Province, a.Geocode.Latitude, a.Geocode.Longitude,
			a.Tier.String(), string(a.Channel), a.Reasoning, a.Completeness); err != nil {
			return fmt.Errorf("failed to insert address for owner %s: %w", a.Pair.OwnerID, err)
		}
	}

	return tx.Commit()
}

// GetClassifiedAddresses retrieves a campaign's classified addresses,
// optionally filtered by tier and channel.
func (s *SQLiteStorage) GetClassifiedAddresses(ctx context.Context, campaignID int64, filter service.AddressFilter) ([]model.ClassifiedAddress, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT owner_id, owner_name, declared_address, normalized_address,
		       declared_province, parcels, geocode_ok, geo_normalized, street_name,
		       street_number, street_suffix, postal_code, city, province,
		       latitude, longitude, tier, channel, reasoning, completeness
		FROM classified_addresses
		WHERE campaign_id = ?`)
	args := []any{campaignID}

	if filter.Tier != nil {
		query.WriteString(` AND tier = ?`)
		args = append(args, filter.Tier.String())
	}
	if filter.Channel != nil {
		query.WriteString(` AND channel = ?`)
		args = append(args, string(*filter.Channel))
	}
	query.WriteString(` ORDER BY owner_id, normalized_address`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var addresses []model.ClassifiedAddress
	for rows.Next() {
		var a model.ClassifiedAddress
		var parcels, tier, channel string

		if err := rows.Scan(&a.Pair.OwnerID, &a.Pair.OwnerName, &a.Pair.DeclaredAddress,
			&a.Pair.NormalizedAddress, &a.Pair.DeclaredProvince, &parcels,
			&a.Geocode.OK, &a.Geocode.NormalizedAddress, &a.Geocode.StreetName,
			&a.Geocode.StreetNumber, &a.Geocode.StreetSuffix, &a.Geocode.PostalCode,
			&a.Geocode.City, &a.Geocode.Province, &a.Geocode.Latitude, &a.Geocode.Longitude,
			&tier, &channel, &a.Reasoning, &a.Completeness); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}

		if err := json.Unmarshal([]byte(parcels), &a.Pair.Parcels); err != nil {
			return nil, fmt.Errorf("failed to decode parcels for owner %s: %w", a.Pair.OwnerID, err)
		}
		parsed, ok := model.ParseConfidenceTier(tier)
		if !ok {
			return nil, fmt.Errorf("unknown stored tier %q for owner %s", tier, a.Pair.OwnerID)
		}
		a.Tier = parsed
		a.Channel = model.RoutingChannel(channel)

		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}
