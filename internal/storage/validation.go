package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgoretti/landcontact/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidParcel  = errors.New("invalid parcel")
	ErrInvalidAddress = errors.New("invalid classified address")
	ErrInvalidStage   = errors.New("invalid funnel stage")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateParcel ensures a parcel carries a complete key and a sane area.
func validateParcel(p model.Parcel) error {
	if p.Key.Municipality == "" || p.Key.SheetID == "" || p.Key.ParcelID == "" {
		return fmt.Errorf("%w: incomplete key %q", ErrInvalidParcel, p.Key)
	}
	if p.AreaHectares < 0 {
		return fmt.Errorf("%w: negative area for %s", ErrInvalidParcel, p.Key)
	}
	return nil
}

// validateAddress ensures a classified address is storable: a known owner,
// a declared address, and a valid tier/channel combination.
func validateAddress(a model.ClassifiedAddress) error {
	if a.Pair.OwnerID == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidAddress)
	}
	if a.Pair.DeclaredAddress == "" {
		return fmt.Errorf("%w: missing declared address for owner %s", ErrInvalidAddress, a.Pair.OwnerID)
	}
	if _, ok := model.ParseConfidenceTier(a.Tier.String()); !ok {
		return fmt.Errorf("%w: unknown tier for owner %s", ErrInvalidAddress, a.Pair.OwnerID)
	}
	switch a.Channel {
	case model.ChannelDirectMail, model.ChannelAgency:
	default:
		return fmt.Errorf("%w: unknown channel %q for owner %s", ErrInvalidAddress, a.Channel, a.Pair.OwnerID)
	}
	if a.Completeness < 0 || a.Completeness > 1 {
		return fmt.Errorf("%w: completeness out of range for owner %s", ErrInvalidAddress, a.Pair.OwnerID)
	}
	return nil
}

// validateStage ensures a funnel stage row is storable.
func validateStage(s model.FunnelStage) error {
	switch s.Funnel {
	case model.FunnelLand, model.FunnelContact:
	default:
		return fmt.Errorf("%w: unknown funnel %q", ErrInvalidStage, s.Funnel)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: missing stage name", ErrInvalidStage)
	}
	if s.Count < 0 {
		return fmt.Errorf("%w: negative count for stage %q", ErrInvalidStage, s.Name)
	}
	return nil
}
