package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

// MembershipRepository is read-only from the webhook engine's perspective.
type MembershipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Membership, error)
}
