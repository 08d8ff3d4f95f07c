package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

// MembershipSubscriptionRepository persists the join records between users
// and memberships. GetByStripeSubscriptionID returns (nil, nil) on no match.
type MembershipSubscriptionRepository interface {
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.MembershipSubscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
