package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

// UserRepository defines user lookups and the narrow set of mutations the
// webhook engine performs. Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByStripeCustomerID finds the user by platform-level customer id.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)

	// GetByStripeAccountID finds the instructor user owning a connected account.
	GetByStripeAccountID(ctx context.Context, accountID string) (*model.User, error)

	// GetByCustomerReference finds the user holding a customer reference for
	// the given instructor and remote customer id.
	GetByCustomerReference(ctx context.Context, instructorUserID uuid.UUID, customerID string) (*model.User, error)

	// AddSubscribedMembership and RemoveSubscribedMembership are idempotent
	// set operations on the user's subscribed-membership set.
	AddSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error
	RemoveSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error

	// RemoveCustomerReferenceByRemoteID deletes the customer-reference rows
	// matching a remote customer id and reports how many were removed.
	RemoveCustomerReferenceByRemoteID(ctx context.Context, customerID string) (int64, error)

	// Disconnect clears a user's connected-account state after the account
	// deauthorizes the platform.
	Disconnect(ctx context.Context, userID uuid.UUID) error
}
