package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	"github.com/fitcal/fitcal-backend/internal/domain/repository"
)

// IdentityResolver maps Stripe identifiers carried by webhook events back to
// local users. A user may be a customer of the platform account and,
// independently, a customer of any number of connected instructor accounts,
// so two lookup paths exist. All lookups return (nil, nil) on no match:
// resolution failure is a handleable condition, not an error.
type IdentityResolver struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewIdentityResolver(users repository.UserRepository, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{
		users:  users,
		logger: logger,
	}
}

// ByPlatformCustomer finds the user whose platform-level customer id matches.
func (r *IdentityResolver) ByPlatformCustomer(ctx context.Context, customerID string) (*model.User, error) {
	if customerID == "" {
		return nil, nil
	}
	return r.users.GetByStripeCustomerID(ctx, customerID)
}

// ByConnectedCustomer finds the user holding a customer reference for the
// given connected account. The instructor user is resolved first, since
// customer references are keyed by instructor user id rather than by the raw
// account id.
func (r *IdentityResolver) ByConnectedCustomer(ctx context.Context, accountID, customerID string) (*model.User, error) {
	if accountID == "" || customerID == "" {
		return nil, nil
	}

	instructor, err := r.users.GetByStripeAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if instructor == nil {
		r.logger.Debug("No instructor for connected account",
			zap.String("account", accountID))
		return nil, nil
	}

	return r.users.GetByCustomerReference(ctx, instructor.ID, customerID)
}

// Customer resolves the paying side of an event: through the connected
// account when the event carries one, through the platform customer id
// otherwise.
func (r *IdentityResolver) Customer(ctx context.Context, accountID, customerID string) (*model.User, error) {
	if accountID != "" {
		return r.ByConnectedCustomer(ctx, accountID, customerID)
	}
	return r.ByPlatformCustomer(ctx, customerID)
}

// InstructorByAccount finds the instructor user owning a connected account.
func (r *IdentityResolver) InstructorByAccount(ctx context.Context, accountID string) (*model.User, error) {
	if accountID == "" {
		return nil, nil
	}
	return r.users.GetByStripeAccountID(ctx, accountID)
}
