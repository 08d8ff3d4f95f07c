package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	domainRepo "github.com/fitcal/fitcal-backend/internal/domain/repository"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger *zap.Logger) domainRepo.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by stripe customer id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("stripe_account_id = ?", accountID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by stripe account id: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByCustomerReference(ctx context.Context, instructorUserID uuid.UUID, customerID string) (*model.User, error) {
	var reference model.CustomerReference
	err := r.db.WithContext(ctx).
		Where("instructor_user_id = ? AND stripe_customer_id = ?", instructorUserID, customerID).
		First(&reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer reference: %w", err)
	}
	return r.GetByID(ctx, reference.UserID)
}

func (r *userRepository) AddSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error {
	entry := &model.SubscribedMembership{
		UserID:       userID,
		MembershipID: membershipID,
	}

	// ON CONFLICT DO NOTHING keeps the operation idempotent under the
	// (user_id, membership_id) unique index.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
	if err != nil {
		r.logger.Error("Failed to add subscribed membership",
			zap.String("user_id", userID.String()),
			zap.String("membership_id", membershipID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to add subscribed membership: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveSubscribedMembership(ctx context.Context, userID, membershipID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND membership_id = ?", userID, membershipID).
		Delete(&model.SubscribedMembership{}).Error
	if err != nil {
		r.logger.Error("Failed to remove subscribed membership",
			zap.String("user_id", userID.String()),
			zap.String("membership_id", membershipID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to remove subscribed membership: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveCustomerReferenceByRemoteID(ctx context.Context, customerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", customerID).
		Delete(&model.CustomerReference{})
	if result.Error != nil {
		r.logger.Error("Failed to remove customer reference",
			zap.String("stripe_customer_id", customerID),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to remove customer reference: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *userRepository) Disconnect(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"connected":         false,
			"stripe_account_id": nil,
			"connect_token":     nil,
		})
	if result.Error != nil {
		r.logger.Error("Failed to disconnect user",
			zap.String("user_id", userID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to disconnect user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}
