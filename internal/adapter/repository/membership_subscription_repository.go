package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	domainRepo "github.com/fitcal/fitcal-backend/internal/domain/repository"
)

type membershipSubscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMembershipSubscriptionRepository creates a new membership subscription repository
func NewMembershipSubscriptionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.MembershipSubscriptionRepository {
	return &membershipSubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *membershipSubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.MembershipSubscription, error) {
	var subscription model.MembershipSubscription
	err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership subscription: %w", err)
	}
	return &subscription, nil
}

func (r *membershipSubscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.MembershipSubscription{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		r.logger.Error("Failed to update subscription status",
			zap.String("id", id.String()),
			zap.String("status", status),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("membership subscription not found: %s", id)
	}
	return nil
}

func (r *membershipSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MembershipSubscription{}).Error
	if err != nil {
		r.logger.Error("Failed to delete membership subscription",
			zap.String("id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete membership subscription: %w", err)
	}
	return nil
}
