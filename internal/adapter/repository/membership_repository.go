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

type membershipRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB, logger *zap.Logger) domainRepo.MembershipRepository {
	return &membershipRepository{
		db:     db,
		logger: logger,
	}
}

func (r *membershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &membership, nil
}
