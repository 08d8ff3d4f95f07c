package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
	domainRepo "github.com/fitcal/fitcal-backend/internal/domain/repository"
)

type processedEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProcessedEventRepository creates a new processed event repository
func NewProcessedEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProcessedEventRepository {
	return &processedEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *processedEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProcessedEvent{}).
		Where("stripe_event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check processed event: %w", err)
	}
	return count > 0, nil
}

func (r *processedEventRepository) Reserve(ctx context.Context, eventID, eventType string) (bool, error) {
	event := &model.ProcessedEvent{
		StripeEventID: eventID,
		EventType:     eventType,
		ReceivedAt:    time.Now(),
	}

	// INSERT ... ON CONFLICT DO NOTHING is the atomic reserve-or-reject:
	// under concurrent duplicate deliveries exactly one insert takes effect
	// and RowsAffected tells us whether it was ours.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		r.logger.Error("Failed to reserve event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to reserve event: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *processedEventRepository) List(ctx context.Context, limit int) ([]*model.ProcessedEvent, error) {
	var events []*model.ProcessedEvent
	query := r.db.WithContext(ctx).Order("received_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list processed events: %w", err)
	}
	return events, nil
}

func (r *processedEventRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&model.ProcessedEvent{})
	if result.Error != nil {
		r.logger.Error("Failed to prune processed events",
			zap.Time("cutoff", cutoff),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to prune processed events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
