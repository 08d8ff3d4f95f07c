package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.CustomerReference{},
		&model.SubscribedMembership{},
		&model.Membership{},
		&model.MembershipSubscription{},
		&model.ProcessedEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// createCustomIndexes creates composite uniqueness constraints GORM tags
// cannot express. Both are load-bearing: the customer-reference index
// enforces at most one reference per (user, instructor), the membership
// index makes the subscribed set a real set.
func createCustomIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_customer_reference_per_instructor ON customer_references (user_id, instructor_user_id)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_subscribed_membership ON subscribed_memberships (user_id, membership_id)`).Error; err != nil {
		return err
	}
	return nil
}
