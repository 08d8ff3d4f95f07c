package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcal/fitcal-backend/internal/adapter/repository"
	domainRepo "github.com/fitcal/fitcal-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User                   domainRepo.UserRepository
	Membership             domainRepo.MembershipRepository
	MembershipSubscription domainRepo.MembershipSubscriptionRepository
	ProcessedEvent         domainRepo.ProcessedEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:                   repository.NewUserRepository(db, logger),
		Membership:             repository.NewMembershipRepository(db, logger),
		MembershipSubscription: repository.NewMembershipSubscriptionRepository(db, logger),
		ProcessedEvent:         repository.NewProcessedEventRepository(db, logger),
	}
}
