package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription lifecycle states as reported by Stripe. The engine never
// computes transitions itself, it mirrors whatever status the event carries.
const (
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusUnpaid   = "unpaid"
)

// MembershipSubscription joins a subscribing user to a membership and tracks
// the remote subscription's lifecycle status. It is the primary entity
// mutated by webhook reconciliation.
type MembershipSubscription struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MembershipID         uuid.UUID `gorm:"type:uuid;not null;index" json:"membership_id"`
	StripeSubscriptionID string    `gorm:"uniqueIndex;not null;size:100" json:"stripe_subscription_id"`
	Status               string    `gorm:"not null;size:32" json:"status"`
	CreatedAt            time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MembershipSubscription) TableName() string {
	return "membership_subscriptions"
}

// IsSubscribed reports whether a subscription status still grants access to
// the membership. past_due counts as subscribed: Stripe keeps retrying the
// invoice and the subscription may recover to active.
func IsSubscribed(status string) bool {
	switch status {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue:
		return true
	}
	return false
}
