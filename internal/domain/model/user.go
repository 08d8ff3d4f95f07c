package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the local identity record. A user may simultaneously be a
// platform-level Stripe customer (StripeCustomerID), a connected merchant
// account (StripeAccountID + ConnectToken), and a customer of any number of
// connected accounts (CustomerReferences).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	Phone        string    `gorm:"size:32" json:"phone"`
	PasswordHash string    `gorm:"size:255" json:"-"`

	// StripeCustomerID is set once the user attaches a payment method on the
	// platform account.
	StripeCustomerID *string `gorm:"uniqueIndex;size:100" json:"stripe_customer_id,omitempty"`

	// Connect fields are present once the user has onboarded as a merchant.
	// StripeAccountID duplicates the account id inside ConnectToken so that
	// webhook events can be resolved with an indexed lookup.
	Connected       bool    `gorm:"not null;default:false" json:"connected"`
	StripeAccountID *string `gorm:"uniqueIndex;size:100" json:"stripe_account_id,omitempty"`
	ConnectToken    JSONB   `gorm:"type:jsonb" json:"-"`

	CustomerReferences []CustomerReference `gorm:"foreignKey:UserID" json:"customer_references,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// CustomerReference records that a user is a customer of one connected
// instructor account. At most one reference exists per (user, instructor).
type CustomerReference struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	InstructorUserID uuid.UUID `gorm:"type:uuid;not null" json:"instructor_user_id"`
	StripeCustomerID string    `gorm:"not null;size:100;index" json:"stripe_customer_id"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CustomerReference) TableName() string {
	return "customer_references"
}

// SubscribedMembership is the membership-set entry for a user. Rows are
// inserted and removed idempotently by webhook reconciliation.
type SubscribedMembership struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MembershipID uuid.UUID `gorm:"type:uuid;not null" json:"membership_id"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (SubscribedMembership) TableName() string {
	return "subscribed_memberships"
}
