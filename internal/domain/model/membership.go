package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Membership is a recurring-payment product created by an instructor. The
// webhook engine only ever reads it; creation and Stripe plan/product
// provisioning happen in the purchase flow.
type Membership struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`

	// StripePlanID describes the price and billing interval, StripeProductID
	// the name and type.
	StripePlanID    string `gorm:"size:100" json:"stripe_plan_id"`
	StripeProductID string `gorm:"size:100" json:"stripe_product_id"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Membership) TableName() string {
	return "memberships"
}
