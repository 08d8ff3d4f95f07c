package model

import "time"

// ProcessedEvent marks one Stripe event id as fully processed. The primary
// key is the idempotency guarantee: a second insert for the same event id is
// rejected by the database, not by application logic.
type ProcessedEvent struct {
	StripeEventID string    `gorm:"primaryKey;size:255" json:"stripe_event_id"`
	EventType     string    `gorm:"not null;size:100;index" json:"event_type"`
	ReceivedAt    time.Time `gorm:"not null;index;default:now()" json:"received_at"`
}

// TableName specifies the table name for GORM
func (ProcessedEvent) TableName() string {
	return "processed_events"
}
