package booking

import (
	"time"
)

// Event types recorded in the audit trail.
const (
	EventCreated   = "created"
	EventClaimed   = "claimed"
	EventIgnored   = "ignored"
	EventUnignored = "unignored"
	EventReleased  = "released"
	EventCompleted = "completed"
	EventPaid      = "paid"
	EventAmended   = "amended"
)

// BookingStatusEvent represents a lifecycle change event for a booking.
// Bookings are never deleted, so the event rows form the full history.
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for booking relationship
	BookingID string  `gorm:"type:varchar(36);not null;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking"`

	EventType     string        `gorm:"type:varchar(30);not null" json:"event_type"`
	Status        BookingStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`

	// Actor id as a string so customer, provider and admin ids share a column.
	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
