package booking_event

import (
	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
)

// SnapshotBookingToEvent writes the booking's current lifecycle state into
// BookingStatusEvent with the given event type. Called inside the same
// transaction as the mutation it records.
func SnapshotBookingToEvent(tx *gorm.DB, b *bookingModel.Booking, eventType string, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID:     b.ID,
		EventType:     eventType,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedBy:     createdBy,
	}

	return tx.Create(&ev).Error
}
