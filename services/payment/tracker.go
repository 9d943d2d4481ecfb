package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	"home-booking/repository"
	"home-booking/services/assignment"
)

// Tracker owns the payment status of bookings. It never reads or writes
// assignment fields; a booking can be paid before, during or after being
// assigned.
type Tracker struct {
	repo repository.BookingRepository
}

func NewTracker(repo repository.BookingRepository) *Tracker {
	return &Tracker{repo: repo}
}

const maxRetries = 3

// MarkPaid transitions pending to paid. Calling it on an already-paid
// booking is a no-op, not an error. Paid is irreversible.
func (t *Tracker) MarkPaid(ctx context.Context, bookingID string, actorID uint) (*bookingModel.Booking, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := t.repo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, assignment.ErrNotFound
			}
			return nil, err
		}
		if b.PaymentStatus == bookingModel.PaymentStatusPaid {
			return b, nil // idempotent
		}

		updates := map[string]interface{}{
			"payment_status": bookingModel.PaymentStatusPaid,
		}
		err = t.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventPaid, strconv.FormatUint(uint64(actorID), 10))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return t.repo.GetByID(ctx, bookingID)
	}
	return nil, fmt.Errorf("mark paid booking %s: %w", bookingID, assignment.ErrConflict)
}
