package checkout

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	"home-booking/repository"
	"home-booking/services/assignment"
	bookingTypes "home-booking/types/booking"
)

// Amend updates correction fields (contact details, remark) on a booking the
// customer owns. Allowed only while the booking is open and unassigned;
// service name, price, date and time slot are immutable after creation.
func (a *Aggregator) Amend(ctx context.Context, bookingID string, userID uint, req bookingTypes.AmendContactRequest) (*bookingModel.Booking, error) {
	for attempt := 0; attempt < maxAmendRetries; attempt++ {
		b, err := a.repo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, assignment.ErrNotFound
			}
			return nil, err
		}
		if b.UserID != userID {
			return nil, assignment.ErrForbidden
		}
		if b.Status != bookingModel.BookingStatusOpen || b.IsAssigned() {
			return nil, assignment.ErrInvalidState
		}

		updates := map[string]interface{}{}
		if req.Phone != "" {
			updates["user_phone"] = req.Phone
		}
		if req.Address != "" {
			updates["address"] = req.Address
		}
		if req.Pincode != "" {
			updates["pincode"] = req.Pincode
		}
		if req.Remark != "" {
			updates["remark"] = req.Remark
		}

		err = a.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventAmended, strconv.FormatUint(uint64(userID), 10))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return a.repo.GetByID(ctx, bookingID)
	}
	return nil, assignment.ErrConflict
}

const maxAmendRetries = 3
