package checkout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"

	"home-booking/logger"
	bookingModel "home-booking/models/booking"
	"home-booking/repository"
	"home-booking/types"
	bookingTypes "home-booking/types/booking"
)

// ErrEmptyCart rejects a checkout with no line items.
var ErrEmptyCart = errors.New("cart is empty")

// Aggregator converts a customer's cart into booking records. This is the
// single creation path for bookings. Items are booked independently: one
// failing item does not roll back its siblings, and the response reports
// each outcome.
type Aggregator struct {
	repo repository.BookingRepository
}

func NewAggregator(repo repository.BookingRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Checkout creates one pending, unassigned booking per cart item, freezing
// the customer snapshot into each row.
func (a *Aggregator) Checkout(
	ctx context.Context,
	userID uint,
	snapshot types.CustomerSnapshot,
	items []bookingTypes.CartItemRequest,
) ([]bookingTypes.CheckoutItemResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	actor := strconv.FormatUint(uint64(userID), 10)
	results := make([]bookingTypes.CheckoutItemResult, 0, len(items))

	for _, item := range items {
		result := bookingTypes.CheckoutItemResult{ServiceName: item.ServiceName}

		b, err := a.buildBooking(userID, snapshot, item)
		if err == nil {
			err = a.repo.Create(ctx, b, actor)
		}
		if err != nil {
			logger.Error("Checkout item failed for "+item.ServiceName, err)
			result.Error = err.Error()
		} else {
			result.BookingID = b.ID
		}
		results = append(results, result)
	}

	return results, nil
}

func (a *Aggregator) buildBooking(
	userID uint,
	snapshot types.CustomerSnapshot,
	item bookingTypes.CartItemRequest,
) (*bookingModel.Booking, error) {
	date, err := parseRequestedDate(item.Date)
	if err != nil {
		return nil, err
	}

	b := &bookingModel.Booking{
		ID:               uuid.NewString(),
		UserID:           userID,
		UserName:         snapshot.Name,
		UserEmail:        snapshot.Email,
		UserPhone:        snapshot.Phone,
		Address:          snapshot.Address,
		Pincode:          snapshot.Pincode,
		ServiceName:      item.ServiceName,
		Price:            item.Price,
		Date:             date,
		TimeSlot:         item.TimeSlot,
		Status:           bookingModel.BookingStatusOpen,
		PaymentStatus:    bookingModel.PaymentStatusPending,
		IgnoredProviders: bookingModel.UintSlice{},
	}
	if item.Remark != "" {
		remark := item.Remark
		b.Remark = &remark
	}
	return b, nil
}

// parseRequestedDate accepts YYYY-MM-DD and rejects dates before today.
func parseRequestedDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	if date.Before(now.BeginningOfDay()) {
		return time.Time{}, errors.New("requested date is in the past")
	}
	return date, nil
}
