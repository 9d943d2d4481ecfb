package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	"home-booking/services/booking_event"
)

// ErrStaleWrite means the conditional check of an update failed because
// another writer changed the row first. Callers re-read and retry.
var ErrStaleWrite = errors.New("stale write: booking was modified concurrently")

// FeedFilter narrows the open-booking scan for a provider's feed.
type FeedFilter struct {
	From        *time.Time
	To          *time.Time
	ServiceName string
}

// BookingRepository is the durable store for booking records. All mutations
// after creation are conditional on the version the caller read, so two
// concurrent writers on the same booking can never silently overwrite one
// another.
type BookingRepository interface {
	// Create persists a new booking and its "created" audit event.
	Create(ctx context.Context, b *bookingModel.Booking, actor string) error
	// GetByID returns a booking by id.
	GetByID(ctx context.Context, id string) (*bookingModel.Booking, error)
	// UpdateGuarded applies updates only if the stored version still equals
	// version, bumping it by one. Returns ErrStaleWrite on a version miss.
	// eventType, when non-empty, appends an audit event in the same
	// transaction.
	UpdateGuarded(ctx context.Context, id string, version int64, updates map[string]interface{}, eventType, actor string) error
	// ListByUser returns a customer's bookings, newest first.
	ListByUser(ctx context.Context, userID uint) ([]bookingModel.Booking, error)
	// ListByProvider returns the bookings currently assigned to a provider.
	ListByProvider(ctx context.Context, providerID uint) ([]bookingModel.Booking, error)
	// ListByPaymentStatus returns bookings with the given payment status.
	ListByPaymentStatus(ctx context.Context, status bookingModel.PaymentStatus) ([]bookingModel.Booking, error)
	// ListOpen returns open, unassigned bookings matching the filter,
	// ordered by requested date then creation time.
	ListOpen(ctx context.Context, f FeedFilter) ([]bookingModel.Booking, error)
	// ListEvents returns the audit trail of a booking, oldest first.
	ListEvents(ctx context.Context, bookingID string) ([]bookingModel.BookingStatusEvent, error)
}

// Gorm implementation.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *bookingModel.Booking, actor string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return booking_event.SnapshotBookingToEvent(tx, b, bookingModel.EventCreated, actor)
	})
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateGuarded(
	ctx context.Context,
	id string,
	version int64,
	updates map[string]interface{},
	eventType string,
	actor string,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["version"] = version + 1

		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND version = ?", id, version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleWrite
		}

		if eventType == "" {
			return nil
		}
		var b bookingModel.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		return booking_event.SnapshotBookingToEvent(tx, &b, eventType, actor)
	})
}

func (r *GormBookingRepository) ListByUser(ctx context.Context, userID uint) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookingRepository) ListByProvider(ctx context.Context, providerID uint) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := r.db.WithContext(ctx).
		Where("service_provider_id = ?", providerID).
		Order("date ASC, created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookingRepository) ListByPaymentStatus(ctx context.Context, status bookingModel.PaymentStatus) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", status).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *GormBookingRepository) ListOpen(ctx context.Context, f FeedFilter) ([]bookingModel.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", bookingModel.BookingStatusOpen).
		Where("service_provider_id IS NULL")

	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.ServiceName != "" {
		q = q.Where("service_name = ?", f.ServiceName)
	}

	var bookings []bookingModel.Booking
	err := q.Order("date ASC, created_at ASC").Find(&bookings).Error
	return bookings, err
}

func (r *GormBookingRepository) ListEvents(ctx context.Context, bookingID string) ([]bookingModel.BookingStatusEvent, error) {
	var events []bookingModel.BookingStatusEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
