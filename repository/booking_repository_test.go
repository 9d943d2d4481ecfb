package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	userModel "home-booking/models/user"
)

func newTestRepo(t *testing.T) *GormBookingRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection serializes writers against the in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userModel.User{}, &bookingModel.Booking{}, &bookingModel.BookingStatusEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewGormBookingRepository(db)
}

func newBooking(serviceName string, date time.Time) *bookingModel.Booking {
	return &bookingModel.Booking{
		ID:               uuid.NewString(),
		UserID:           1,
		UserName:         "Asha Rao",
		UserEmail:        "asha@example.com",
		UserPhone:        "5550001111",
		Address:          "12 Lake View Road",
		Pincode:          "560001",
		ServiceName:      serviceName,
		Price:            50,
		Date:             date,
		TimeSlot:         "10:00-12:00",
		Status:           bookingModel.BookingStatusOpen,
		PaymentStatus:    bookingModel.PaymentStatusPending,
		IgnoredProviders: bookingModel.UintSlice{},
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := newBooking("Plumbing Repair", time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, b, "1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ServiceName != "Plumbing Repair" {
		t.Fatalf("expected service name %q, got %q", "Plumbing Repair", got.ServiceName)
	}
	if got.Status != bookingModel.BookingStatusOpen {
		t.Fatalf("expected status open, got %q", got.Status)
	}
	if got.PaymentStatus != bookingModel.PaymentStatusPending {
		t.Fatalf("expected payment pending, got %q", got.PaymentStatus)
	}

	events, err := repo.ListEvents(ctx, b.ID)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != bookingModel.EventCreated {
		t.Fatalf("expected one created event, got %+v", events)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestUpdateGuarded_VersionBump(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := newBooking("AC Service", time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, b, "1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.UpdateGuarded(ctx, b.ID, 0, map[string]interface{}{
		"payment_status": bookingModel.PaymentStatusPaid,
	}, bookingModel.EventPaid, "1")
	if err != nil {
		t.Fatalf("guarded update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("expected version 1, got %d", got.Version)
	}
	if got.PaymentStatus != bookingModel.PaymentStatusPaid {
		t.Fatalf("expected paid, got %q", got.PaymentStatus)
	}
}

func TestUpdateGuarded_StaleVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := newBooking("AC Service", time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, b, "1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// First writer wins.
	if err := repo.UpdateGuarded(ctx, b.ID, 0, map[string]interface{}{
		"remark": "first",
	}, "", "1"); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Second writer supplied the version it read before the first commit.
	err := repo.UpdateGuarded(ctx, b.ID, 0, map[string]interface{}{
		"remark": "second",
	}, "", "1")
	if !errors.Is(err, ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Remark == nil || *got.Remark != "first" {
		t.Fatalf("stale writer must not overwrite, got %+v", got.Remark)
	}
}

func TestListOpen_OrderingAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	later := newBooking("Painting", time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC))
	earlier := newBooking("Sofa Cleaning", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	for _, b := range []*bookingModel.Booking{later, earlier} {
		if err := repo.Create(ctx, b, "1"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	open, err := repo.ListOpen(ctx, FeedFilter{})
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open bookings, got %d", len(open))
	}
	if open[0].ID != earlier.ID {
		t.Fatalf("expected earliest requested date first")
	}

	from := time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC)
	filtered, err := repo.ListOpen(ctx, FeedFilter{From: &from})
	if err != nil {
		t.Fatalf("list open with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != later.ID {
		t.Fatalf("date filter mismatch: %+v", filtered)
	}

	byService, err := repo.ListOpen(ctx, FeedFilter{ServiceName: "Painting"})
	if err != nil {
		t.Fatalf("list open by service failed: %v", err)
	}
	if len(byService) != 1 || byService[0].ID != later.ID {
		t.Fatalf("service filter mismatch: %+v", byService)
	}
}

func TestListOpen_ExcludesAssigned(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := newBooking("Pest Control", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, b, "1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Ravi Kumar"
	contact := "5552223333"
	err := repo.UpdateGuarded(ctx, b.ID, 0, map[string]interface{}{
		"status":                   bookingModel.BookingStatusAssigned,
		"service_provider_id":      uint(7),
		"service_provider_name":    &name,
		"service_provider_contact": &contact,
	}, bookingModel.EventClaimed, "7")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	open, err := repo.ListOpen(ctx, FeedFilter{})
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("assigned booking must not be listed as open, got %d", len(open))
	}
}

func TestScans(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mine := newBooking("Carpentry", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	other := newBooking("Carpentry", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	other.UserID = 2
	for _, b := range []*bookingModel.Booking{mine, other} {
		if err := repo.Create(ctx, b, "1"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	byUser, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != mine.ID {
		t.Fatalf("user scan mismatch: %+v", byUser)
	}

	pending, err := repo.ListByPaymentStatus(ctx, bookingModel.PaymentStatusPending)
	if err != nil {
		t.Fatalf("list by payment status failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending bookings, got %d", len(pending))
	}

	name := "Ravi Kumar"
	contact := "5552223333"
	if err := repo.UpdateGuarded(ctx, mine.ID, 0, map[string]interface{}{
		"status":                   bookingModel.BookingStatusAssigned,
		"service_provider_id":      uint(7),
		"service_provider_name":    &name,
		"service_provider_contact": &contact,
	}, "", "7"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	byProvider, err := repo.ListByProvider(ctx, 7)
	if err != nil {
		t.Fatalf("list by provider failed: %v", err)
	}
	if len(byProvider) != 1 || byProvider[0].ID != mine.ID {
		t.Fatalf("provider scan mismatch: %+v", byProvider)
	}
}
