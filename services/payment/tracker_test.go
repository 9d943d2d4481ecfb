package payment

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
	"home-booking/repository"
	"home-booking/services/assignment"
)

func newTestTracker(t *testing.T) (*Tracker, repository.BookingRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userModel.User{}, &bookingModel.Booking{}, &bookingModel.BookingStatusEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := repository.NewGormBookingRepository(db)
	return NewTracker(repo), repo
}

func seedBooking(t *testing.T, repo repository.BookingRepository) *bookingModel.Booking {
	t.Helper()

	b := &bookingModel.Booking{
		ID:               uuid.NewString(),
		UserID:           1,
		UserName:         "Asha Rao",
		UserEmail:        "asha@example.com",
		UserPhone:        "5550001111",
		Address:          "12 Lake View Road",
		Pincode:          "560001",
		ServiceName:      "Sofa Cleaning",
		Price:            45,
		Date:             time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:         "14:00-16:00",
		Status:           bookingModel.BookingStatusOpen,
		PaymentStatus:    bookingModel.PaymentStatusPending,
		IgnoredProviders: bookingModel.UintSlice{},
	}
	if err := repo.Create(context.Background(), b, "1"); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	return b
}

func TestMarkPaid(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()
	b := seedBooking(t, repo)

	paid, err := tracker.MarkPaid(ctx, b.ID, 1)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.PaymentStatus != bookingModel.PaymentStatusPaid {
		t.Fatalf("expected paid, got %q", paid.PaymentStatus)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()
	b := seedBooking(t, repo)

	if _, err := tracker.MarkPaid(ctx, b.ID, 1); err != nil {
		t.Fatalf("first mark paid failed: %v", err)
	}
	again, err := tracker.MarkPaid(ctx, b.ID, 1)
	if err != nil {
		t.Fatalf("second mark paid must be a no-op, got %v", err)
	}
	if again.PaymentStatus != bookingModel.PaymentStatusPaid {
		t.Fatalf("expected paid after repeat call, got %q", again.PaymentStatus)
	}

	// Only one paid event is recorded for the two calls.
	events, err := repo.ListEvents(ctx, b.ID)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	paidEvents := 0
	for _, ev := range events {
		if ev.EventType == bookingModel.EventPaid {
			paidEvents++
		}
	}
	if paidEvents != 1 {
		t.Fatalf("expected 1 paid event, got %d", paidEvents)
	}
}

func TestMarkPaid_NotFound(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.MarkPaid(context.Background(), uuid.NewString(), 1)
	if !errors.Is(err, assignment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaid_IndependentOfAssignment(t *testing.T) {
	tracker, repo := newTestTracker(t)
	ctx := context.Background()
	b := seedBooking(t, repo)

	engine := assignment.NewEngine(repo)
	if _, err := engine.Claim(ctx, b.ID, assignment.Provider{ID: 7, Name: "Ravi", Contact: "x"}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	paid, err := tracker.MarkPaid(ctx, b.ID, 1)
	if err != nil {
		t.Fatalf("mark paid on assigned booking failed: %v", err)
	}
	if paid.PaymentStatus != bookingModel.PaymentStatusPaid {
		t.Fatalf("expected paid, got %q", paid.PaymentStatus)
	}
	if paid.ServiceProviderID == nil || *paid.ServiceProviderID != 7 {
		t.Fatalf("payment must not touch assignment fields")
	}
}
