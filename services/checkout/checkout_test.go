package checkout

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	userModel "home-booking/models/user"
	"home-booking/repository"
	"home-booking/services/assignment"
	"home-booking/types"
	bookingTypes "home-booking/types/booking"
)

func newTestAggregator(t *testing.T) (*Aggregator, repository.BookingRepository, *gorm.DB) {
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
	return NewAggregator(repo), repo, db
}

func testSnapshot() types.CustomerSnapshot {
	return types.CustomerSnapshot{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "5550001111",
		Address: "12 Lake View Road",
		Pincode: "560001",
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	_, err := agg.Checkout(context.Background(), 1, testSnapshot(), nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_CreatesPendingUnassignedBookings(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	items := []bookingTypes.CartItemRequest{
		{ServiceName: "Home Deep Cleaning", Price: 120, Date: "2030-05-10", TimeSlot: "10:00-12:00"},
		{ServiceName: "Sofa Cleaning", Price: 45, Date: "2030-05-11", TimeSlot: "14:00-16:00", Remark: "two sofas"},
	}

	results, err := agg.Checkout(ctx, 1, testSnapshot(), items)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, r := range results {
		if r.Error != "" {
			t.Fatalf("unexpected item error: %s", r.Error)
		}
		b, err := repo.GetByID(ctx, r.BookingID)
		if err != nil {
			t.Fatalf("created booking not found: %v", err)
		}
		if b.Status != bookingModel.BookingStatusOpen || b.IsAssigned() {
			t.Fatalf("new booking must be open and unassigned, got %+v", b)
		}
		if b.PaymentStatus != bookingModel.PaymentStatusPending {
			t.Fatalf("new booking must be pending, got %q", b.PaymentStatus)
		}
		if b.UserName != "Asha Rao" || b.Pincode != "560001" {
			t.Fatalf("customer snapshot not applied: %+v", b)
		}
	}
}

func TestCheckout_PerItemPartialFailure(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	items := []bookingTypes.CartItemRequest{
		{ServiceName: "Home Deep Cleaning", Price: 120, Date: "2030-05-10", TimeSlot: "10:00-12:00"},
		{ServiceName: "Sofa Cleaning", Price: 45, Date: "not-a-date", TimeSlot: "14:00-16:00"},
		{ServiceName: "Pest Control", Price: 80, Date: "2030-05-12", TimeSlot: "09:00-11:00"},
	}

	results, err := agg.Checkout(ctx, 1, testSnapshot(), items)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" || results[0].BookingID == "" {
		t.Fatalf("first item should succeed: %+v", results[0])
	}
	if results[1].Error == "" {
		t.Fatalf("second item should fail on invalid date")
	}
	if results[2].Error != "" || results[2].BookingID == "" {
		t.Fatalf("a failing item must not roll back its siblings: %+v", results[2])
	}

	created, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 persisted bookings, got %d", len(created))
	}
}

func TestCheckout_RejectsPastDate(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	items := []bookingTypes.CartItemRequest{
		{ServiceName: "Painting", Price: 150, Date: "2001-01-01", TimeSlot: "10:00-12:00"},
	}

	results, err := agg.Checkout(context.Background(), 1, testSnapshot(), items)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if results[0].Error == "" {
		t.Fatalf("expected past-date rejection")
	}
}

func TestCheckout_SnapshotSurvivesProfileEdit(t *testing.T) {
	agg, repo, db := newTestAggregator(t)
	ctx := context.Background()

	email := "asha@example.com"
	u := userModel.User{
		Uuid:      "u-1",
		Username:  "asha",
		LegalName: "Asha Rao",
		Phone:     "5550001111",
		Email:     &email,
		Address:   "12 Lake View Road",
		Pincode:   "560001",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	items := []bookingTypes.CartItemRequest{
		{ServiceName: "AC Service", Price: 50, Date: "2030-05-10", TimeSlot: "10:00-12:00"},
	}
	results, err := agg.Checkout(ctx, u.ID, testSnapshot(), items)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// Customer moves; the historical booking keeps the old address.
	if err := db.Model(&u).Updates(map[string]interface{}{
		"address": "99 Hilltop Avenue",
		"pincode": "110001",
	}).Error; err != nil {
		t.Fatalf("profile edit failed: %v", err)
	}

	b, err := repo.GetByID(ctx, results[0].BookingID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if b.Address != "12 Lake View Road" || b.Pincode != "560001" {
		t.Fatalf("profile edit leaked into historical booking: %+v", b)
	}
}

func TestAmend_OnlyWhileOpenAndOwned(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	items := []bookingTypes.CartItemRequest{
		{ServiceName: "Plumbing Repair", Price: 60, Date: "2030-05-10", TimeSlot: "10:00-12:00"},
	}
	results, err := agg.Checkout(ctx, 1, testSnapshot(), items)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	bookingID := results[0].BookingID

	updated, err := agg.Amend(ctx, bookingID, 1, bookingTypes.AmendContactRequest{Phone: "5559998888"})
	if err != nil {
		t.Fatalf("amend failed: %v", err)
	}
	if updated.UserPhone != "5559998888" {
		t.Fatalf("phone not amended: %q", updated.UserPhone)
	}
	if updated.ServiceName != "Plumbing Repair" || updated.Price != 60 {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	// Not the owner.
	if _, err := agg.Amend(ctx, bookingID, 2, bookingTypes.AmendContactRequest{Phone: "1"}); !errors.Is(err, assignment.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// After assignment no amendment is allowed.
	engine := assignment.NewEngine(repo)
	if _, err := engine.Claim(ctx, bookingID, assignment.Provider{ID: 7, Name: "Ravi", Contact: "x"}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := agg.Amend(ctx, bookingID, 1, bookingTypes.AmendContactRequest{Phone: "2"}); !errors.Is(err, assignment.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after assignment, got %v", err)
	}
}
