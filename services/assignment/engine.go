package assignment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	bookingModel "home-booking/models/booking"
	"home-booking/repository"
)

// Distinguishable outcomes of assignment operations. Controllers map these
// to HTTP statuses; none of them is swallowed.
var (
	ErrNotFound        = errors.New("booking not found")
	ErrAlreadyAssigned = errors.New("booking is already assigned to another provider")
	ErrNotAssigned     = errors.New("booking is not assigned")
	ErrForbidden       = errors.New("actor is not allowed to perform this transition")
	ErrInvalidState    = errors.New("operation is not legal from the current booking state")
	ErrConflict        = errors.New("booking update conflicted; retries exhausted")
)

// Retry bound for transient store-level conflicts. Losing a genuine claim
// race is not retried; the caller gets ErrAlreadyAssigned.
const maxRetries = 3

// Provider identifies the claiming provider; name and contact are written
// into the booking together with the id.
type Provider struct {
	ID      uint
	Name    string
	Contact string
}

// Actor is the authenticated caller of release/complete.
type Actor struct {
	ID    uint
	Admin bool
}

// Engine governs claim, ignore, release and completion transitions with an
// exactly-once claim guarantee under concurrent provider actions.
type Engine struct {
	repo repository.BookingRepository
}

func NewEngine(repo repository.BookingRepository) *Engine {
	return &Engine{repo: repo}
}

// Claim assigns an open booking to the provider. Under concurrent claims of
// the same booking exactly one succeeds; every loser gets ErrAlreadyAssigned.
// Claiming removes the provider from the ignored set, since a provider can
// never both hold and ignore a booking.
func (e *Engine) Claim(ctx context.Context, bookingID string, p Provider) (*bookingModel.Booking, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := e.repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if b.Status == bookingModel.BookingStatusCompleted {
			return nil, ErrInvalidState
		}
		if b.IsAssigned() {
			return nil, ErrAlreadyAssigned
		}

		name := p.Name
		contact := p.Contact
		updates := map[string]interface{}{
			"status":                   bookingModel.BookingStatusAssigned,
			"service_provider_id":      p.ID,
			"service_provider_name":    &name,
			"service_provider_contact": &contact,
			"ignored_providers":        b.IgnoredProviders.Without(p.ID),
		}

		err = e.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventClaimed, actorID(p.ID))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue // re-read; another writer may or may not have claimed
		}
		if err != nil {
			return nil, err
		}
		return e.repo.GetByID(ctx, bookingID)
	}
	return nil, fmt.Errorf("claim booking %s: %w", bookingID, ErrConflict)
}

// Ignore hides the booking from the provider's own feed. The current holder
// cannot ignore their own claim; they must release first.
func (e *Engine) Ignore(ctx context.Context, bookingID string, providerID uint) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := e.repo.GetByID(ctx, bookingID)
		if err != nil {
			return mapNotFound(err)
		}
		if b.AssignedTo(providerID) {
			return ErrInvalidState
		}
		if b.IgnoredBy(providerID) {
			return nil // idempotent
		}

		updates := map[string]interface{}{
			"ignored_providers": b.IgnoredProviders.With(providerID),
		}
		err = e.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventIgnored, actorID(providerID))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		return err
	}
	return fmt.Errorf("ignore booking %s: %w", bookingID, ErrConflict)
}

// Unignore puts the booking back into the provider's feed.
func (e *Engine) Unignore(ctx context.Context, bookingID string, providerID uint) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := e.repo.GetByID(ctx, bookingID)
		if err != nil {
			return mapNotFound(err)
		}
		if !b.IgnoredBy(providerID) {
			return nil // idempotent
		}

		updates := map[string]interface{}{
			"ignored_providers": b.IgnoredProviders.Without(providerID),
		}
		err = e.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventUnignored, actorID(providerID))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		return err
	}
	return fmt.Errorf("unignore booking %s: %w", bookingID, ErrConflict)
}

// Release returns an assigned booking to the open state. Only the current
// holder or an admin may release. The releasing provider is not added to the
// ignored set; the booking reappears in their feed unless they ignore it.
func (e *Engine) Release(ctx context.Context, bookingID string, actor Actor) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := e.repo.GetByID(ctx, bookingID)
		if err != nil {
			return mapNotFound(err)
		}
		if b.Status == bookingModel.BookingStatusCompleted {
			return ErrInvalidState
		}
		if !b.IsAssigned() {
			return ErrNotAssigned
		}
		if !actor.Admin && !b.AssignedTo(actor.ID) {
			return ErrForbidden
		}

		updates := map[string]interface{}{
			"status":                   bookingModel.BookingStatusOpen,
			"service_provider_id":      nil,
			"service_provider_name":    nil,
			"service_provider_contact": nil,
		}
		err = e.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventReleased, actorID(actor.ID))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		return err
	}
	return fmt.Errorf("release booking %s: %w", bookingID, ErrConflict)
}

// Complete moves an assigned booking into the terminal completed state.
// Only the current holder or an admin may complete. Completed bookings never
// reappear in any feed.
func (e *Engine) Complete(ctx context.Context, bookingID string, actor Actor) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := e.repo.GetByID(ctx, bookingID)
		if err != nil {
			return mapNotFound(err)
		}
		if b.Status == bookingModel.BookingStatusCompleted {
			return ErrInvalidState
		}
		if !b.IsAssigned() {
			return ErrNotAssigned
		}
		if !actor.Admin && !b.AssignedTo(actor.ID) {
			return ErrForbidden
		}

		updates := map[string]interface{}{
			"status": bookingModel.BookingStatusCompleted,
		}
		err = e.repo.UpdateGuarded(ctx, b.ID, b.Version, updates,
			bookingModel.EventCompleted, actorID(actor.ID))
		if errors.Is(err, repository.ErrStaleWrite) {
			continue
		}
		return err
	}
	return fmt.Errorf("complete booking %s: %w", bookingID, ErrConflict)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func actorID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
