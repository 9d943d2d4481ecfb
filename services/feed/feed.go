package feed

import (
	"context"

	bookingModel "home-booking/models/booking"
	"home-booking/repository"
)

// Service computes the per-provider view of claimable bookings. It is a pure
// read-side projection: every call re-evaluates from current store state, so
// a provider never sees stale assignment or ignore data.
type Service struct {
	repo repository.BookingRepository
}

func NewService(repo repository.BookingRepository) *Service {
	return &Service{repo: repo}
}

// ForProvider returns the open bookings visible to the provider: unassigned,
// not completed, and not ignored by them. Order is requested date ascending,
// ties broken by creation time ascending.
func (s *Service) ForProvider(ctx context.Context, providerID uint, f repository.FeedFilter) ([]bookingModel.Booking, error) {
	open, err := s.repo.ListOpen(ctx, f)
	if err != nil {
		return nil, err
	}

	// The ignored set lives in a JSON column, so membership is checked here
	// rather than in SQL. Keeps the scan portable across postgres and the
	// sqlite test driver.
	visible := make([]bookingModel.Booking, 0, len(open))
	for _, b := range open {
		if b.IgnoredBy(providerID) {
			continue
		}
		visible = append(visible, b)
	}
	return visible, nil
}
