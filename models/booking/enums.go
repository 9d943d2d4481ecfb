package booking

// BookingStatus is the assignment lifecycle state of a booking.
type BookingStatus string

const (
	// BookingStatusOpen means no provider holds the booking.
	BookingStatusOpen BookingStatus = "open"
	// BookingStatusAssigned means exactly one provider holds the booking.
	BookingStatusAssigned BookingStatus = "assigned"
	// BookingStatusCompleted is terminal; a completed booking never returns
	// to any provider's feed.
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus tracks payment independently of assignment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Helper methods for BookingStatus
func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusOpen, BookingStatusAssigned, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further assignment transitions are legal.
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusCompleted
}

func (ps PaymentStatus) String() string {
	return string(ps)
}

func (ps PaymentStatus) IsValid() bool {
	return ps == PaymentStatusPending || ps == PaymentStatusPaid
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusOpen,
		BookingStatusAssigned,
		BookingStatusCompleted,
	}
}
