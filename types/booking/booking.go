package booking

import (
	"fmt"
)

// CartItemRequest is one line item of a checkout.
type CartItemRequest struct {
	ServiceName string  `json:"service_name" validate:"required,min=1,max=255"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Date        string  `json:"date" validate:"required"` // YYYY-MM-DD
	TimeSlot    string  `json:"time_slot" validate:"required,min=1,max=50"`
	Remark      string  `json:"remark" validate:"omitempty"`
}

// CheckoutRequest converts a customer's cart into booking records.
type CheckoutRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1"`

	// Optional inline snapshot; used when the profile service is not
	// reachable or the caller already holds fresh contact data.
	Name    string `json:"name" validate:"omitempty,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty"`
	Pincode string `json:"pincode" validate:"omitempty,max=10"`
}

// CheckoutItemResult is the per-item outcome of a checkout. A failed item
// does not roll back its siblings.
type CheckoutItemResult struct {
	ServiceName string `json:"service_name"`
	BookingID   string `json:"booking_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AmendContactRequest updates correction fields on an open, unassigned
// booking. Service name, price, date and time slot are immutable.
type AmendContactRequest struct {
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty"`
	Pincode string `json:"pincode" validate:"omitempty,max=10"`
	Remark  string `json:"remark" validate:"omitempty"`
}

// ClaimRequest identifies the booking a provider wants to take.
type ClaimRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

// use first step validation
func (r CheckoutRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("cart is empty")
	}
	for i, item := range r.Items {
		if item.ServiceName == "" {
			return fmt.Errorf("item %d: service name is required", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("item %d: price must not be negative", i)
		}
		if item.Date == "" {
			return fmt.Errorf("item %d: date is required", i)
		}
		if item.TimeSlot == "" {
			return fmt.Errorf("item %d: time slot is required", i)
		}
	}
	return nil
}

func (r ClaimRequest) Validate() error {
	if r.BookingID == "" {
		return fmt.Errorf("booking id is required")
	}
	return nil
}

func (r AmendContactRequest) Validate() error {
	if r.Phone == "" && r.Address == "" && r.Pincode == "" && r.Remark == "" {
		return fmt.Errorf("nothing to amend")
	}
	return nil
}
