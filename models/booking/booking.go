package booking

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"home-booking/models/user"
)

// Booking represents one customer's request for a service at a date/time.
// Customer contact fields are a snapshot taken at checkout; later profile
// edits must not change historical bookings.
type Booking struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	// Foreign key for users relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	UserName  string `gorm:"type:varchar(255);not null" json:"user_name"`
	UserEmail string `gorm:"type:varchar(255);not null" json:"user_email"`
	UserPhone string `gorm:"type:varchar(20);not null" json:"user_phone"`
	Address   string `gorm:"type:text;not null" json:"address"`
	Pincode   string `gorm:"type:varchar(10);not null" json:"pincode"`

	ServiceName string    `gorm:"type:varchar(255);not null" json:"service_name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Remark      *string   `gorm:"type:text" json:"remark,omitempty"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	TimeSlot    string    `gorm:"type:varchar(50);not null" json:"time_slot"`

	Status        BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`

	// Assignment fields are all set or all empty, never partially populated.
	ServiceProviderID      *uint   `gorm:"index" json:"service_provider_id,omitempty"`
	ServiceProviderName    *string `gorm:"type:varchar(255)" json:"service_provider_name,omitempty"`
	ServiceProviderContact *string `gorm:"type:varchar(255)" json:"service_provider_contact,omitempty"`

	// Providers who removed this booking from their own feed. The assigned
	// provider must never appear here.
	IgnoredProviders UintSlice `gorm:"type:json" json:"ignored_providers"`

	// Guard column for conditional updates. Every mutation must carry the
	// version it read; a mismatch means another writer got there first.
	Version int64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsAssigned reports whether a provider currently holds this booking.
func (b *Booking) IsAssigned() bool {
	return b.ServiceProviderID != nil
}

// AssignedTo reports whether the given provider holds this booking.
func (b *Booking) AssignedTo(providerID uint) bool {
	return b.ServiceProviderID != nil && *b.ServiceProviderID == providerID
}

// IgnoredBy reports whether the given provider has hidden this booking.
func (b *Booking) IgnoredBy(providerID uint) bool {
	return b.IgnoredProviders.Contains(providerID)
}

// UintSlice is a custom type to store a set of provider ids as a JSON column.
type UintSlice []uint

// Contains reports set membership.
func (us UintSlice) Contains(id uint) bool {
	for _, v := range us {
		if v == id {
			return true
		}
	}
	return false
}

// With returns a copy with id added; adding an existing member is a no-op.
func (us UintSlice) With(id uint) UintSlice {
	if us.Contains(id) {
		return us
	}
	out := make(UintSlice, 0, len(us)+1)
	out = append(out, us...)
	return append(out, id)
}

// Without returns a copy with id removed; removing a non-member is a no-op.
func (us UintSlice) Without(id uint) UintSlice {
	if !us.Contains(id) {
		return us
	}
	out := make(UintSlice, 0, len(us))
	for _, v := range us {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Scan implements the Scanner interface for database deserialization
func (us *UintSlice) Scan(value interface{}) error {
	if value == nil {
		*us = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, us)
}

// Value implements the driver Valuer interface for database serialization
func (us UintSlice) Value() (driver.Value, error) {
	if us == nil {
		return json.Marshal(UintSlice{})
	}
	return json.Marshal(us)
}
