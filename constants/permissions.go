package constants

// Marketplace permissions
const (
	// Admin permissions
	PermAdminFull   = "home-booking.admin.full-permit"
	PermSupportFull = "home-booking.support.full-permit"

	// Actor permissions
	PermCustomerFull = "home-booking.customer.full-permit"
	PermProviderFull = "home-booking.provider.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	AdminPermissions = []string{
		PermAdminFull,
		PermSupportFull,
	}
)
