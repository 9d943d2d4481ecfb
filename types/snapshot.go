package types

// CustomerSnapshot is the customer contact data frozen into a booking at
// checkout time. Supplied by the profile service or the checkout request.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}
