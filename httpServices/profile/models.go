package profile

// SnapshotResponse is the profile service's answer to a snapshot request.
type SnapshotResponse struct {
	Status string `json:"status"`
	Data   struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Pincode string `json:"pincode"`
	} `json:"data"`
}
