package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"home-booking/types"
)

// Client fetches customer contact snapshots from the external profile
// service at checkout time. The snapshot is frozen into the booking row, so
// later profile edits never change historical bookings.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// FetchSnapshot returns the customer's current contact data.
func (c *Client) FetchSnapshot(userUUID string) (*types.CustomerSnapshot, error) {
	httpReq, err := http.NewRequest("GET", fmt.Sprintf("%s/profile/%s/", c.baseURL, userUUID), nil)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("profile API returned non-OK status: " + resp.Status)
	}

	var apiResp SnapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	return &types.CustomerSnapshot{
		Name:    apiResp.Data.Name,
		Email:   apiResp.Data.Email,
		Phone:   apiResp.Data.Phone,
		Address: apiResp.Data.Address,
		Pincode: apiResp.Data.Pincode,
	}, nil
}
