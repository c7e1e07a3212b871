package dto

// CreateDonationRequest represents the API request for opening a donation.
// Amount is in minor currency units. Currency and message are optional;
// missing-field and minimum-amount checks belong to the domain validator,
// so no binding:"required" tags here.
type CreateDonationRequest struct {
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency,omitempty"`
	Message    string `json:"message,omitempty"`
}

// CreateDonationResponse carries the redirect URL and the impact figure
type CreateDonationResponse struct {
	URL           string `json:"url"`
	DonationID    string `json:"donation_id"`
	LivesImpacted int64  `json:"lives_impacted"`
}

// DonationResponse represents a single ledger record in API responses
type DonationResponse struct {
	ID            string `json:"id"`
	DonorName     string `json:"donorName"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	LivesImpacted int64  `json:"livesImpacted"`
	Message       string `json:"message,omitempty"`
	CreatedAt     string `json:"createdAt"`
	SettledAt     string `json:"settledAt,omitempty"`
}

// DonationListResponse wraps the reporting read surface
type DonationListResponse struct {
	Donations []DonationResponse `json:"donations"`
	Count     int                `json:"count"`
}

// WebhookEvent is the async payment notification envelope
type WebhookEvent struct {
	Type string `json:"type" binding:"required"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}
