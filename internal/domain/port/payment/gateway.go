package payment

import "context"

// Metadata keys carried on every checkout session. Reconciliation and
// reporting read these back from the processor.
const (
	MetadataDonationID    = "donation_id"
	MetadataDonorName     = "donor_name"
	MetadataLivesImpacted = "lives_impacted"
)

// Customer is an existing payment-processor customer
type Customer struct {
	ID    string
	Email string
}

// CheckoutSession is a processor-hosted payment page scoped to one donation
type CheckoutSession struct {
	ID            string
	URL           string // donor-facing redirect target
	PaymentStatus string
	Metadata      map[string]string
}

// SessionParams describes the checkout session to create. Exactly one of
// CustomerID or CustomerEmail is used: the found customer when the lookup
// matched, otherwise the raw email for the processor to create one.
type SessionParams struct {
	Amount        int64
	Currency      string
	Description   string // shown on the hosted page, includes the impact figure
	CustomerID    string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Gateway wraps the external payment processor's customer and
// checkout-session primitives. Implementations are stateless.
type Gateway interface {
	// FindCustomerByEmail looks up an existing customer, never creates one.
	// Returns nil with no error when there is no match. When the processor
	// reports more than one match the first is used.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// CreateCheckoutSession opens a hosted checkout session. Any non-success
	// response from the processor surfaces as a GatewayError.
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error)

	// GetCheckoutSession retrieves a session by id, including its metadata.
	// Used by reconciliation to recover the ledger link.
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}
