package payment

import (
	"github.com/teamseason/backend/internal/domain/print"
)

// CreateCheckoutInput describes a new checkout session for one book order
type CreateCheckoutInput struct {
	// BookDataURL points at the stored season journal snapshot the
	// order will be printed from
	BookDataURL string
	Shipping    print.ShippingAddress
}

// CreateCheckoutOutput is the hosted checkout page the buyer is sent to
type CreateCheckoutOutput struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutCompleted carries the fulfillment data extracted from a
// completed checkout session
type CheckoutCompleted struct {
	SessionID     string
	BookDataURL   string
	CustomerEmail string
	Shipping      print.ShippingAddress
}
