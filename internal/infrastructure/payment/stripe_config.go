package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe Checkout integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string

	// SuccessURL is the URL to redirect after successful checkout.
	// Stripe substitutes {CHECKOUT_SESSION_ID} in the URL.
	SuccessURL string

	// CancelURL is the URL to redirect after cancelled checkout
	CancelURL string

	// BookPriceCents is the book price in USD cents
	BookPriceCents int64

	// ShippingPriceCents is the flat shipping rate in USD cents
	ShippingPriceCents int64
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("stripe: configuration is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if c.BookPriceCents <= 0 {
		return fmt.Errorf("stripe: book price must be positive")
	}
	if c.ShippingPriceCents < 0 {
		return fmt.Errorf("stripe: shipping price cannot be negative")
	}
	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
