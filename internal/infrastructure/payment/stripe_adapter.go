package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/domain/print"
)

// Metadata keys carried on the checkout session. The completed-session
// webhook is the only channel that brings the order back to us, so the
// session has to carry everything fulfillment needs.
const (
	metaBookDataURL    = "bookDataUrl"
	metaShippingName   = "shipping_name"
	metaShippingEmail  = "shipping_email"
	metaShippingStreet = "shipping_street"
	metaShippingCity   = "shipping_city"
	metaShippingState  = "shipping_state"
	metaShippingZip    = "shipping_zip"
)

// StripeAdapter implements Stripe Checkout operations for book orders
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// CreateCheckoutSession creates a hosted checkout session for a single
// book order with a flat shipping rate
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, input CreateCheckoutInput) (*CreateCheckoutOutput, error) {
	a.logger.Debug("Creating Stripe checkout session",
		zap.String("book_data_url", input.BookDataURL),
		zap.String("email", input.Shipping.Email))

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Team Season Photo Book"),
						Description: stripe.String(`7.75" square hardcover, full color, shipped to your door`),
					},
					UnitAmount: stripe.Int64(a.config.BookPriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(a.config.ShippingPriceCents),
						Currency: stripe.String("usd"),
					},
					DisplayName: stripe.String("Standard Shipping"),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(5),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(10),
						},
					},
				},
			},
		},
		Metadata: map[string]string{
			metaBookDataURL:    input.BookDataURL,
			metaShippingName:   input.Shipping.Name,
			metaShippingEmail:  input.Shipping.Email,
			metaShippingStreet: input.Shipping.Street,
			metaShippingCity:   input.Shipping.City,
			metaShippingState:  input.Shipping.State,
			metaShippingZip:    input.Shipping.Zip,
		},
		CustomerEmail: stripe.String(input.Shipping.Email),
		SuccessURL:    stripe.String(a.config.SuccessURL),
		CancelURL:     stripe.String(a.config.CancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("email", input.Shipping.Email),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("session_id", sess.ID))

	return &CreateCheckoutOutput{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// VerifyWebhook verifies the signature on a raw webhook payload and
// returns the decoded event. API version mismatches are tolerated;
// Stripe sends events pinned to the account's API version, not the
// SDK's.
func (a *StripeAdapter) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, a.config.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		a.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		return stripe.Event{}, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}
	return event, nil
}

// ExtractCheckoutCompleted pulls the order fulfillment data out of a
// checkout.session.completed event. Returns (nil, nil) for other event
// types so callers can acknowledge and skip them.
func (a *StripeAdapter) ExtractCheckoutCompleted(event stripe.Event) (*CheckoutCompleted, error) {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: failed to decode checkout session: %w", err)
	}

	meta := sess.Metadata
	if meta[metaBookDataURL] == "" {
		a.logger.Error("Checkout session completed without book data URL",
			zap.String("session_id", sess.ID))
		return nil, fmt.Errorf("stripe: session %s has no book data URL in metadata", sess.ID)
	}

	email := meta[metaShippingEmail]
	if email == "" {
		email = sess.CustomerEmail
	}

	return &CheckoutCompleted{
		SessionID:     sess.ID,
		BookDataURL:   meta[metaBookDataURL],
		CustomerEmail: email,
		Shipping: print.ShippingAddress{
			Name:   meta[metaShippingName],
			Email:  email,
			Street: meta[metaShippingStreet],
			City:   meta[metaShippingCity],
			State:  meta[metaShippingState],
			Zip:    meta[metaShippingZip],
		},
	}, nil
}
