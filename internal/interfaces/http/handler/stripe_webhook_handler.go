package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/application/fulfillment"
	"github.com/teamseason/backend/internal/infrastructure/payment"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

// maxWebhookPayloadSize limits webhook payloads; Stripe events are small
const maxWebhookPayloadSize = 65536

// fulfillTimeout bounds one detached fulfillment run. Rendering two PDFs
// and submitting a vendor order fits comfortably inside it.
const fulfillTimeout = 10 * time.Minute

// Fulfiller runs the fulfillment pipeline for a completed payment
type Fulfiller interface {
	Fulfill(ctx context.Context, event fulfillment.PaymentEvent) (*fulfillment.JobResponse, error)
}

// StripeWebhookHandler receives Stripe webhook events
type StripeWebhookHandler struct {
	BaseHandler
	payments  *payment.StripeAdapter
	fulfiller Fulfiller
	logger    *zap.Logger
}

// NewStripeWebhookHandler creates a new Stripe webhook handler.
// A nil adapter marks the payment integration as unconfigured.
func NewStripeWebhookHandler(payments *payment.StripeAdapter, fulfiller Fulfiller, logger *zap.Logger) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		payments:  payments,
		fulfiller: fulfiller,
		logger:    logger,
	}
}

// RegisterRoutes registers Stripe webhook routes
func (h *StripeWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleWebhook)
}

// HandleWebhook handles POST /api/v1/webhooks/stripe.
// The event is acknowledged as soon as the signature verifies; the
// fulfillment pipeline runs detached so Stripe never times out waiting
// on a render.
func (h *StripeWebhookHandler) HandleWebhook(c *gin.Context) {
	if h.payments == nil {
		h.ServiceUnavailable(c, "Payments are not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodePayloadTooLarge), dto.ErrCodePayloadTooLarge, "Webhook payload exceeds maximum allowed size")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidSignature, "Missing Stripe-Signature header")
		return
	}

	event, err := h.payments.VerifyWebhook(payload, signature)
	if err != nil {
		h.logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
		return
	}

	completed, err := h.payments.ExtractCheckoutCompleted(event)
	if err != nil {
		h.logger.Error("stripe webhook event rejected",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if completed == nil {
		// Not a checkout completion; acknowledge and ignore
		h.Success(c, dto.AckResponse{Received: true})
		return
	}

	h.logger.Info("checkout completed, starting fulfillment",
		zap.String("event_id", event.ID),
		zap.String("session_id", completed.SessionID))

	go h.runFulfillment(event.ID, fulfillment.PaymentEvent{
		SessionID:     completed.SessionID,
		BookDataURL:   completed.BookDataURL,
		CustomerEmail: completed.CustomerEmail,
		Shipping:      completed.Shipping,
	})

	h.Success(c, dto.AckResponse{Received: true})
}

func (h *StripeWebhookHandler) runFulfillment(eventID string, event fulfillment.PaymentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), fulfillTimeout)
	defer cancel()

	job, err := h.fulfiller.Fulfill(ctx, event)
	if err != nil {
		h.logger.Error("fulfillment failed",
			zap.String("event_id", eventID),
			zap.String("session_id", event.SessionID),
			zap.Error(err))
		return
	}

	h.logger.Info("fulfillment finished",
		zap.String("event_id", eventID),
		zap.String("external_id", job.ExternalID),
		zap.String("stage", job.Stage))
}
