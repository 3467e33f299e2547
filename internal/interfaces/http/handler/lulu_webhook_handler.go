package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/application/fulfillment"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

// VendorNotifier records print vendor status callbacks
type VendorNotifier interface {
	HandleVendorNotification(ctx context.Context, notification fulfillment.VendorNotification) error
}

// LuluWebhookHandler receives print job status callbacks from Lulu
type LuluWebhookHandler struct {
	BaseHandler
	notifier VendorNotifier
	logger   *zap.Logger
}

// NewLuluWebhookHandler creates a new Lulu webhook handler
func NewLuluWebhookHandler(notifier VendorNotifier, logger *zap.Logger) *LuluWebhookHandler {
	return &LuluWebhookHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterRoutes registers Lulu webhook routes
func (h *LuluWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/lulu", h.HandleWebhook)
}

// luluStatusField accepts both the object form {"name": "SHIPPED"} and a
// bare string, since Lulu uses both across webhook topics.
type luluStatusField struct {
	Name string
}

func (s *luluStatusField) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Name = str
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	return nil
}

type luluWebhookPrintJob struct {
	ID           json.Number     `json:"id"`
	ExternalID   string          `json:"external_id"`
	Status       luluStatusField `json:"status"`
	ContactEmail string          `json:"contact_email"`
	LineItems    []struct {
		ExternalID string `json:"external_id"`
		Tracking   *struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"tracking"`
	} `json:"line_items"`
}

type luluWebhookPayload struct {
	// Topic webhooks wrap the job in a data envelope; direct callbacks
	// put the fields at the top level.
	Data     *luluWebhookPrintJob `json:"data"`
	PrintJob *luluWebhookPrintJob `json:"print_job"`
	luluWebhookPrintJob
}

func (p *luluWebhookPayload) job() *luluWebhookPrintJob {
	if p.Data != nil {
		return p.Data
	}
	if p.PrintJob != nil {
		return p.PrintJob
	}
	return &p.luluWebhookPrintJob
}

// HandleWebhook handles POST /api/v1/webhooks/lulu
func (h *LuluWebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(body) > maxWebhookPayloadSize {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodePayloadTooLarge), dto.ErrCodePayloadTooLarge, "Webhook payload exceeds maximum allowed size")
		return
	}

	var payload luluWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidJSON, "Webhook payload is not valid JSON")
		return
	}

	printJob := payload.job()
	externalID := printJob.ExternalID
	if externalID == "" && len(printJob.LineItems) > 0 {
		externalID = printJob.LineItems[0].ExternalID
	}

	notification := fulfillment.VendorNotification{
		VendorOrderID: printJob.ID.String(),
		ExternalID:    externalID,
		VendorStatus:  printJob.Status.Name,
		ContactEmail:  printJob.ContactEmail,
	}
	if len(printJob.LineItems) > 0 && printJob.LineItems[0].Tracking != nil {
		tracking := printJob.LineItems[0].Tracking
		notification.TrackingID = tracking.ID
		notification.TrackingURL = tracking.URL
		if notification.TrackingURL == "" && tracking.ID != "" {
			notification.TrackingURL = "https://track.aftership.com/" + tracking.ID
		}
	}

	h.logger.Info("lulu webhook received",
		zap.String("vendor_order_id", notification.VendorOrderID),
		zap.String("external_id", notification.ExternalID),
		zap.String("vendor_status", notification.VendorStatus),
		zap.String("tracking_id", notification.TrackingID))

	if err := h.notifier.HandleVendorNotification(c.Request.Context(), notification); err != nil {
		h.logger.Error("failed to record vendor notification", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	h.Success(c, dto.AckResponse{Received: true})
}
