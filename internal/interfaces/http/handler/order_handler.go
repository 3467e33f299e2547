package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/application/fulfillment"
	"github.com/teamseason/backend/internal/domain/shared"
	"github.com/teamseason/backend/internal/infrastructure/printvendor"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

// OrderStatusService reads order and job state for clients
type OrderStatusService interface {
	OrderStatus(ctx context.Context, vendorOrderID string) (*fulfillment.OrderStatusResponse, error)
	JobStatus(ctx context.Context, sessionID string) (*fulfillment.JobResponse, error)
	EstimateShipping(ctx context.Context, req fulfillment.ShippingEstimateRequest) (*fulfillment.ShippingEstimateResponse, error)
}

// OrderHandler serves order status and shipping estimates
type OrderHandler struct {
	BaseHandler
	service OrderStatusService
	logger  *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service OrderStatusService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:id", h.GetOrderStatus)
	rg.GET("/jobs/:sessionId", h.GetJobStatus)
	rg.POST("/shipping-estimate", h.EstimateShipping)
}

// GetOrderStatus handles GET /api/v1/orders/:id.
// The id is the vendor print job identifier returned at submission.
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	vendorOrderID := c.Param("id")

	status, err := h.service.OrderStatus(c.Request.Context(), vendorOrderID)
	if err != nil {
		h.orderError(c, vendorOrderID, err)
		return
	}

	h.Success(c, status)
}

// GetJobStatus handles GET /api/v1/jobs/:sessionId.
// The sessionId is the checkout session the order was paid through.
func (h *OrderHandler) GetJobStatus(c *gin.Context) {
	sessionID := c.Param("sessionId")

	job, err := h.service.JobStatus(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "No fulfillment job for this session")
			return
		}
		h.logger.Error("failed to load job status", zap.String("session_id", sessionID), zap.Error(err))
		h.InternalError(c, "Failed to load job status")
		return
	}

	h.Success(c, job)
}

// EstimateShipping handles POST /api/v1/shipping-estimate
func (h *OrderHandler) EstimateShipping(c *gin.Context) {
	var req fulfillment.ShippingEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	estimate, err := h.service.EstimateShipping(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrNotConfigured) {
			h.ServiceUnavailable(c, "Print vendor is not configured")
			return
		}
		h.logger.Error("failed to estimate shipping", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "Failed to estimate shipping cost")
		return
	}

	h.Success(c, estimate)
}

func (h *OrderHandler) orderError(c *gin.Context, vendorOrderID string, err error) {
	if errors.Is(err, shared.ErrNotConfigured) {
		h.ServiceUnavailable(c, "Print vendor is not configured")
		return
	}

	var vendorErr *printvendor.VendorError
	if errors.As(err, &vendorErr) && vendorErr.StatusCode == 404 {
		h.NotFound(c, "Order not found")
		return
	}

	h.logger.Error("failed to fetch order status",
		zap.String("vendor_order_id", vendorOrderID),
		zap.Error(err))
	h.ErrorWithCode(c, dto.ErrCodeUpstream, "Failed to fetch order status")
}
