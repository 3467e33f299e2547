package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/domain/print"
	"github.com/teamseason/backend/internal/infrastructure/payment"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

// CheckoutHandler creates payment checkout sessions
type CheckoutHandler struct {
	BaseHandler
	payments *payment.StripeAdapter
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler.
// A nil adapter marks the payment integration as unconfigured.
func NewCheckoutHandler(payments *payment.StripeAdapter, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		payments: payments,
		logger:   logger,
	}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.CreateCheckout)
}

// CheckoutRequest asks for a checkout session for one book order
type CheckoutRequest struct {
	BookDataURL string `json:"bookDataUrl" binding:"required,url"`
	Shipping    struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Street  string `json:"street" binding:"required"`
		City    string `json:"city" binding:"required"`
		State   string `json:"state" binding:"required"`
		Zip     string `json:"zip" binding:"required"`
		Country string `json:"country"`
		Phone   string `json:"phone"`
	} `json:"shipping" binding:"required"`
}

// CreateCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	if h.payments == nil {
		h.ServiceUnavailable(c, "Payments are not configured")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	out, err := h.payments.CreateCheckoutSession(c.Request.Context(), payment.CreateCheckoutInput{
		BookDataURL: req.BookDataURL,
		Shipping: print.ShippingAddress{
			Name:    req.Shipping.Name,
			Email:   req.Shipping.Email,
			Street:  req.Shipping.Street,
			City:    req.Shipping.City,
			State:   req.Shipping.State,
			Zip:     req.Shipping.Zip,
			Country: req.Shipping.Country,
			Phone:   req.Shipping.Phone,
		},
	})
	if err != nil {
		h.logger.Error("failed to create checkout session", zap.Error(err))
		h.InternalError(c, "Failed to create checkout session")
		return
	}

	h.Success(c, out)
}
