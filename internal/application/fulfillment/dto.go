package fulfillment

import (
	"github.com/teamseason/backend/internal/domain/print"
)

// PaymentEvent is a completed payment handed to the orchestrator.
// SessionID is the payment session identifier; the vendor idempotency
// key is derived from it, so redeliveries of the same event converge
// on one job.
type PaymentEvent struct {
	SessionID     string
	BookDataURL   string
	CustomerEmail string
	Shipping      print.ShippingAddress
}

// JobResponse reports the state of one fulfillment job
type JobResponse struct {
	ExternalID    string `json:"externalId"`
	Stage         string `json:"stage"`
	PageCount     int    `json:"pageCount,omitempty"`
	InteriorURL   string `json:"interiorUrl,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
	VendorOrderID string `json:"vendorOrderId,omitempty"`
	ErrorMessage  string `json:"error,omitempty"`

	// Filled from the latest vendor status callback, when one arrived
	VendorStatus   string `json:"vendorStatus,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
}

func toJobResponse(job *print.Job) *JobResponse {
	return &JobResponse{
		ExternalID:    job.ExternalID,
		Stage:         job.Stage.String(),
		PageCount:     job.PageCount,
		InteriorURL:   job.InteriorURL,
		CoverURL:      job.CoverURL,
		VendorOrderID: job.VendorOrderID,
		ErrorMessage:  job.ErrorMessage,
	}
}

// OrderStatusResponse is the normalized order status served to clients.
// Status uses the internal vocabulary; VendorStatus carries the raw
// vendor value for debugging.
type OrderStatusResponse struct {
	OrderID           string `json:"orderId"`
	ExternalID        string `json:"externalId"`
	Status            string `json:"status"`
	VendorStatus      string `json:"vendorStatus,omitempty"`
	TrackingNumber    string `json:"trackingNumber,omitempty"`
	TrackingURL       string `json:"trackingUrl,omitempty"`
	EstimatedShipDate string `json:"estimatedShipDate,omitempty"`
}

// VendorNotification is a status callback pushed by the print vendor
type VendorNotification struct {
	VendorOrderID string
	ExternalID    string
	VendorStatus  string
	TrackingID    string
	TrackingURL   string
	ContactEmail  string
}

// ShippingEstimateRequest asks for a cost estimate before checkout
type ShippingEstimateRequest struct {
	PageCount int    `json:"pageCount"`
	Quantity  int    `json:"quantity"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

// ShippingEstimateResponse is the vendor's cost estimate
type ShippingEstimateResponse struct {
	TotalCost    string `json:"totalCost"`
	ShippingCost string `json:"shippingCost"`
	Tax          string `json:"tax"`
	Currency     string `json:"currency"`
}
