package fulfillment

import (
	"context"

	"github.com/teamseason/backend/internal/domain/print"
	"github.com/teamseason/backend/internal/infrastructure/printvendor"
)

// ArtifactStore persists rendered PDFs and stored book data snapshots
type ArtifactStore interface {
	// Store writes an object and returns a fetchable URL for it
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// StoreBookData serializes a book data payload and returns its URL
	StoreBookData(ctx context.Context, key string, data any) (string, error)
	// FetchBookData retrieves a stored payload by the URL Store returned
	FetchBookData(ctx context.Context, dataURL string, out any) error
}

// PrintVendor submits and tracks orders with the print-on-demand vendor
type PrintVendor interface {
	SubmitOrder(ctx context.Context, req printvendor.SubmitOrderRequest) (*printvendor.VendorOrder, error)
	GetOrderStatus(ctx context.Context, vendorOrderID string) (*printvendor.VendorOrder, error)
	EstimateShipping(ctx context.Context, req printvendor.ShippingEstimateRequest) (*printvendor.ShippingEstimate, error)
}

// JobStore persists fulfillment job records
type JobStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*print.Job, error)
	FindBySessionID(ctx context.Context, sessionID string) (*print.Job, error)
	FindByVendorOrderID(ctx context.Context, vendorOrderID string) (*print.Job, error)
	// Create inserts a new job, returning shared.ErrAlreadyExists when
	// a record with the same external id is already present
	Create(ctx context.Context, job *print.Job) error
	Save(ctx context.Context, job *print.Job) error
	RecordVendorEvent(ctx context.Context, event print.VendorEvent) error
	VendorEvents(ctx context.Context, externalID string) ([]print.VendorEvent, error)
}
