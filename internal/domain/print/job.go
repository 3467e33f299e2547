package print

import (
	"time"

	"github.com/teamseason/backend/internal/domain/shared"
)

// Stage is a fulfillment pipeline stage
type Stage string

const (
	StageReceived       Stage = "RECEIVED"
	StageFetching       Stage = "FETCHING"
	StageRendering      Stage = "RENDERING"
	StageUploading      Stage = "UPLOADING"
	StageSubmitting     Stage = "SUBMITTING"
	StageSubmitted      Stage = "SUBMITTED"
	StageArtifactsReady Stage = "ARTIFACTS_READY"
	StageFailed         Stage = "FAILED"
)

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether the pipeline has finished in this stage.
// ARTIFACTS_READY is the valid terminal outcome of a deployment without
// a print vendor configured: the rendered PDFs stay fetchable at their
// URLs but no vendor order exists. FAILED is terminal only for the run
// that produced it; a redelivered payment event restarts the job via
// Retry.
func (s Stage) IsTerminal() bool {
	switch s {
	case StageSubmitted, StageArtifactsReady, StageFailed:
		return true
	}
	return false
}

// stageOrder fixes the forward progression of the pipeline
var stageOrder = map[Stage]int{
	StageReceived:       0,
	StageFetching:       1,
	StageRendering:      2,
	StageUploading:      3,
	StageSubmitting:     4,
	StageSubmitted:      5,
	StageArtifactsReady: 5,
}

// CanTransitionTo reports whether the stage may advance to next.
// Stages only move forward one step at a time; FAILED is reachable
// from any non-terminal stage.
func (s Stage) CanTransitionTo(next Stage) bool {
	if next == StageFailed {
		return !s.IsTerminal()
	}
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// ShippingAddress is the destination for the printed book
type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// Job is one fulfillment run, created per successfully completed
// payment. ExternalID is the idempotency key presented to the vendor:
// it is derived deterministically from the payment session, so a
// redelivered payment webhook produces the same key and cannot create
// a second vendor order.
type Job struct {
	ExternalID  string
	SessionID   string
	BookDataURL string
	Shipping    ShippingAddress
	Stage       Stage

	PageCount     int
	InteriorURL   string
	CoverURL      string
	VendorOrderID string
	ContactEmail  string
	ErrorMessage  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a fulfillment job for a payment session
func NewJob(sessionID, bookDataURL string, shipping ShippingAddress) (*Job, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Payment session ID cannot be empty")
	}
	if bookDataURL == "" {
		return nil, shared.NewDomainError("MISSING_BOOK_DATA", "Book data URL cannot be empty")
	}

	now := time.Now()
	return &Job{
		ExternalID:  ExternalID(sessionID),
		SessionID:   sessionID,
		BookDataURL: bookDataURL,
		Shipping:    shipping,
		Stage:       StageReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ExternalID derives the vendor idempotency key from a payment session
// identifier. It must be a pure function of the session: two deliveries
// of the same payment event have to map to the same key.
func ExternalID(sessionID string) string {
	tail := sessionID
	if len(tail) > 12 {
		tail = tail[len(tail)-12:]
	}
	return "ts_" + tail
}

// Advance moves the job to the next pipeline stage
func (j *Job) Advance(next Stage) error {
	if !j.Stage.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot advance from "+j.Stage.String()+" to "+next.String())
	}
	j.Stage = next
	j.UpdatedAt = time.Now()
	return nil
}

// Retry resets a failed job so the pipeline can run again. Only FAILED
// jobs restart: transient failures depend on the payment processor
// redelivering the webhook, and that redelivery has to find a job it is
// allowed to pick back up. The external id survives the reset, so a
// retried submission cannot create a second vendor order.
func (j *Job) Retry() error {
	if j.Stage != StageFailed {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot retry a job in stage "+j.Stage.String())
	}
	j.Stage = StageReceived
	j.ErrorMessage = ""
	j.UpdatedAt = time.Now()
	return nil
}

// Fail marks the job as failed with an error message
func (j *Job) Fail(message string) error {
	if j.Stage.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job in terminal stage "+j.Stage.String())
	}
	j.Stage = StageFailed
	j.ErrorMessage = message
	j.UpdatedAt = time.Now()
	return nil
}

// SetArtifacts records the uploaded PDF URLs
func (j *Job) SetArtifacts(interiorURL, coverURL string) {
	j.InteriorURL = interiorURL
	j.CoverURL = coverURL
	j.UpdatedAt = time.Now()
}

// SetVendorOrder records the vendor's order identifier after acceptance
func (j *Job) SetVendorOrder(vendorOrderID string) {
	j.VendorOrderID = vendorOrderID
	j.UpdatedAt = time.Now()
}
