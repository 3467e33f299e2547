// Package render produces print-ready PDF documents from the static
// book templates using a headless browser.
package render

import (
	"context"
	"errors"
	"time"

	"github.com/teamseason/backend/internal/domain/book"
	"github.com/teamseason/backend/internal/domain/print"
)

// DocumentType selects which book template is rendered
type DocumentType string

const (
	DocumentInterior DocumentType = "interior"
	DocumentCover    DocumentType = "cover"
)

// IsValid checks if the DocumentType is a valid value
func (d DocumentType) IsValid() bool {
	return d == DocumentInterior || d == DocumentCover
}

// String returns the string representation of DocumentType
func (d DocumentType) String() string {
	return string(d)
}

// TemplatePath returns the template location relative to the base URL
func (d DocumentType) TemplatePath() string {
	return "/book-template/" + string(d) + ".html"
}

// RenderRequest contains the parameters for rendering one document
type RenderRequest struct {
	// Book is the laid-out book injected into the template
	Book *book.Book
	// Document selects the interior or cover template
	Document DocumentType
	// Dimensions is the exact PDF page size in inches, bleed included
	Dimensions print.Dimensions
	// Timeout overrides the renderer's default timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// Renderer converts a laid-out book into a print-ready PDF. A renderer
// is expensive to start and safe for concurrent Render calls, so one
// instance is shared across the interior and cover of a job.
type Renderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeMissingBook     = "MISSING_BOOK"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsTimeout reports whether err is a rendering timeout
func IsTimeout(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == ErrCodeRenderTimeout
}
