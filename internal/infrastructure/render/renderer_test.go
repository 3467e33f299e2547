package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamseason/backend/internal/domain/book"
	"github.com/teamseason/backend/internal/domain/print"
)

func TestDocumentType(t *testing.T) {
	assert.True(t, DocumentInterior.IsValid())
	assert.True(t, DocumentCover.IsValid())
	assert.False(t, DocumentType("poster").IsValid())

	assert.Equal(t, "/book-template/interior.html", DocumentInterior.TemplatePath())
	assert.Equal(t, "/book-template/cover.html", DocumentCover.TemplatePath())
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsTimeout(t *testing.T) {
	timeout := NewRenderError(ErrCodeRenderTimeout, "interior render timed out", nil)
	failed := NewRenderError(ErrCodeRenderFailed, "empty pdf", nil)

	assert.True(t, IsTimeout(timeout))
	assert.True(t, IsTimeout(fmt.Errorf("render stage: %w", timeout)))
	assert.False(t, IsTimeout(failed))
	assert.False(t, IsTimeout(errors.New("other")))
}

func TestChromedpRenderer_RequiresBaseURL(t *testing.T) {
	_, err := NewChromedpRenderer(&ChromedpConfig{})
	assert.Error(t, err)

	_, err = NewChromedpRenderer(nil)
	assert.Error(t, err)
}

func TestChromedpRenderer_RequestValidation(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{TemplateBaseURL: "https://teamseason.app"})
	if err != nil {
		t.Skip("chromedp allocator unavailable")
	}
	defer func() { _ = r.Close() }()

	b := book.Build(book.BookData{})
	dims := print.SquareHardcover775.InteriorDimensions()

	tests := []struct {
		name string
		req  *RenderRequest
	}{
		{"nil request", nil},
		{"nil book", &RenderRequest{Document: DocumentInterior, Dimensions: dims}},
		{"invalid document", &RenderRequest{Book: b, Document: DocumentType("flyer"), Dimensions: dims}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(t.Context(), tt.req)
			assert.Error(t, err)
		})
	}
}
