package render

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 20 * time.Second
	defaultSettleDelay   = time.Second
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// TemplateBaseURL is the origin serving the static book templates
	TemplateBaseURL string
	// DefaultTimeout bounds a single document render
	DefaultTimeout time.Duration
	// SettleDelay absorbs asynchronous image decode and layout after
	// fonts have loaded
	SettleDelay time.Duration
	// RemoteURL is the URL of a remote Chrome instance (optional).
	// If empty, chromedp launches a new browser instance.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders the book templates to PDF over the Chrome
// DevTools Protocol. The exec allocator is shared; each Render call
// gets its own browser context, so interior and cover can render
// concurrently on one renderer.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.TemplateBaseURL == "" {
		return nil, NewRenderError(ErrCodeRenderFailed, "template base URL is required", nil)
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultRenderTimeout
	}
	if config.SettleDelay == 0 {
		config.SettleDelay = defaultSettleDelay
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer, nil
}

// initAllocator initializes the Chrome allocator
func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		// Font rendering
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Render loads the document template, injects the book data, waits for
// webfonts plus the settle delay, and captures a fixed-size zero-margin
// PDF snapshot. The whole sequence is bounded by the timeout; the
// browser context is released on every exit path.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeMissingBook, "render request is nil", nil)
	}
	if req.Book == nil {
		return nil, NewRenderError(ErrCodeMissingBook, "book is required", nil)
	}
	if !req.Document.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidDocument, "invalid document type: "+string(req.Document), nil)
	}

	bookJSON, err := json.Marshal(req.Book)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to serialize book", err)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the browser context to the render deadline
	browserCtx, deadlineCancel := context.WithTimeout(browserCtx, timeout)
	defer deadlineCancel()

	templateURL := r.config.TemplateBaseURL + req.Document.TemplatePath()
	inject := fmt.Sprintf(
		"window.__BOOK_DATA__ = %s; window.dispatchEvent(new Event('bookDataReady'));",
		string(bookJSON),
	)

	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate(templateURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(inject, nil),
		// Wait until all webfonts declared by the template are loaded
		chromedp.Evaluate("document.fonts.ready", nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Sleep(r.config.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(req.Dimensions.Width).
				WithPaperHeight(req.Dimensions.Height).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("%s render timed out after %v", req.Document, timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("%s render was cancelled", req.Document), err)
		}

		r.logger.Error("chromedp rendering failed",
			zap.String("document", req.Document.String()),
			zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.String("document", req.Document.String()),
		zap.String("size", req.Dimensions.String()),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		RenderDuration: renderDuration,
	}, nil
}

// Close releases the shared Chrome allocator. In-flight renders are
// killed rather than orphaned.
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// Ensure ChromedpRenderer implements Renderer
var _ Renderer = (*ChromedpRenderer)(nil)
