package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/domain/book"
	"github.com/teamseason/backend/internal/domain/print"
	"github.com/teamseason/backend/internal/domain/shared"
	"github.com/teamseason/backend/internal/infrastructure/printvendor"
	"github.com/teamseason/backend/internal/infrastructure/render"
)

const (
	// webhookDedupeTTL bounds how long a processed payment event is
	// remembered. Payment providers stop redelivering well within this.
	webhookDedupeTTL = 72 * time.Hour

	// minVendorPages is the smallest page count the print product
	// accepts. Short seasons are padded up to it for spine math and
	// submission.
	minVendorPages = 24
)

// Service orchestrates order fulfillment: fetch the stored book data,
// lay out and render the PDFs, upload them, and submit the print order.
type Service struct {
	jobs        JobStore
	artifacts   ArtifactStore
	renderer    render.Renderer
	vendor      PrintVendor
	idempotency shared.IdempotencyStore
	product     print.ProductSpec
	logger      *zap.Logger
}

// NewService creates a fulfillment service. vendor may be nil when no
// print vendor is configured; fulfillment then stops at rendered
// artifacts instead of a vendor order.
func NewService(
	jobs JobStore,
	artifacts ArtifactStore,
	renderer render.Renderer,
	vendor PrintVendor,
	idempotency shared.IdempotencyStore,
	product print.ProductSpec,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		jobs:        jobs,
		artifacts:   artifacts,
		renderer:    renderer,
		vendor:      vendor,
		idempotency: idempotency,
		product:     product,
		logger:      logger,
	}
}

// VendorConfigured reports whether order submission and tracking are available
func (s *Service) VendorConfigured() bool {
	return s.vendor != nil
}

// Fulfill runs the pipeline for one completed payment. Redelivered
// events return the job in flight or done, except a FAILED job: that
// restarts, because the payment processor's retries are the only
// recovery path for a transient pipeline failure. The deterministic
// external id keeps a restart from creating a second vendor order.
func (s *Service) Fulfill(ctx context.Context, event PaymentEvent) (*JobResponse, error) {
	externalID := print.ExternalID(event.SessionID)
	log := s.logger.With(zap.String("external_id", externalID))

	// The dedupe mark only collapses deliveries racing each other.
	// The job record decides what a later redelivery means.
	fresh, markErr := s.idempotency.MarkProcessed(ctx, externalID, webhookDedupeTTL)
	if markErr != nil {
		log.Warn("idempotency store unavailable", zap.Error(markErr))
	}

	existing, err := s.jobs.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		if existing.Stage != print.StageFailed {
			log.Info("fulfillment job already exists for session",
				zap.String("stage", existing.Stage.String()))
			return toJobResponse(existing), nil
		}
		log.Info("retrying failed fulfillment job",
			zap.String("previous_error", existing.ErrorMessage))
		if retryErr := existing.Retry(); retryErr != nil {
			return nil, retryErr
		}
		if saveErr := s.jobs.Save(ctx, existing); saveErr != nil {
			return nil, fmt.Errorf("failed to reset job: %w", saveErr)
		}
		return s.run(ctx, log, existing)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("failed to check for existing job: %w", err)
	}

	if markErr == nil && !fresh {
		// Marked processed but no record yet: the first delivery is
		// still in flight
		log.Info("duplicate payment event ignored")
		return &JobResponse{ExternalID: externalID, Stage: print.StageReceived.String()}, nil
	}

	job, err := print.NewJob(event.SessionID, event.BookDataURL, event.Shipping)
	if err != nil {
		return nil, err
	}
	job.ContactEmail = event.CustomerEmail
	if err := s.jobs.Create(ctx, job); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// A concurrent delivery slipped past the lookup; the
			// insert settles who runs the pipeline
			log.Info("concurrent delivery already created the job")
			return s.existingJob(ctx, externalID)
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Info("fulfilling order", zap.String("book_data_url", job.BookDataURL))
	return s.run(ctx, log, job)
}

// run walks a RECEIVED job through the pipeline stages
func (s *Service) run(ctx context.Context, log *zap.Logger, job *print.Job) (*JobResponse, error) {
	laidOut, err := s.fetchAndLayOut(ctx, job)
	if err != nil {
		return s.failJob(ctx, job, "fetch book data", err)
	}

	interiorPDF, coverPDF, err := s.renderDocuments(ctx, job, laidOut)
	if err != nil {
		return s.failJob(ctx, job, "render", err)
	}

	if err := s.uploadArtifacts(ctx, job, interiorPDF, coverPDF); err != nil {
		return s.failJob(ctx, job, "upload", err)
	}

	if err := s.submitOrder(ctx, job, laidOut); err != nil {
		return s.failJob(ctx, job, "submit", err)
	}

	log.Info("order fulfilled",
		zap.String("stage", job.Stage.String()),
		zap.String("vendor_order_id", job.VendorOrderID))
	return toJobResponse(job), nil
}

// existingJob resolves a deduplicated event to its job record
func (s *Service) existingJob(ctx context.Context, externalID string) (*JobResponse, error) {
	job, err := s.jobs.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Marked processed but no record yet: the first delivery
			// is still in flight
			return &JobResponse{ExternalID: externalID, Stage: print.StageReceived.String()}, nil
		}
		return nil, err
	}
	return toJobResponse(job), nil
}

// fetchAndLayOut retrieves the stored book data and builds the laid-out book
func (s *Service) fetchAndLayOut(ctx context.Context, job *print.Job) (*book.Book, error) {
	if err := s.advance(ctx, job, print.StageFetching); err != nil {
		return nil, err
	}

	var data book.BookData
	if err := s.artifacts.FetchBookData(ctx, job.BookDataURL, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch book data: %w", err)
	}

	laidOut := book.Build(data)
	pageCount := laidOut.TotalPages()
	if pageCount < minVendorPages {
		pageCount = minVendorPages
	}
	job.PageCount = pageCount

	s.logger.Info("book laid out",
		zap.String("external_id", job.ExternalID),
		zap.Int("entries", len(data.Entries)),
		zap.Int("pages", pageCount))

	return laidOut, nil
}

// renderDocuments renders the interior and cover PDFs concurrently on
// the shared renderer
func (s *Service) renderDocuments(ctx context.Context, job *print.Job, laidOut *book.Book) ([]byte, []byte, error) {
	if err := s.advance(ctx, job, print.StageRendering); err != nil {
		return nil, nil, err
	}

	var interior, cover *render.RenderResult
	var interiorErr, coverErr error
	done := make(chan struct{}, 2)

	go func() {
		interior, interiorErr = s.renderer.Render(ctx, &render.RenderRequest{
			Book:       laidOut,
			Document:   render.DocumentInterior,
			Dimensions: s.product.InteriorDimensions(),
		})
		done <- struct{}{}
	}()
	go func() {
		cover, coverErr = s.renderer.Render(ctx, &render.RenderRequest{
			Book:       laidOut,
			Document:   render.DocumentCover,
			Dimensions: s.product.CoverDimensions(job.PageCount),
		})
		done <- struct{}{}
	}()
	<-done
	<-done

	if interiorErr != nil {
		return nil, nil, fmt.Errorf("interior render failed: %w", interiorErr)
	}
	if coverErr != nil {
		return nil, nil, fmt.Errorf("cover render failed: %w", coverErr)
	}

	s.logger.Info("documents rendered",
		zap.String("external_id", job.ExternalID),
		zap.Int("interior_bytes", len(interior.PDFData)),
		zap.Int("cover_bytes", len(cover.PDFData)),
		zap.Duration("interior_duration", interior.RenderDuration),
		zap.Duration("cover_duration", cover.RenderDuration))

	return interior.PDFData, cover.PDFData, nil
}

// uploadArtifacts stores both PDFs concurrently and records their URLs
func (s *Service) uploadArtifacts(ctx context.Context, job *print.Job, interiorPDF, coverPDF []byte) error {
	if err := s.advance(ctx, job, print.StageUploading); err != nil {
		return err
	}

	var interiorURL, coverURL string
	var interiorErr, coverErr error
	done := make(chan struct{}, 2)

	go func() {
		key := fmt.Sprintf("orders/%s/interior.pdf", job.ExternalID)
		interiorURL, interiorErr = s.artifacts.Store(ctx, key, interiorPDF, "application/pdf")
		done <- struct{}{}
	}()
	go func() {
		key := fmt.Sprintf("orders/%s/cover.pdf", job.ExternalID)
		coverURL, coverErr = s.artifacts.Store(ctx, key, coverPDF, "application/pdf")
		done <- struct{}{}
	}()
	<-done
	<-done

	if interiorErr != nil {
		return fmt.Errorf("interior upload failed: %w", interiorErr)
	}
	if coverErr != nil {
		return fmt.Errorf("cover upload failed: %w", coverErr)
	}

	job.SetArtifacts(interiorURL, coverURL)
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save artifact URLs: %w", err)
	}
	return nil
}

// submitOrder hands the artifacts to the print vendor, or finishes at
// ARTIFACTS_READY when no vendor is configured
func (s *Service) submitOrder(ctx context.Context, job *print.Job, laidOut *book.Book) error {
	if err := s.advance(ctx, job, print.StageSubmitting); err != nil {
		return err
	}

	if s.vendor == nil {
		s.logger.Info("no print vendor configured, stopping at rendered artifacts",
			zap.String("external_id", job.ExternalID),
			zap.String("interior_url", job.InteriorURL),
			zap.String("cover_url", job.CoverURL))
		return s.advance(ctx, job, print.StageArtifactsReady)
	}

	title := laidOut.Team.Name + " Season Book"
	order, err := s.vendor.SubmitOrder(ctx, printvendor.SubmitOrderRequest{
		ExternalID:   job.ExternalID,
		InteriorURL:  job.InteriorURL,
		CoverURL:     job.CoverURL,
		PodPackageID: s.product.PodPackageID,
		Title:        title,
		Quantity:     1,
		Shipping:     job.Shipping,
	})
	if err != nil {
		if printvendor.IsDuplicateOrder(err) {
			// The vendor already holds an order for this key, which is
			// exactly what the key is for
			s.logger.Info("vendor already has this order",
				zap.String("external_id", job.ExternalID))
			return s.advance(ctx, job, print.StageSubmitted)
		}
		return fmt.Errorf("vendor submission failed: %w", err)
	}

	job.SetVendorOrder(strconv.FormatInt(order.ID, 10))
	s.logger.Info("print order submitted",
		zap.String("external_id", job.ExternalID),
		zap.String("vendor_order_id", job.VendorOrderID),
		zap.String("vendor_status", order.StatusName()))
	return s.advance(ctx, job, print.StageSubmitted)
}

// advance moves the job forward one stage and persists it
func (s *Service) advance(ctx context.Context, job *print.Job, next print.Stage) error {
	if err := job.Advance(next); err != nil {
		return err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save stage %s: %w", next, err)
	}
	return nil
}

// failJob marks the job failed and reports the stage that broke
func (s *Service) failJob(ctx context.Context, job *print.Job, stage string, cause error) (*JobResponse, error) {
	s.logger.Error("fulfillment failed",
		zap.String("external_id", job.ExternalID),
		zap.String("failed_stage", stage),
		zap.Error(cause))

	if err := job.Fail(cause.Error()); err == nil {
		if saveErr := s.jobs.Save(ctx, job); saveErr != nil {
			s.logger.Error("failed to persist failed job",
				zap.String("external_id", job.ExternalID),
				zap.Error(saveErr))
		}
	}
	return toJobResponse(job), fmt.Errorf("%s: %w", stage, cause)
}

// OrderStatus polls the vendor for an order and normalizes the answer.
// The vendor stays authoritative: local records only fill in identity.
func (s *Service) OrderStatus(ctx context.Context, vendorOrderID string) (*OrderStatusResponse, error) {
	if s.vendor == nil {
		return nil, shared.ErrNotConfigured
	}

	order, err := s.vendor.GetOrderStatus(ctx, vendorOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order status: %w", err)
	}

	resp := &OrderStatusResponse{
		OrderID:      strconv.FormatInt(order.ID, 10),
		ExternalID:   order.ExternalID,
		Status:       print.MapVendorStatus(order.StatusName()).String(),
		VendorStatus: order.StatusName(),
	}
	if tracking := order.FirstTracking(); tracking != nil {
		resp.TrackingNumber = tracking.ID
		resp.TrackingURL = tracking.URL
	}
	if order.EstimatedShippingDates != nil {
		resp.EstimatedShipDate = order.EstimatedShippingDates.ArrivalMin
	}
	return resp, nil
}

// HandleVendorNotification records a vendor status callback against the
// matching job
func (s *Service) HandleVendorNotification(ctx context.Context, notification VendorNotification) error {
	externalID := notification.ExternalID
	if externalID == "" && notification.VendorOrderID != "" {
		if job, err := s.jobs.FindByVendorOrderID(ctx, notification.VendorOrderID); err == nil {
			externalID = job.ExternalID
		}
	}
	if externalID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Vendor notification carries no order identity")
	}

	status := print.MapVendorStatus(notification.VendorStatus)
	s.logger.Info("vendor status update",
		zap.String("external_id", externalID),
		zap.String("vendor_status", notification.VendorStatus),
		zap.String("status", status.String()),
		zap.String("tracking", notification.TrackingID))

	return s.jobs.RecordVendorEvent(ctx, print.VendorEvent{
		ExternalID:   externalID,
		VendorStatus: notification.VendorStatus,
		Status:       status,
		TrackingID:   notification.TrackingID,
		TrackingURL:  notification.TrackingURL,
		ReceivedAt:   time.Now(),
	})
}

// EstimateShipping prices a book shipment with the vendor
func (s *Service) EstimateShipping(ctx context.Context, req ShippingEstimateRequest) (*ShippingEstimateResponse, error) {
	if s.vendor == nil {
		return nil, shared.ErrNotConfigured
	}

	pageCount := req.PageCount
	if pageCount < minVendorPages {
		pageCount = minVendorPages
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	estimate, err := s.vendor.EstimateShipping(ctx, printvendor.ShippingEstimateRequest{
		PageCount:    pageCount,
		Quantity:     quantity,
		PodPackageID: s.product.PodPackageID,
		State:        req.State,
		Zip:          req.Zip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate shipping: %w", err)
	}

	return &ShippingEstimateResponse{
		TotalCost:    estimate.TotalCostInclTax.StringFixed(2),
		ShippingCost: estimate.ShippingCost.TotalCostInclTax.StringFixed(2),
		Tax:          estimate.TotalTax.StringFixed(2),
		Currency:     estimate.Currency,
	}, nil
}

// JobStatus returns the local fulfillment record for a payment session,
// with tracking from the latest vendor callback folded in when the
// vendor has reported anything
func (s *Service) JobStatus(ctx context.Context, sessionID string) (*JobResponse, error) {
	job, err := s.jobs.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := toJobResponse(job)

	events, err := s.jobs.VendorEvents(ctx, job.ExternalID)
	if err != nil {
		s.logger.Warn("failed to load vendor events",
			zap.String("external_id", job.ExternalID), zap.Error(err))
		return resp, nil
	}
	if len(events) > 0 {
		latest := events[len(events)-1]
		resp.VendorStatus = latest.VendorStatus
		resp.TrackingNumber = latest.TrackingID
		resp.TrackingURL = latest.TrackingURL
	}
	return resp, nil
}
