package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamseason/backend/internal/domain/print"
	"github.com/teamseason/backend/internal/domain/shared"
	"github.com/teamseason/backend/internal/infrastructure/persistence/models"
)

// GormFulfillmentJobRepository implements fulfillment job storage using GORM
type GormFulfillmentJobRepository struct {
	db *gorm.DB
}

// NewGormFulfillmentJobRepository creates a new GormFulfillmentJobRepository
func NewGormFulfillmentJobRepository(db *gorm.DB) *GormFulfillmentJobRepository {
	return &GormFulfillmentJobRepository{db: db}
}

// FindByExternalID finds a job by its vendor idempotency key
func (r *GormFulfillmentJobRepository) FindByExternalID(ctx context.Context, externalID string) (*print.Job, error) {
	var model models.FulfillmentJobModel
	if err := r.db.WithContext(ctx).First(&model, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySessionID finds a job by the payment session that created it
func (r *GormFulfillmentJobRepository) FindBySessionID(ctx context.Context, sessionID string) (*print.Job, error) {
	var model models.FulfillmentJobModel
	if err := r.db.WithContext(ctx).First(&model, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByVendorOrderID finds a job by the vendor's order identifier
func (r *GormFulfillmentJobRepository) FindByVendorOrderID(ctx context.Context, vendorOrderID string) (*print.Job, error) {
	var model models.FulfillmentJobModel
	if err := r.db.WithContext(ctx).First(&model, "vendor_order_id = ?", vendorOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save saves a job (insert or update)
func (r *GormFulfillmentJobRepository) Save(ctx context.Context, job *print.Job) error {
	model := models.FulfillmentJobModelFromDomain(job)
	return r.db.WithContext(ctx).Save(model).Error
}

// Create inserts a new job and fails if its external ID already exists
func (r *GormFulfillmentJobRepository) Create(ctx context.Context, job *print.Job) error {
	model := models.FulfillmentJobModelFromDomain(job)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyExists
	}
	return nil
}

// RecordVendorEvent appends one vendor status notification to the audit trail
func (r *GormFulfillmentJobRepository) RecordVendorEvent(ctx context.Context, event print.VendorEvent) error {
	return r.db.WithContext(ctx).Create(models.VendorEventModelFromDomain(event)).Error
}

// VendorEvents returns the status notifications received for a job,
// oldest first
func (r *GormFulfillmentJobRepository) VendorEvents(ctx context.Context, externalID string) ([]print.VendorEvent, error) {
	var eventModels []models.VendorEventModel
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Order("received_at ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]print.VendorEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = model.ToDomain()
	}
	return events, nil
}
