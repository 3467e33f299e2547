package models

import (
	"time"

	"github.com/teamseason/backend/internal/domain/print"
)

// FulfillmentJobModel is the GORM model for the fulfillment_jobs table.
// ExternalID doubles as the primary key: it is the vendor idempotency
// key and there is exactly one job per paid session.
type FulfillmentJobModel struct {
	ExternalID  string `gorm:"primaryKey;size:64"`
	SessionID   string `gorm:"size:255;uniqueIndex;not null"`
	BookDataURL string `gorm:"size:2048;not null"`
	Stage       string `gorm:"size:32;index;not null"`

	ShipName    string `gorm:"size:255"`
	ShipEmail   string `gorm:"size:255"`
	ShipStreet  string `gorm:"size:255"`
	ShipCity    string `gorm:"size:255"`
	ShipState   string `gorm:"size:8"`
	ShipZip     string `gorm:"size:16"`
	ShipCountry string `gorm:"size:8"`
	ShipPhone   string `gorm:"size:32"`

	PageCount     int
	InteriorURL   string `gorm:"size:2048"`
	CoverURL      string `gorm:"size:2048"`
	VendorOrderID string `gorm:"size:64;index"`
	ContactEmail  string `gorm:"size:255"`
	ErrorMessage  string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for FulfillmentJobModel
func (FulfillmentJobModel) TableName() string {
	return "fulfillment_jobs"
}

// ToDomain converts FulfillmentJobModel to a domain Job
func (m *FulfillmentJobModel) ToDomain() *print.Job {
	return &print.Job{
		ExternalID:  m.ExternalID,
		SessionID:   m.SessionID,
		BookDataURL: m.BookDataURL,
		Stage:       print.Stage(m.Stage),
		Shipping: print.ShippingAddress{
			Name:    m.ShipName,
			Email:   m.ShipEmail,
			Street:  m.ShipStreet,
			City:    m.ShipCity,
			State:   m.ShipState,
			Zip:     m.ShipZip,
			Country: m.ShipCountry,
			Phone:   m.ShipPhone,
		},
		PageCount:     m.PageCount,
		InteriorURL:   m.InteriorURL,
		CoverURL:      m.CoverURL,
		VendorOrderID: m.VendorOrderID,
		ContactEmail:  m.ContactEmail,
		ErrorMessage:  m.ErrorMessage,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FulfillmentJobModelFromDomain converts a domain Job to FulfillmentJobModel
func FulfillmentJobModelFromDomain(job *print.Job) *FulfillmentJobModel {
	return &FulfillmentJobModel{
		ExternalID:    job.ExternalID,
		SessionID:     job.SessionID,
		BookDataURL:   job.BookDataURL,
		Stage:         job.Stage.String(),
		ShipName:      job.Shipping.Name,
		ShipEmail:     job.Shipping.Email,
		ShipStreet:    job.Shipping.Street,
		ShipCity:      job.Shipping.City,
		ShipState:     job.Shipping.State,
		ShipZip:       job.Shipping.Zip,
		ShipCountry:   job.Shipping.Country,
		ShipPhone:     job.Shipping.Phone,
		PageCount:     job.PageCount,
		InteriorURL:   job.InteriorURL,
		CoverURL:      job.CoverURL,
		VendorOrderID: job.VendorOrderID,
		ContactEmail:  job.ContactEmail,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

// VendorEventModel is the GORM model for the vendor_events table.
// Each row is one status notification received from the print vendor,
// kept as an audit trail alongside the job's current stage.
type VendorEventModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	ExternalID   string    `gorm:"size:64;index;not null"`
	VendorStatus string    `gorm:"size:64;not null"`
	OrderStatus  string    `gorm:"size:32;not null"`
	TrackingID   string    `gorm:"size:128"`
	TrackingURL  string    `gorm:"size:2048"`
	ReceivedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for VendorEventModel
func (VendorEventModel) TableName() string {
	return "vendor_events"
}

// ToDomain converts VendorEventModel to a domain VendorEvent
func (m *VendorEventModel) ToDomain() print.VendorEvent {
	return print.VendorEvent{
		ExternalID:   m.ExternalID,
		VendorStatus: m.VendorStatus,
		Status:       print.OrderStatus(m.OrderStatus),
		TrackingID:   m.TrackingID,
		TrackingURL:  m.TrackingURL,
		ReceivedAt:   m.ReceivedAt,
	}
}

// VendorEventModelFromDomain converts a domain VendorEvent to VendorEventModel
func VendorEventModelFromDomain(event print.VendorEvent) *VendorEventModel {
	return &VendorEventModel{
		ExternalID:   event.ExternalID,
		VendorStatus: event.VendorStatus,
		OrderStatus:  event.Status.String(),
		TrackingID:   event.TrackingID,
		TrackingURL:  event.TrackingURL,
		ReceivedAt:   event.ReceivedAt,
	}
}
