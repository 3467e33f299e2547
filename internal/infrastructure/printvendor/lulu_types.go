package printvendor

import (
	"github.com/shopspring/decimal"
	"github.com/teamseason/backend/internal/domain/print"
)

// tokenResponse is the OAuth2 token endpoint response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SubmitOrderRequest describes one print order submission
type SubmitOrderRequest struct {
	// ExternalID is the idempotency key: the vendor deduplicates
	// submissions carrying the same value
	ExternalID   string
	InteriorURL  string
	CoverURL     string
	PodPackageID string
	Title        string
	Quantity     int
	Shipping     print.ShippingAddress
}

// printJobPayload is the vendor wire format for order submission
type printJobPayload struct {
	ContactEmail    string            `json:"contact_email"`
	ExternalID      string            `json:"external_id"`
	LineItems       []lineItemPayload `json:"line_items"`
	ShippingAddress addressPayload    `json:"shipping_address"`
}

type lineItemPayload struct {
	ExternalID             string         `json:"external_id"`
	PrintableNormalization printableFiles `json:"printable_normalization"`
	Quantity               int            `json:"quantity"`
	ShippingLevel          string         `json:"shipping_level"`
	Title                  string         `json:"title"`
}

type printableFiles struct {
	Cover        sourceURL `json:"cover"`
	Interior     sourceURL `json:"interior"`
	PodPackageID string    `json:"pod_package_id"`
}

type sourceURL struct {
	SourceURL string `json:"source_url"`
}

type addressPayload struct {
	Name        string `json:"name"`
	Street1     string `json:"street1"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
}

// VendorOrder is a vendor print job as returned by the API
type VendorOrder struct {
	ID         int64        `json:"id"`
	ExternalID string       `json:"external_id"`
	Status     vendorStatus `json:"status"`
	LineItems  []struct {
		ExternalID string    `json:"external_id"`
		Tracking   *Tracking `json:"tracking"`
	} `json:"line_items"`
	EstimatedShippingDates *struct {
		ArrivalMin string `json:"arrival_min"`
		ArrivalMax string `json:"arrival_max"`
	} `json:"estimated_shipping_dates"`
	ContactEmail string `json:"contact_email"`
}

type vendorStatus struct {
	Name string `json:"name"`
}

// StatusName returns the raw vendor status string
func (o *VendorOrder) StatusName() string {
	return o.Status.Name
}

// Tracking holds the shipment tracking information of a line item
type Tracking struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// FirstTracking returns the tracking of the first line item, if any
func (o *VendorOrder) FirstTracking() *Tracking {
	if len(o.LineItems) == 0 {
		return nil
	}
	return o.LineItems[0].Tracking
}

// ShippingEstimateRequest asks the vendor to price a book shipment
type ShippingEstimateRequest struct {
	PageCount    int
	Quantity     int
	PodPackageID string
	State        string
	Zip          string
	Country      string
}

// ShippingEstimate is the vendor's cost calculation for one shipment
type ShippingEstimate struct {
	TotalCostInclTax decimal.Decimal `json:"total_cost_incl_tax"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	ShippingCost     struct {
		TotalCostInclTax decimal.Decimal `json:"total_cost_incl_tax"`
	} `json:"shipping_cost"`
	Currency string `json:"currency"`
}
