package print

import "time"

// VendorEvent is one status notification received from the print
// vendor, kept as an audit trail alongside the job's current stage.
type VendorEvent struct {
	ExternalID   string
	VendorStatus string
	Status       OrderStatus
	TrackingID   string
	TrackingURL  string
	ReceivedAt   time.Time
}
