package print

// OrderStatus is the internal, client-facing order status vocabulary.
// It advances monotonically and is terminal at delivered, cancelled,
// or error.
type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ordered"
	OrderStatusPrinting  OrderStatus = "printing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusError     OrderStatus = "error"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status can no longer advance
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusError:
		return true
	}
	return false
}

// vendorStatusMap translates the vendor's job status vocabulary into
// ours. Unlisted vendor statuses deliberately fall back to "ordered":
// the vendor adds statuses over time and an unknown one must never
// break client polling.
var vendorStatusMap = map[string]OrderStatus{
	"CREATED":             OrderStatusOrdered,
	"UNPAID":              OrderStatusOrdered,
	"PAYMENT_IN_PROGRESS": OrderStatusOrdered,
	"PRODUCTION_READY":    OrderStatusPrinting,
	"PRODUCTION_DELAYED":  OrderStatusPrinting,
	"IN_PRODUCTION":       OrderStatusPrinting,
	"SHIPPED":             OrderStatusShipped,
	"DELIVERED":           OrderStatusDelivered,
	"CANCELED":            OrderStatusCancelled,
	"ERROR":               OrderStatusError,
}

// MapVendorStatus normalizes a vendor status string
func MapVendorStatus(vendorStatus string) OrderStatus {
	if status, ok := vendorStatusMap[vendorStatus]; ok {
		return status
	}
	return OrderStatusOrdered
}
