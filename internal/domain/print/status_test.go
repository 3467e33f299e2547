package print

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapVendorStatus(t *testing.T) {
	tests := []struct {
		vendor string
		want   OrderStatus
	}{
		{"CREATED", OrderStatusOrdered},
		{"UNPAID", OrderStatusOrdered},
		{"PAYMENT_IN_PROGRESS", OrderStatusOrdered},
		{"PRODUCTION_READY", OrderStatusPrinting},
		{"PRODUCTION_DELAYED", OrderStatusPrinting},
		{"IN_PRODUCTION", OrderStatusPrinting},
		{"SHIPPED", OrderStatusShipped},
		{"DELIVERED", OrderStatusDelivered},
		{"CANCELED", OrderStatusCancelled},
		{"ERROR", OrderStatusError},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			assert.Equal(t, tt.want, MapVendorStatus(tt.vendor))
		})
	}
}

func TestMapVendorStatus_UnknownDefaultsToOrdered(t *testing.T) {
	assert.Equal(t, OrderStatusOrdered, MapVendorStatus("UNKNOWN_FUTURE_STATUS"))
	assert.Equal(t, OrderStatusOrdered, MapVendorStatus(""))
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusOrdered.IsTerminal())
	assert.False(t, OrderStatusPrinting.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusError.IsTerminal())
}
