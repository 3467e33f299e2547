package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks processed webhook event identifiers so that
// redelivered events are acknowledged without being handled twice.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL.
	// Returns true if the event was newly marked, false if it was
	// already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
