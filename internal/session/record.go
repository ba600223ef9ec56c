package session

import (
	"context"
	"time"
)

// Lifetime is the absolute validity window of a session record, fixed at
// creation. Records are never extended by activity.
const Lifetime = 24 * time.Hour

// Record marks that a login happened and until when it counts. It carries
// no identity on purpose: who is logged in is the session store's concern,
// so the persistence format survives changes to profile resolution.
type Record struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"` // absolute, never renewed
}

// Persistence stores the durable session record. Records are only ever
// created or deleted, never mutated in place.
type Persistence interface {
	// Create generates a fresh opaque session id, stamps the absolute
	// expiry, and writes the record, replacing any previous one.
	Create(ctx context.Context) (Record, error)

	// ReadIfValid returns the record if one exists and is unexpired.
	// An expired record is deleted as a side effect and reported via the
	// second result, so callers can distinguish "session expired" from
	// "never logged in".
	ReadIfValid(ctx context.Context) (*Record, bool, error)

	// Delete removes the record unconditionally. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context) error
}
