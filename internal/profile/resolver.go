package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for a phone number in
// any accepted format.
var ErrNotFound = errors.New("profile: not found")

// Resolver maps a verified phone number to a portal profile.
// It is the ONLY place where phone-to-user mapping logic lives.
type Resolver interface {
	// ByPhone looks a profile up by phone number, trying the canonical
	// "+"-prefixed form first and the bare-digit form second.
	// Returns ErrNotFound when neither form matches.
	ByPhone(ctx context.Context, phone string) (*Profile, error)

	// Provision creates a minimal patient profile for a phone number
	// that verified successfully but has no record yet.
	Provision(ctx context.Context, phone string) (*Profile, error)
}
