package otp

import (
	"context"
	"errors"
)

// ErrGateway reports an opaque failure at the OTP provider. Callers show
// the user "failed, try again", nothing more detailed.
var ErrGateway = errors.New("otp: gateway failure")

// Gateway delivers and verifies one-time codes. Implementations hold no
// session or profile state; they answer success or failure only.
type Gateway interface {
	// Send triggers an SMS with a one-time code to a normalized phone
	// number.
	Send(ctx context.Context, phone string) error

	// Verify checks a submitted code for a normalized phone number.
	Verify(ctx context.Context, phone string, code string) error
}
