package auth

import "errors"

// Failure taxonomy of the session store. Every operation converts
// collaborator failures into one of these plus the store's error field;
// nothing propagates past the store boundary unclassified.
var (
	ErrInvalidInput    = errors.New("auth: invalid input")
	ErrBusy            = errors.New("auth: another operation is in flight")
	ErrGateway         = errors.New("auth: otp gateway failure")
	ErrProfileNotFound = errors.New("auth: no profile for verified phone")
	ErrSessionExpired  = errors.New("auth: session expired")
	ErrInternal        = errors.New("auth: internal failure")
)

// errLoginSuperseded marks a commit that lost its race against a logout;
// callers surface it as a plain failed login.
var errLoginSuperseded = errors.New("auth: login superseded by logout")
