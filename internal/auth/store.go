// Package auth holds the session state machine for the OTP login flow.
// One Store instance is created at startup and shared by every handler
// and guard; there is no package-level singleton.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ragavi522/knee-prime-assessment/internal/logger"
	"github.com/ragavi522/knee-prime-assessment/internal/otp"
	"github.com/ragavi522/knee-prime-assessment/internal/phone"
	"github.com/ragavi522/knee-prime-assessment/internal/profile"
	"github.com/ragavi522/knee-prime-assessment/internal/session"
)

// State is a settled snapshot of the session. Guards and handlers read
// snapshots only, never the live fields.
type State struct {
	User      *profile.Profile
	IsLoading bool
	Err       string
	OTPSent   bool

	// Expired reports that the last validation found a persisted record
	// past its expiry. Distinguishes "session expired" from "never
	// logged in" when choosing a login notice.
	Expired bool

	// SessionID and ExpiresAt mirror the current persisted record,
	// zero when unauthenticated.
	SessionID string
	ExpiresAt time.Time
}

// Store orchestrates the OTP gateway, profile resolver, and session
// persistence behind a single validate/request/verify/logout contract.
type Store struct {
	gateway     otp.Gateway
	resolver    profile.Resolver
	persistence session.Persistence

	// bypass enables profile provisioning on verify when no record
	// exists. Resolved once from config; this is the only place core
	// verification branches on it.
	bypass bool

	mu        sync.Mutex
	user      *profile.Profile
	lastPhone string // re-fetch key for restoring a persisted session
	loading   bool
	errMsg    string
	otpSent   bool
	expired   bool
	sessionID string
	expiresAt time.Time

	// generation is bumped on logout so async results that land late
	// cannot resurrect a session the user already left.
	generation uint64

	validate singleflight.Group
}

func NewStore(
	gateway otp.Gateway,
	resolver profile.Resolver,
	persistence session.Persistence,
	bypass bool,
) *Store {
	return &Store{
		gateway:     gateway,
		resolver:    resolver,
		persistence: persistence,
		bypass:      bypass,
	}
}

// Snapshot returns a settled copy of the session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		User:      s.user,
		IsLoading: s.loading,
		Err:       s.errMsg,
		OTPSent:   s.otpSent,
		Expired:   s.expired,
		SessionID: s.sessionID,
		ExpiresAt: s.expiresAt,
	}
}

// ValidateSession reports whether an authenticated session exists,
// restoring one from the persisted record when possible. It never
// returns an error: internal failures resolve to false with the error
// field set. Concurrent callers share a single in-flight validation, so
// overlapping mounts cause at most one profile fetch.
func (s *Store) ValidateSession(ctx context.Context) bool {
	// The validation is shared by every caller that joins it, so it must
	// not die with the first caller's request context.
	vctx := context.WithoutCancel(ctx)

	v, _, _ := s.validate.Do("validate", func() (any, error) {
		return s.runValidation(vctx), nil
	})
	return v.(bool)
}

func (s *Store) runValidation(ctx context.Context) bool {
	s.mu.Lock()
	startGen := s.generation
	s.loading = true
	user := s.user
	lastPhone := s.lastPhone
	s.mu.Unlock()

	defer s.setLoading(false)

	rec, expiredFound, err := s.persistence.ReadIfValid(ctx)
	if err != nil {
		logger.Error("session validation failed", map[string]any{
			"error": err.Error(),
		})
		// Transient storage failure: answer false but leave the restore
		// state alone, so the record and the re-fetch key survive for
		// the next validation.
		s.setError("Session check failed. Please try again.")
		return false
	}

	if rec == nil {
		// Absent or just-deleted expired record. Expiry clears state
		// silently; the guard decides whether to surface a notice.
		s.clearSession(startGen, expiredFound, "")
		return false
	}

	if user != nil {
		// The snapshot predates ReadIfValid; a logout may have landed
		// in between, and its cleared state must win.
		s.mu.Lock()
		stillCurrent := s.generation == startGen
		s.mu.Unlock()
		return stillCurrent
	}

	if lastPhone == "" {
		// A record we cannot map back to a profile is as good as no
		// record. Drop it rather than report a session we cannot name.
		_ = s.persistence.Delete(ctx)
		s.clearSession(startGen, false, "")
		return false
	}

	p, err := s.resolver.ByPhone(ctx, lastPhone)
	if err != nil {
		logger.Warn("could not restore profile for persisted session", map[string]any{
			"error": err.Error(),
		})
		_ = s.persistence.Delete(ctx)
		s.clearSession(startGen, false, "")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != startGen {
		// User logged out while we were resolving; discard the result.
		return false
	}

	s.user = p
	s.errMsg = ""
	s.expired = false
	s.sessionID = rec.SessionID
	s.expiresAt = rec.ExpiresAt
	return true
}

// RequestCode asks the gateway to send a one-time code.
func (s *Store) RequestCode(ctx context.Context, rawPhone string) error {
	if strings.TrimSpace(rawPhone) == "" {
		s.setError("Please enter your phone number.")
		return ErrInvalidInput
	}

	if _, ok := s.beginOp(); !ok {
		return ErrBusy
	}
	defer s.setLoading(false)

	if err := s.gateway.Send(ctx, phone.Normalize(rawPhone)); err != nil {
		s.setError("Failed to send OTP. Please try again.")
		return ErrGateway
	}

	s.mu.Lock()
	s.otpSent = true
	s.errMsg = ""
	s.mu.Unlock()

	return nil
}

// VerifyCode checks a submitted code and, on success, commits the user
// and the persisted session record. Returns nil and sets the error field
// on any verification failure.
func (s *Store) VerifyCode(
	ctx context.Context,
	rawPhone string,
	code string,
) (*profile.Profile, error) {

	if strings.TrimSpace(rawPhone) == "" || strings.TrimSpace(code) == "" {
		s.setError("Please enter your phone number and the code.")
		return nil, ErrInvalidInput
	}

	startGen, ok := s.beginOp()
	if !ok {
		return nil, ErrBusy
	}
	defer s.setLoading(false)

	normalized := phone.Normalize(rawPhone)

	if err := s.gateway.Verify(ctx, normalized, code); err != nil {
		s.setError("Invalid code. Please try again.")
		return nil, ErrGateway
	}

	p, err := s.resolver.ByPhone(ctx, normalized)
	if errors.Is(err, profile.ErrNotFound) {
		if !s.bypass {
			s.setError("No account found for this phone number.")
			return nil, ErrProfileNotFound
		}

		// Bypass mode fabricates a minimal patient profile instead of
		// failing the login.
		p, err = s.resolver.Provision(ctx, normalized)
	}
	if err != nil {
		logger.Error("profile resolution failed", map[string]any{
			"error": err.Error(),
		})
		s.setError("Login failed. Please try again.")
		return nil, ErrInternal
	}

	if err := s.commit(ctx, startGen, p); err != nil {
		s.setError("Login failed. Please try again.")
		return nil, ErrInternal
	}

	return p, nil
}

// SetLoginUser injects an already-verified profile, committing the
// session exactly as VerifyCode would.
func (s *Store) SetLoginUser(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		s.setError("Login failed. Please try again.")
		return ErrInvalidInput
	}

	s.mu.Lock()
	startGen := s.generation
	s.mu.Unlock()

	if err := s.commit(ctx, startGen, p); err != nil {
		s.setError("Login failed. Please try again.")
		return ErrInternal
	}

	return nil
}

// Logout clears the session and deletes the persisted record. It never
// fails; record deletion is best-effort.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.lastPhone = ""
	s.otpSent = false
	s.errMsg = ""
	s.expired = false
	s.sessionID = ""
	s.expiresAt = time.Time{}
	s.generation++
	s.mu.Unlock()

	if err := s.persistence.Delete(ctx); err != nil {
		logger.Warn("failed to delete session record on logout", map[string]any{
			"error": err.Error(),
		})
	}
}

func (s *Store) commit(ctx context.Context, startGen uint64, p *profile.Profile) error {
	rec, err := s.persistence.Create(ctx)
	if err != nil {
		logger.Error("failed to persist session record", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	s.mu.Lock()
	if s.generation != startGen {
		s.mu.Unlock()
		// A logout won the race; the fresh record must not outlive it.
		_ = s.persistence.Delete(ctx)
		return errLoginSuperseded
	}
	s.user = p
	s.lastPhone = p.Phone
	s.otpSent = false
	s.errMsg = ""
	s.expired = false
	s.sessionID = rec.SessionID
	s.expiresAt = rec.ExpiresAt
	s.mu.Unlock()

	logger.Info("session committed", map[string]any{
		"user_id": p.ID,
		"role":    string(p.Role),
	})

	return nil
}

// clearSession drops the in-memory user unless a logout already replaced
// this validation's view of the world.
func (s *Store) clearSession(startGen uint64, expired bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != startGen {
		return
	}

	s.user = nil
	s.lastPhone = ""
	s.expired = expired
	s.sessionID = ""
	s.expiresAt = time.Time{}
	if errMsg != "" {
		s.errMsg = errMsg
	}
}

// beginOp marks one operation in flight and captures the generation the
// operation belongs to. A second request/verify while loading is a
// caller bug the UI should have debounced; we refuse it rather than
// overlap.
func (s *Store) beginOp() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return 0, false
	}
	s.loading = true
	s.errMsg = ""
	return s.generation, true
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}
