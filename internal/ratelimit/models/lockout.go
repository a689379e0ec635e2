package models

import (
	"time"

	dErrors "netra/pkg/domain-errors"
)

// Lockout tracks failed verification attempts for one client.
//
// Invariants:
//   - Identifier is non-empty
//   - FailureCount counts failures since the window last reset
//   - LockedUntil is nil unless the threshold was reached
type Lockout struct {
	Identifier    string     `json:"identifier"`
	FailureCount  int        `json:"failure_count"`
	LastFailureAt time.Time  `json:"last_failure_at"`
	LockedUntil   *time.Time `json:"locked_until,omitempty"`
}

// NewLockout creates an empty record for identifier.
func NewLockout(identifier string) (*Lockout, error) {
	if identifier == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identifier cannot be empty")
	}
	return &Lockout{Identifier: identifier}, nil
}

// IsLockedAt reports whether the lock is still active at now.
func (l *Lockout) IsLockedAt(now time.Time) bool {
	return l.LockedUntil != nil && now.Before(*l.LockedUntil)
}

// LockExpiredAt reports whether a lock was applied and has since lapsed.
func (l *Lockout) LockExpiredAt(now time.Time) bool {
	return l.LockedUntil != nil && !now.Before(*l.LockedUntil)
}

// WindowExpiredAt reports whether the last failure fell out of the window.
func (l *Lockout) WindowExpiredAt(now time.Time, window time.Duration) bool {
	return l.LastFailureAt.IsZero() || now.Sub(l.LastFailureAt) > window
}

// ShouldLock reports whether the failure count reached the threshold.
func (l *Lockout) ShouldLock(threshold int) bool {
	return threshold > 0 && l.FailureCount >= threshold && l.LockedUntil == nil
}

// ApplyLock locks the identifier for d starting at now.
func (l *Lockout) ApplyLock(d time.Duration, now time.Time) {
	until := now.Add(d)
	l.LockedUntil = &until
}

// Reset starts a fresh window with a single failure at now.
func (l *Lockout) Reset(now time.Time) {
	l.FailureCount = 1
	l.LastFailureAt = now
	l.LockedUntil = nil
}

// RemainingAttempts returns how many failures are left before a lock.
func (l *Lockout) RemainingAttempts(threshold int) int {
	return max(threshold-l.FailureCount, 0)
}

// Result is the outcome of a lockout check.
type Result struct {
	Allowed      bool          `json:"allowed"`
	Limit        int           `json:"limit"`
	Remaining    int           `json:"remaining"`
	FailureCount int           `json:"failure_count"`
	RetryAfter   time.Duration `json:"retry_after,omitempty"`
}
