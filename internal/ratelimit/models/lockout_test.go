package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockoutTransitions(t *testing.T) {
	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

	l, err := NewLockout("verify:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, l.IsLockedAt(now))
	assert.True(t, l.WindowExpiredAt(now, time.Minute), "no failures yet")

	l.FailureCount = 3
	l.LastFailureAt = now
	assert.True(t, l.ShouldLock(3))
	assert.Equal(t, 0, l.RemainingAttempts(3))

	l.ApplyLock(15*time.Minute, now)
	assert.True(t, l.IsLockedAt(now.Add(time.Minute)))
	assert.False(t, l.ShouldLock(3), "already locked")
	assert.True(t, l.LockExpiredAt(now.Add(15*time.Minute)))

	l.Reset(now.Add(20 * time.Minute))
	assert.Equal(t, 1, l.FailureCount)
	assert.Nil(t, l.LockedUntil)
}

func TestNewLockoutRejectsEmptyIdentifier(t *testing.T) {
	_, err := NewLockout("")
	assert.Error(t, err)
}

func TestKeyNormalizes(t *testing.T) {
	assert.Equal(t, "verify:abc", NewKey(ScopeClinicVerification, "  ABC ").String())
}
