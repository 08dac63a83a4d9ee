package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuation_RoundTrip(t *testing.T) {
	c := NewContinuation([]byte("secret"), 30*time.Minute)

	token, err := c.Issue(7, 12, true)
	require.NoError(t, err)

	claims, err := c.Parse(token, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), claims.EventID)
	assert.True(t, claims.IsTeamEvent)
}

func TestContinuation_Rejects(t *testing.T) {
	c := NewContinuation([]byte("secret"), 30*time.Minute)
	token, err := c.Issue(7, 12, false)
	require.NoError(t, err)

	t.Run("other user", func(t *testing.T) {
		_, err := c.Parse(token, 8)
		assert.ErrorIs(t, err, ErrInvalidContinuation)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewContinuation([]byte("other"), time.Minute).Parse(token, 7)
		assert.ErrorIs(t, err, ErrInvalidContinuation)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewContinuation([]byte("secret"), 30*time.Minute)
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := later.Parse(token, 7)
		assert.ErrorIs(t, err, ErrInvalidContinuation)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := c.Parse("not-a-token", 7)
		assert.ErrorIs(t, err, ErrInvalidContinuation)
	})
}
