package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstPerClient(t *testing.T) {
	l := New(1, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	assert.True(t, l.Allow("10.0.0.2"), "buckets are per client")
}

func TestLimiterCleanupIdle(t *testing.T) {
	l := New(1, 1)
	l.GetVisitor("10.0.0.1")

	assert.Zero(t, l.CleanupIdle(time.Now()))
	assert.Equal(t, 1, l.CleanupIdle(time.Now().Add(idleVisitorTTL+time.Second)))

	assert.True(t, l.Allow("10.0.0.1"), "a forgotten client starts with a full bucket")
	l.CleanupAllVisitors()
	assert.True(t, l.Allow("10.0.0.1"))
}
