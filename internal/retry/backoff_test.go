package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// noJitter makes delays deterministic: offset 0.5 maps to zero jitter.
func noJitter() float64 { return 0.5 }

func TestExponentialBackoffDefaults(t *testing.T) {
	b := NewExponentialBackoff(3)

	assert.Equal(t, 3, b.MaxAttempts())
	assert.Equal(t, 100*time.Millisecond, b.InitialDelay())
	assert.Equal(t, 30*time.Second, b.MaxDelay())
}

func TestExponentialBackoffGrowth(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2.0),
		WithJitterFunc(noJitter),
	)

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, b.NextDelay(3))
}

func TestExponentialBackoffCapsAtMaxDelay(t *testing.T) {
	b := NewExponentialBackoff(10,
		WithInitialDelay(1*time.Second),
		WithMaxDelay(4*time.Second),
		WithJitterFunc(noJitter),
	)

	assert.Equal(t, 4*time.Second, b.NextDelay(5))
	assert.Equal(t, 4*time.Second, b.NextDelay(20))
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(1*time.Second),
		WithJitter(0.2),
	)

	// With 20% jitter the first delay must stay within [800ms, 1200ms].
	for i := 0; i < 100; i++ {
		d := b.NextDelay(0)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestExponentialBackoffZeroJitter(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(250*time.Millisecond),
		WithJitter(0),
	)

	assert.Equal(t, 250*time.Millisecond, b.NextDelay(0))
}

func TestExponentialBackoffUnlimitedAttempts(t *testing.T) {
	b := NewExponentialBackoff(-1)
	assert.Equal(t, -1, b.MaxAttempts())
}
