package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeduperRejectsWithinTTL(t *testing.T) {
	d := New(time.Minute, 100)
	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess("b"))
}

func TestDeduperAcceptsAfterTTL(t *testing.T) {
	d := New(10*time.Millisecond, 100)
	assert.True(t, d.ShouldProcess("a"))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, d.ShouldProcess("a"))
}

func TestDeduperEmptyIDAlwaysProcessed(t *testing.T) {
	d := New(time.Minute, 100)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
}

func TestDeduperDefaults(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, 10*time.Minute, d.ttl)
	assert.Equal(t, 10000, d.max)
}
