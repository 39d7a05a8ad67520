package configwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerDropsStaleFiring(t *testing.T) {
	fired := make(chan firing, 4)
	d := newDebouncer(time.Millisecond, func(f firing) { fired <- f })
	defer d.stop()

	receive := func() firing {
		t.Helper()
		select {
		case f := <-fired:
			return f
		case <-time.After(2 * time.Second):
			require.FailNow(t, "timer never fired")
			return firing{}
		}
	}

	// The first timer fires but is not consumed before the next event.
	d.schedule("/etc/gymbot/allowlist.txt")
	stale := receive()
	d.schedule("/etc/gymbot/allowlist.txt")
	latest := receive()

	assert.False(t, d.done(stale))
	assert.True(t, d.done(latest))
	assert.False(t, d.done(latest), "each firing is consumed once")
}

func TestDebouncerKeepsPathsApart(t *testing.T) {
	fired := make(chan firing, 4)
	d := newDebouncer(time.Millisecond, func(f firing) { fired <- f })
	defer d.stop()

	d.schedule("a")
	d.schedule("b")

	got := map[string]bool{}
	for range 2 {
		select {
		case f := <-fired:
			got[f.path] = d.done(f)
		case <-time.After(2 * time.Second):
			require.FailNow(t, "timer never fired")
		}
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, got)
}
