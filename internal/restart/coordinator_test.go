package restart

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"exit", "exec", "none"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}

	_, err := ParseMode("reboot")
	assert.Error(t, err)
}

func TestCoordinator_DeliversAfterDelay(t *testing.T) {
	c := New(30*time.Millisecond, ModeNone)
	defer c.Stop()

	start := time.Now()
	req := c.Request("save")
	assert.Equal(t, "save", req.Reason)
	assert.NotZero(t, req.ID)

	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, req.ID, pending.ID)

	select {
	case got := <-c.Requests():
		assert.Equal(t, req.ID, got.ID)
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("apply request was not delivered")
	}

	_, ok = c.Pending()
	assert.False(t, ok)
}

func TestCoordinator_NotDeliveredBeforeDelay(t *testing.T) {
	c := New(time.Hour, ModeNone)
	defer c.Stop()

	c.Request("save")

	select {
	case <-c.Requests():
		t.Fatal("delivered before delay")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCoordinator_CoalescesPendingRequests(t *testing.T) {
	c := New(50*time.Millisecond, ModeExit)
	defer c.Stop()

	first := c.Request("save")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first.ID, c.Request("again").ID)
		}()
	}
	wg.Wait()

	select {
	case got := <-c.Requests():
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, "save", got.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("apply request was not delivered")
	}

	select {
	case extra := <-c.Requests():
		t.Fatalf("unexpected second delivery %v", extra.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCoordinator_NewRequestAfterDelivery(t *testing.T) {
	c := New(0, ModeNone)
	defer c.Stop()

	first := c.Request("one")
	got := <-c.Requests()
	assert.Equal(t, first.ID, got.ID)

	second := c.Request("two")
	assert.NotEqual(t, first.ID, second.ID)
	got = <-c.Requests()
	assert.Equal(t, second.ID, got.ID)
}

func TestCoordinator_StopCancelsPending(t *testing.T) {
	c := New(20*time.Millisecond, ModeNone)

	c.Request("save")
	c.Stop()

	_, ok := c.Pending()
	assert.False(t, ok)

	c.Request("after stop")
	select {
	case <-c.Requests():
		t.Fatal("delivered after stop")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestNew_NegativeDelay(t *testing.T) {
	c := New(-time.Second, ModeExec)
	assert.Zero(t, c.Delay())
	assert.Equal(t, ModeExec, c.Mode())
}
