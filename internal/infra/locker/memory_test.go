package locker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestMemoryLocker_BusyKeyTimesOut(t *testing.T) {
	l := NewMemoryLocker(20 * time.Millisecond)

	release, err := l.Lock(context.Background(), "p1:2024-03-01")
	require.NoError(t, err)
	defer release()

	_, err = l.Lock(context.Background(), "p1:2024-03-01")
	assert.True(t, httperr.IsBusiness(err, "schedule_busy"))
}

func TestMemoryLocker_IndependentKeys(t *testing.T) {
	l := NewMemoryLocker(20 * time.Millisecond)

	r1, err := l.Lock(context.Background(), "p1:2024-03-01")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Lock(context.Background(), "p1:2024-03-02")
	require.NoError(t, err)
	r2()
}

func TestMemoryLocker_WaiterAcquiresAfterRelease(t *testing.T) {
	l := NewMemoryLocker(time.Second)

	release, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		r, err := l.Lock(context.Background(), "k")
		if err == nil {
			r()
		}
		acquired <- err
	}()

	time.Sleep(10 * time.Millisecond)
	release()
	release()

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	l := NewMemoryLocker(time.Second)

	release, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
