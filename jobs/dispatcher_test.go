package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(buffer, workers int) *Dispatcher {
	d := &Dispatcher{
		queue:       make(chan job, buffer),
		maxAttempts: 3,
		retryDelay:  time.Millisecond,
	}
	d.start(workers)
	return d
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcherRunsJob(t *testing.T) {
	d := newTestDispatcher(4, 1)
	defer d.Close()

	var ran int32
	ok := d.Enqueue("test", func() error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	require.True(t, ok)

	waitFor(t, func() bool { return atomic.LoadInt32(&ran) == 1 })
}

func TestDispatcherRetriesFailedJob(t *testing.T) {
	d := newTestDispatcher(4, 1)
	defer d.Close()

	var attempts int32
	d.Enqueue("flaky", func() error {
		if atomic.AddInt32(&attempts, 1) < 2 {
			return errors.New("transient")
		}
		return nil
	})

	waitFor(t, func() bool { return atomic.LoadInt32(&attempts) == 2 })
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	d := newTestDispatcher(4, 1)
	defer d.Close()

	var attempts int32
	d.Enqueue("doomed", func() error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	})

	waitFor(t, func() bool { return atomic.LoadInt32(&attempts) == 3 })
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	d := newTestDispatcher(4, 1)
	defer d.Close()

	var ran int32
	d.Enqueue("panics", func() error { panic("boom") })
	d.Enqueue("survivor", func() error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	waitFor(t, func() bool { return atomic.LoadInt32(&ran) == 1 })
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// No workers, so nothing drains the single-slot queue.
	d := &Dispatcher{
		queue:       make(chan job, 1),
		maxAttempts: 3,
		retryDelay:  time.Millisecond,
	}

	assert.True(t, d.Enqueue("first", func() error { return nil }))
	assert.False(t, d.Enqueue("second", func() error { return nil }))
}

func TestDispatcherRefusesJobsAfterClose(t *testing.T) {
	d := newTestDispatcher(4, 1)
	d.Close()

	assert.False(t, d.Enqueue("late", func() error { return nil }))
}
