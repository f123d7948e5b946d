package poller

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semaphore.iot/internal/models"
	"semaphore.iot/internal/view"
)

func TestStartStopTransitions(t *testing.T) {
	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		return models.Snapshot{}, nil
	}
	p := New(fetch, view.NewState(), time.Hour, 10)

	assert.False(t, p.Active())
	p.Start()
	assert.True(t, p.Active())
	p.Start() // starting an active poller is a no-op
	assert.True(t, p.Active())

	p.Stop()
	assert.False(t, p.Active())
	p.Stop() // stopping an inactive poller is a no-op
	assert.False(t, p.Active())
}

func TestPollerRefreshesView(t *testing.T) {
	state := view.NewState()
	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		assert.Equal(t, 10, count)
		return models.Snapshot{{Temperature: "21", SourceID: "sem-1"}}, nil
	}

	p := New(fetch, state, 10*time.Millisecond, 10)
	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		reading, _ := state.Current()
		return reading.Temperature == "21"
	}, time.Second, 5*time.Millisecond)
}

func TestStopReleasesTicker(t *testing.T) {
	var calls int64
	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		atomic.AddInt64(&calls, 1)
		return models.Snapshot{}, nil
	}

	p := New(fetch, view.NewState(), 10*time.Millisecond, 10)
	p.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&calls) >= 2
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	// Let fetches spawned before the stop drain, then expect silence.
	time.Sleep(20 * time.Millisecond)
	after := atomic.LoadInt64(&calls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&calls))
}

func TestLateFetchAfterStopDoesNotMutateView(t *testing.T) {
	state := view.NewState()
	state.Replace(models.Snapshot{{Temperature: "20"}})

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		close(started)
		<-release
		return models.Snapshot{{Temperature: "99"}}, nil
	}

	// One-hour interval: only the priming fetch runs.
	p := New(fetch, state, time.Hour, 10)
	p.Start()
	<-started

	p.Stop()
	close(release) // the fetch resolves after Stop returned

	time.Sleep(50 * time.Millisecond)
	reading, _ := state.Current()
	assert.Equal(t, "20", reading.Temperature, "late fetch must not win after stop")
}

func TestFetchErrorKeepsPreviousSnapshot(t *testing.T) {
	state := view.NewState()
	state.Replace(models.Snapshot{{Temperature: "20"}, {Temperature: "22"}})

	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		return nil, errors.New("connection refused")
	}
	p := New(fetch, state, time.Hour, 10)

	p.poll(context.Background())

	snap := state.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "22", snap.Latest().Temperature)
}

func TestOverlappingFetchesLastCompletionWins(t *testing.T) {
	state := view.NewState()

	claimed := []chan struct{}{make(chan struct{}), make(chan struct{})}
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	done := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var next int32
	fetch := func(ctx context.Context, count int) (models.Snapshot, error) {
		i := int(atomic.AddInt32(&next, 1)) - 1
		close(claimed[i])
		<-release[i]
		return models.Snapshot{{Temperature: strconv.Itoa(i)}}, nil
	}

	p := New(fetch, state, time.Hour, 10)
	ctx := context.Background()

	go func() {
		p.poll(ctx)
		close(done[0])
	}()
	<-claimed[0]
	go func() {
		p.poll(ctx)
		close(done[1])
	}()
	<-claimed[1]

	// Fetch 1 completes first, fetch 0 last: the later completion wins.
	close(release[1])
	<-done[1]
	close(release[0])
	<-done[0]

	reading, _ := state.Current()
	assert.Equal(t, "0", reading.Temperature)
}

func TestNewAppliesDefaults(t *testing.T) {
	p := New(nil, view.NewState(), 0, 0)
	assert.Equal(t, DefaultInterval, p.interval)
	assert.Equal(t, DefaultCount, p.count)
}
