package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
	"semaphore.iot/internal/view"
)

// Defaults used by the dashboard.
const (
	DefaultInterval = 5 * time.Second
	DefaultCount    = 10
)

// FetchFunc asks the readings source for the last count readings.
type FetchFunc func(ctx context.Context, count int) (models.Snapshot, error)

// Poller drives the view state: every interval it fetches the last count
// readings and replaces the snapshot wholesale. Fetches may overlap; the
// one that completes last wins. A failed fetch is logged and skipped, the
// previous snapshot stays intact.
type Poller struct {
	fetch    FetchFunc
	view     *view.State
	interval time.Duration
	count    int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// applyMu serializes snapshot application so Stop can act as a
	// barrier: after Stop returns, no late fetch mutates the view.
	applyMu sync.Mutex
}

// New returns an inactive poller. Non-positive interval or count fall back
// to the defaults.
func New(fetch FetchFunc, v *view.State, interval time.Duration, count int) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if count <= 0 {
		count = DefaultCount
	}
	return &Poller{
		fetch:    fetch,
		view:     v,
		interval: interval,
		count:    count,
	}
}

// Start transitions the poller to active and begins polling. Starting an
// active poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.run(ctx, done)
}

// Stop transitions the poller to inactive, releases the ticker and
// guarantees that no in-flight fetch mutates the view state after it
// returns. Stopping an inactive poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	cancel()
	<-done

	// An apply that is past its cancellation check finishes before this
	// barrier; every later one sees the cancelled context and drops out.
	p.applyMu.Lock()
	defer p.applyMu.Unlock()
}

// Active reports whether the poller is currently polling.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Prime the view once on activation instead of waiting a full interval.
	go p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snapshot, err := p.fetch(ctx, p.count)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("fetch failed, skipping this cycle")
		}
		return
	}

	p.applyMu.Lock()
	defer p.applyMu.Unlock()
	if ctx.Err() != nil {
		// Stopped while the fetch was in flight.
		return
	}
	p.view.Replace(snapshot)
}
