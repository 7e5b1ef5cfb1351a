/*
scheduler.go - Calculation run retention scheduler

PURPOSE:
  Periodically deletes stored calculation runs that are older than the
  retention window, so the runs table does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - One sweep immediately on start, then one per tick
  - Errors are logged and retried on the next tick

CONFIGURATION:
  - Retention: Age after which runs are deleted (0 disables)
  - CheckInterval: How often to sweep (default: 1 hour)

USAGE:
  scheduler := NewRetentionScheduler(store, 30*24*time.Hour, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - sickpay/store.go: DeleteRunsBefore
  - config/config.go: VAKANS_RUN_RETENTION, VAKANS_RETENTION_INTERVAL
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/vacancy-engine/sickpay"
)

// RetentionScheduler deletes expired calculation runs.
type RetentionScheduler struct {
	Store         sickpay.Store
	Retention     time.Duration
	CheckInterval time.Duration
	Logger        zerolog.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a new scheduler.
func NewRetentionScheduler(store sickpay.Store, retention time.Duration, logger zerolog.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		Store:         store,
		Retention:     retention,
		CheckInterval: 1 * time.Hour,
		Logger:        logger,
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.Retention <= 0 {
		rs.Logger.Info().Msg("run retention disabled, scheduler not started")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.Info().
		Dur("retention", rs.Retention).
		Dur("interval", rs.CheckInterval).
		Msg("retention scheduler started")
}

// Stop stops the scheduler and waits for an in-flight sweep.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info().Msg("retention scheduler stopped")
	}
}

func (rs *RetentionScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.sweep()

	for {
		select {
		case <-rs.ticker.C:
			rs.sweep()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RetentionScheduler) sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := rs.now().UTC().Add(-rs.Retention)
	n, err := rs.Store.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		rs.Logger.Error().Err(err).Time("cutoff", cutoff).Msg("retention sweep failed")
		return 0
	}
	if n > 0 {
		rs.Logger.Info().Int("deleted", n).Time("cutoff", cutoff).Msg("expired runs deleted")
	}
	return n
}

// RunNow performs one sweep and reports how many runs were deleted.
func (rs *RetentionScheduler) RunNow() int {
	return rs.sweep()
}

// NextRunTime returns when the next scheduled sweep will occur.
func (rs *RetentionScheduler) NextRunTime() time.Time {
	return rs.now().Add(rs.CheckInterval)
}
