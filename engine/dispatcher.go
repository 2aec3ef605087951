package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/articlereader/models"
)

// Dispatcher coordinates multi-engine racing with staged escalation.
// It starts the cheapest engine first and escalates to heavier engines when
// earlier ones fail or take longer than their escalation delay.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
}

// NewDispatcher creates a Dispatcher with the given engines and escalation delays.
// engines[i] starts after escalationDelays[i] from the race beginning, or as
// soon as engines[i-1] has failed. Missing delays default to 0.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	copy(delays, escalationDelays)
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
	}
}

// Fetch runs the race for rawURL and returns the first successful snapshot.
// If all engines fail, it returns the last error received.
func (d *Dispatcher) Fetch(ctx context.Context, rawURL string) (*models.PageSnapshot, error) {
	type raceResult struct {
		snap *models.PageSnapshot
		err  error
	}

	if len(d.engines) == 0 {
		return nil, fmt.Errorf("dispatcher: no engines configured")
	}

	raceCtx, raceCancel := context.WithCancel(ctx)
	defer raceCancel()

	results := make(chan raceResult, len(d.engines))
	// failed[i] is closed once engine i has given up without a result,
	// releasing engine i+1 before its delay expires.
	failed := make([]chan struct{}, len(d.engines))
	for i := range failed {
		failed[i] = make(chan struct{})
	}

	var wg sync.WaitGroup
	for i, eng := range d.engines {
		wg.Add(1)
		go func(i int, e Engine, delay time.Duration) {
			defer wg.Done()
			won := false
			defer func() {
				if !won {
					close(failed[i])
				}
			}()

			if delay > 0 {
				var prev <-chan struct{}
				if i > 0 {
					prev = failed[i-1]
				}
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-raceCtx.Done():
					return
				case <-timer.C:
				case <-prev:
				}
			}

			// Another engine may already have won.
			if raceCtx.Err() != nil {
				return
			}

			slog.Debug("engine starting", "engine", e.Name(), "url", rawURL)
			snap, err := e.Fetch(raceCtx, rawURL)
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", rawURL, "error", err)
			}
			won = err == nil
			results <- raceResult{snap: snap, err: err}
		}(i, eng, d.escalationDelays[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for rr := range results {
		if rr.err != nil {
			lastErr = rr.err
			continue
		}
		// First success wins; cancel the others.
		raceCancel()
		slog.Info("engine won race", "engine", rr.snap.Engine, "url", rawURL)
		return rr.snap, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("dispatcher: all engines failed for %s: %w", rawURL, ctx.Err())
	}
	return nil, lastErr
}
