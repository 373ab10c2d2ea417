package world

import (
	"context"
	"time"
)

// Run steps the world on a ticker until ctx is done or Stop is called. Each
// tick is fed the measured elapsed time since the previous tick, capped at
// cfg.MaxStep.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if w.paused.Load() {
				continue
			}
			if elapsed < 0 {
				elapsed = 0
			}
			if w.cfg.MaxStep > 0 && elapsed > w.cfg.MaxStep {
				elapsed = w.cfg.MaxStep
			}
			w.step(elapsed.Seconds())
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// StepOnce advances the world by a single tick of dt seconds using the same
// ordering as Run. It is intended for deterministic replays and tests.
func (w *World) StepOnce(dt float64) (tick uint64, digest string) {
	entry := w.step(dt)
	return entry.Tick, entry.Digest
}
