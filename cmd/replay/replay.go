package main

import (
	"fmt"

	persistlog "exolore.ai/internal/persistence/log"
	"exolore.ai/internal/sim/world"
)

type replayResult struct {
	Header  persistlog.RunHeader
	Checked uint64
	Digest  string
}

// replay rebuilds the run's initial world from its header and re-steps every
// recorded dt, failing on the first tick whose digest differs.
func replay(runDir string, maxTicks uint64) (replayResult, error) {
	h, err := persistlog.ReadRunHeader(runDir)
	if err != nil {
		return replayResult{}, fmt.Errorf("read run header: %w", err)
	}
	if err := h.Tuning.Validate(); err != nil {
		return replayResult{}, fmt.Errorf("run header tuning: %w", err)
	}
	cfg, err := world.ConfigFromTuning(h.WorldID, h.Tuning)
	if err != nil {
		return replayResult{}, err
	}
	w, err := world.New(cfg)
	if err != nil {
		return replayResult{}, fmt.Errorf("world: %w", err)
	}

	res := replayResult{Header: h}
	err = persistlog.ReadTicks(persistlog.EventsDir(runDir), func(entry world.TickLogEntry) error {
		if maxTicks != 0 && res.Checked >= maxTicks {
			return persistlog.ErrStop
		}
		if entry.Tick != w.CurrentTick() {
			return fmt.Errorf("tick mismatch: want=%d got=%d", w.CurrentTick(), entry.Tick)
		}
		tick, got := w.StepOnce(entry.DT)
		if tick != entry.Tick {
			return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, entry.Tick)
		}
		res.Checked++
		if got != entry.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, got, entry.Digest)
		}
		res.Digest = got
		return nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}
