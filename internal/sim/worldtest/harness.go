package worldtest

import (
	"testing"

	"exolore.ai/internal/sim/tuning"
	world "exolore.ai/internal/sim/world"
	"exolore.ai/internal/sim/world/kernel/model"
)

// Harness drives a world through its exported API only and keeps every tick
// log entry it produces.
type Harness struct {
	T *testing.T
	W *world.World

	Entries []world.TickLogEntry
}

func NewHarness(t *testing.T, cfg world.WorldConfig) *Harness {
	t.Helper()
	w, err := world.New(cfg)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return wrap(t, w)
}

func NewHarnessFromLayout(t *testing.T, cfg world.WorldConfig, layout world.Layout) *Harness {
	t.Helper()
	w, err := world.NewFromLayout(cfg, layout)
	if err != nil {
		t.Fatalf("world.NewFromLayout: %v", err)
	}
	return wrap(t, w)
}

// NewHarnessFromTuning builds the world the way cmd/sim does, from a tuning
// file path relative to this package.
func NewHarnessFromTuning(t *testing.T, path string, edit func(*tuning.Tuning)) *Harness {
	t.Helper()
	tune, err := tuning.Load(path)
	if err != nil {
		t.Fatalf("tuning.Load: %v", err)
	}
	if edit != nil {
		edit(&tune)
	}
	cfg, err := world.ConfigFromTuning("test", tune)
	if err != nil {
		t.Fatalf("ConfigFromTuning: %v", err)
	}
	return NewHarness(t, cfg)
}

func wrap(t *testing.T, w *world.World) *Harness {
	h := &Harness{T: t, W: w}
	w.SetTickLogger(h)
	return h
}

func (h *Harness) WriteTick(e world.TickLogEntry) error {
	h.Entries = append(h.Entries, e)
	return nil
}

// Step advances one tick of dt seconds and returns its log entry.
func (h *Harness) Step(dt float64) world.TickLogEntry {
	h.T.Helper()
	before := len(h.Entries)
	h.W.StepOnce(dt)
	if len(h.Entries) != before+1 {
		h.T.Fatalf("expected one tick log entry, got %d", len(h.Entries)-before)
	}
	return h.Entries[len(h.Entries)-1]
}

func (h *Harness) StepFor(n int, dt float64) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.Step(dt)
	}
}

func (h *Harness) Robot(id uint32) model.Robot {
	h.T.Helper()
	r, ok := h.W.Robot(id)
	if !ok {
		h.T.Fatalf("robot %d not found", id)
	}
	return r
}

// Claims maps each claimed obstacle to the robots targeting it in the latest view.
func (h *Harness) Claims() map[model.ObstacleID][]uint32 {
	out := map[model.ObstacleID][]uint32{}
	for _, r := range h.W.View().Robots {
		if r.HasTarget() {
			out[r.Target] = append(out[r.Target], r.ID)
		}
	}
	return out
}
