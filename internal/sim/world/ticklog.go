package world

import (
	"exolore.ai/internal/sim/world/logic/assign"
	"exolore.ai/internal/sim/world/logic/steering"
)

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// TickLogEntry records one tick. DT plus the run's config and seed is enough to
// replay the tick; Digest is the state after it.
type TickLogEntry struct {
	Tick     uint64          `json:"tick"`
	DT       float64         `json:"dt"`
	Assigned []assign.Change `json:"assigned,omitempty"`
	Released []assign.Change `json:"released,omitempty"`
	Idle     []uint32        `json:"idle,omitempty"`
	Claimed  int             `json:"claimed"`
	Steering steering.Report `json:"steering"`
	Digest   string          `json:"digest"`
}
