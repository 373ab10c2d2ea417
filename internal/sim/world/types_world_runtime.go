package world

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"exolore.ai/internal/sim/world/kernel/model"
	"exolore.ai/internal/sim/world/logic/assign"
)

// World is a single-threaded authoritative simulation.
// Robot and registry state must be accessed only from the goroutine that steps the world.
type World struct {
	cfg WorldConfig

	tick    atomic.Uint64
	metrics atomic.Value // WorldMetrics
	view    atomic.Value // View
	paused  atomic.Bool

	// Sorted by ID; the resolver's processing order.
	robots   []*model.Robot
	registry *model.Registry

	rng    *rand.Rand
	picker assign.Picker

	stop     chan struct{}
	stopOnce sync.Once

	// Optional (may be nil). Implemented in internal/persistence/*.
	tickLogger TickLogger

	totals counters
}

type counters struct {
	assigned      uint64
	released      uint64
	noAvailable   uint64
	missingTarget uint64
	zeroLength    uint64
	nonFinite     uint64
}
