package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"exolore.ai/internal/sim/world/kernel/model"
	"exolore.ai/internal/sim/world/logic/assign"
	"exolore.ai/internal/sim/world/spawn"
)

// Layout is an explicit initial state, used instead of random spawning.
type Layout struct {
	Obstacles []model.Obstacle
	Robots    []*model.Robot
}

// New spawns obstacles uniformly inside the field and all robots at the field
// centre, both driven by cfg.Seed.
func New(cfg WorldConfig) (*World, error) {
	if cfg.ObstacleCount <= 0 {
		return nil, fmt.Errorf("obstacle count must be > 0 (got %d)", cfg.ObstacleCount)
	}
	if cfg.RobotCount <= 0 {
		return nil, fmt.Errorf("robot count must be > 0 (got %d)", cfg.RobotCount)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	obstacles, err := spawn.Obstacles(rng, spawn.ObstacleParams{
		Field: cfg.Field,
		Count: cfg.ObstacleCount,
		Size:  cfg.ObstacleSize,
	})
	if err != nil {
		return nil, err
	}
	robots := spawn.Robots(spawn.RobotParams{
		Station: cfg.Field.Center(),
		Count:   cfg.RobotCount,
		Energy:  cfg.RobotEnergy,
		Modules: cfg.Modules,
	})
	return newWorld(cfg, rng, Layout{Obstacles: obstacles, Robots: robots})
}

// NewFromLayout builds a world around caller-provided obstacles and robots.
// Robot ids must be unique; the world takes ownership of the robots.
func NewFromLayout(cfg WorldConfig, layout Layout) (*World, error) {
	return newWorld(cfg, rand.New(rand.NewSource(cfg.Seed)), layout)
}

func newWorld(cfg WorldConfig, rng *rand.Rand, layout Layout) (*World, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("tick rate must be > 0 (got %d)", cfg.TickRateHz)
	}
	if cfg.RobotSpeed <= 0 {
		return nil, fmt.Errorf("robot speed must be > 0 (got %g)", cfg.RobotSpeed)
	}
	reg, err := model.NewRegistry(layout.Obstacles)
	if err != nil {
		return nil, err
	}
	picker, err := assign.NewPicker(cfg.TargetSelection, rng)
	if err != nil {
		return nil, err
	}

	robots := make([]*model.Robot, 0, len(layout.Robots))
	seen := make(map[uint32]bool, len(layout.Robots))
	for _, r := range layout.Robots {
		if r == nil {
			return nil, errors.New("nil robot in layout")
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate robot id %d", r.ID)
		}
		seen[r.ID] = true
		robots = append(robots, r)
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i].ID < robots[j].ID })

	w := &World{
		cfg:      cfg,
		robots:   robots,
		registry: reg,
		rng:      rng,
		picker:   picker,
		stop:     make(chan struct{}),
	}
	w.publish(0, 0)
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Config() WorldConfig { return w.cfg }

// SetPaused stops Run from stepping; elapsed time does not accumulate while paused.
func (w *World) SetPaused(p bool) { w.paused.Store(p) }
func (w *World) Paused() bool     { return w.paused.Load() }
