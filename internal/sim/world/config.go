package world

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"exolore.ai/internal/sim/tuning"
	"exolore.ai/internal/sim/world/kernel/model"
)

type WorldConfig struct {
	ID         string
	TickRateHz int
	// MaxStep caps the elapsed time fed to a single tick by Run (0 = no cap).
	MaxStep time.Duration
	Seed    int64

	Field         orb.Bound
	ObstacleCount int
	ObstacleSize  orb.Point

	RobotCount  int
	RobotSpeed  float64
	RobotEnergy float64
	Modules     []model.Module

	// TargetSelection is "random" (default) or "nearest".
	TargetSelection string
}

// ConfigFromTuning maps a loaded tuning file onto a world config.
func ConfigFromTuning(id string, t tuning.Tuning) (WorldConfig, error) {
	mods, err := model.ParseModules(t.Robots.Modules)
	if err != nil {
		return WorldConfig{}, fmt.Errorf("robots.modules: %w", err)
	}
	return WorldConfig{
		ID:              id,
		TickRateHz:      t.TickRateHz,
		MaxStep:         time.Duration(t.MaxStepMs) * time.Millisecond,
		Seed:            t.Seed,
		Field:           orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{t.Field.Width, t.Field.Height}},
		ObstacleCount:   t.Obstacles.Count,
		ObstacleSize:    orb.Point{t.Obstacles.Size[0], t.Obstacles.Size[1]},
		RobotCount:      t.Robots.Count,
		RobotSpeed:      t.Robots.Speed,
		RobotEnergy:     t.Robots.Energy,
		Modules:         mods,
		TargetSelection: t.TargetSelection,
	}, nil
}
