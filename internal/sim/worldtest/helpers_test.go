package worldtest

import (
	"github.com/paulmach/orb"

	world "exolore.ai/internal/sim/world"
)

const repoTuning = "../../../configs/tuning.yaml"

func baseConfig() world.WorldConfig {
	return world.WorldConfig{
		ID:            "test",
		TickRateHz:    60,
		Seed:          42,
		Field:         orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1920, 1080}},
		ObstacleCount: 5,
		ObstacleSize:  orb.Point{40, 40},
		RobotCount:    1,
		RobotSpeed:    100,
		RobotEnergy:   100,
	}
}
