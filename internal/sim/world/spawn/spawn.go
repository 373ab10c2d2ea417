package spawn

import (
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"

	"exolore.ai/internal/sim/world/kernel/model"
)

type ObstacleParams struct {
	Field orb.Bound
	Count int
	Size  orb.Point
}

// Obstacles places count obstacles uniformly at random inside field, keeping
// each obstacle's bound within the field. IDs start at 1.
func Obstacles(rng *rand.Rand, p ObstacleParams) ([]model.Obstacle, error) {
	if p.Count < 0 {
		return nil, fmt.Errorf("obstacle count must be >= 0 (got %d)", p.Count)
	}
	area := inset(p.Field, p.Size.X()/2, p.Size.Y()/2)
	if area.Min.X() > area.Max.X() || area.Min.Y() > area.Max.Y() {
		return nil, fmt.Errorf("obstacle size %v does not fit in field %v", p.Size, p.Field)
	}
	out := make([]model.Obstacle, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		x := area.Min.X() + rng.Float64()*(area.Max.X()-area.Min.X())
		y := area.Min.Y() + rng.Float64()*(area.Max.Y()-area.Min.Y())
		out = append(out, model.Obstacle{
			ID:   model.ObstacleID(i + 1),
			Pos:  orb.Point{x, y},
			Size: p.Size,
		})
	}
	return out, nil
}

type RobotParams struct {
	// Station is where every robot starts.
	Station orb.Point
	Count   int
	Energy  float64
	Modules []model.Module
}

func Robots(p RobotParams) []*model.Robot {
	out := make([]*model.Robot, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		mods := make([]model.Module, len(p.Modules))
		copy(mods, p.Modules)
		out = append(out, &model.Robot{
			ID:        uint32(i + 1),
			Pos:       p.Station,
			Direction: orb.Point{1, 1},
			Energy:    p.Energy,
			Modules:   mods,
		})
	}
	return out
}

func inset(b orb.Bound, dx, dy float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min.X() + dx, b.Min.Y() + dy},
		Max: orb.Point{b.Max.X() - dx, b.Max.Y() - dy},
	}
}
