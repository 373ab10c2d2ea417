package assign

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/paulmach/orb/planar"

	"exolore.ai/internal/sim/world/kernel/model"
)

// Picker chooses one of the unclaimed candidates (never empty) for a targetless robot.
type Picker interface {
	Pick(r *model.Robot, candidates []model.Obstacle) int
}

// RandomPicker picks uniformly at random. It is the live selection strategy.
type RandomPicker struct {
	Rand *rand.Rand
}

func (p RandomPicker) Pick(_ *model.Robot, candidates []model.Obstacle) int {
	if len(candidates) <= 1 {
		return 0
	}
	if p.Rand == nil {
		return rand.Intn(len(candidates))
	}
	return p.Rand.Intn(len(candidates))
}

// NearestPicker picks the candidate closest to the robot; ties keep registry order.
type NearestPicker struct{}

func (NearestPicker) Pick(r *model.Robot, candidates []model.Obstacle) int {
	best := 0
	bestDist := -1.0
	for i, o := range candidates {
		d := planar.DistanceSquared(r.Pos, o.Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

const (
	SelectRandom  = "random"
	SelectNearest = "nearest"
)

func NewPicker(selection string, rng *rand.Rand) (Picker, error) {
	switch strings.ToLower(strings.TrimSpace(selection)) {
	case "", SelectRandom:
		return RandomPicker{Rand: rng}, nil
	case SelectNearest:
		return NearestPicker{}, nil
	default:
		return nil, fmt.Errorf("unknown target selection %q", selection)
	}
}
