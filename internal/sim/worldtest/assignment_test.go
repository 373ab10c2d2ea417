package worldtest

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exolore.ai/internal/sim/tuning"
	world "exolore.ai/internal/sim/world"
	"exolore.ai/internal/sim/world/kernel/model"
	"exolore.ai/internal/sim/world/logic/assign"
)

func TestAssignment_SingleRobotMovesTowardObstacle(t *testing.T) {
	h := NewHarnessFromLayout(t, baseConfig(), world.Layout{
		Obstacles: []model.Obstacle{{ID: 1, Pos: orb.Point{500, 300}}},
		Robots:    []*model.Robot{{ID: 1}},
	})

	e := h.Step(1.0)
	require.Len(t, e.Assigned, 1)
	assert.Equal(t, assign.Change{RobotID: 1, Obstacle: 1}, e.Assigned[0])
	r := h.Robot(1)
	assert.InDelta(t, 85.749, r.Pos.X(), 1e-3)
	assert.InDelta(t, 51.450, r.Pos.Y(), 1e-3)
	assert.InDelta(t, 100, planar.Distance(orb.Point{}, r.Pos), 1e-9)

	e = h.Step(1.0)
	assert.Empty(t, e.Assigned)
	assert.Equal(t, model.ObstacleID(1), h.Robot(1).Target)
	assert.InDelta(t, 200, planar.Distance(orb.Point{}, h.Robot(1).Pos), 1e-9)
}

func TestAssignment_MoreRobotsThanObstacles(t *testing.T) {
	h := NewHarnessFromTuning(t, repoTuning, func(tu *tuning.Tuning) {
		tu.Robots.Count = 8
		tu.Obstacles.Count = 5
	})

	first := h.Step(1.0 / 60)
	assert.Len(t, first.Assigned, 5)
	assert.Len(t, first.Idle, 3)
	assert.Equal(t, 5, first.Claimed)

	for i := 0; i < 120; i++ {
		e := h.Step(1.0 / 60)
		assert.Empty(t, e.Assigned, "tick %d", e.Tick)
		assert.Empty(t, e.Released, "tick %d", e.Tick)
		assert.Len(t, e.Idle, 3)
	}
	for id, robots := range h.Claims() {
		assert.Len(t, robots, 1, "obstacle %d", id)
	}
	m := h.W.Metrics()
	assert.Equal(t, 5, m.Targeted)
	assert.Equal(t, 3, m.Idle)
	assert.Equal(t, uint64(5), m.AssignedTotal)
}

func TestAssignment_ConflictingTargetsAreResolved(t *testing.T) {
	// Robots 1 and 2 start out claiming the same obstacle; 3 is free.
	h := NewHarnessFromLayout(t, baseConfig(), world.Layout{
		Obstacles: []model.Obstacle{{ID: 1, Pos: orb.Point{100, 0}}, {ID: 2, Pos: orb.Point{0, 100}}},
		Robots: []*model.Robot{
			{ID: 2, Target: 1},
			{ID: 1, Target: 1},
			{ID: 3, Target: 9},
		},
	})

	e := h.Step(0.1)
	assert.Contains(t, e.Released, assign.Change{RobotID: 2, Obstacle: 1, Reason: assign.ReleaseCollision})
	assert.Contains(t, e.Released, assign.Change{RobotID: 3, Obstacle: 9, Reason: assign.ReleaseMissing})
	assert.Equal(t, model.ObstacleID(1), h.Robot(1).Target)
	assert.Equal(t, model.ObstacleID(2), h.Robot(2).Target)
	assert.Equal(t, model.NoTarget, h.Robot(3).Target)
	assert.Equal(t, []uint32{3}, e.Idle)
	assert.Equal(t, uint64(2), h.W.Metrics().ReleasedTotal)
}

func TestAssignment_NearestSelectionFromTuning(t *testing.T) {
	h := NewHarnessFromTuning(t, repoTuning, func(tu *tuning.Tuning) {
		tu.TargetSelection = "nearest"
		tu.Obstacles.Count = 6
	})
	h.Step(0)

	v := h.W.View()
	require.Len(t, v.Robots, 1)
	station := v.Field.Center()
	best := -1.0
	for _, o := range v.Obstacles {
		if d := planar.DistanceSquared(station, o.Pos); best < 0 || d < best {
			best = d
		}
	}
	got := planar.DistanceSquared(station, v.Robots[0].TargetPos)
	assert.Equal(t, best, got)
}

func TestAssignment_ZeroElapsedOnlyAssigns(t *testing.T) {
	h := NewHarness(t, baseConfig())
	start := h.Robot(1).Pos
	e := h.Step(0)
	assert.Len(t, e.Assigned, 1)
	assert.Equal(t, start, h.Robot(1).Pos)
	assert.Equal(t, 0, e.Steering.Moved)
}
