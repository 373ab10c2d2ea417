package world

import (
	"github.com/paulmach/orb"

	"exolore.ai/internal/sim/world/kernel/model"
)

// View is an immutable copy of the renderable state after a tick.
type View struct {
	Tick      uint64         `json:"tick"`
	Field     orb.Bound      `json:"field"`
	Robots    []RobotView    `json:"robots"`
	Obstacles []ObstacleView `json:"obstacles"`
}

type RobotView struct {
	ID        uint32           `json:"id"`
	Pos       orb.Point        `json:"pos"`
	State     string           `json:"state"`
	Target    model.ObstacleID `json:"target,omitempty"`
	TargetPos orb.Point        `json:"target_pos,omitempty"`
}

type ObstacleView struct {
	ID        model.ObstacleID `json:"id"`
	Pos       orb.Point        `json:"pos"`
	Bound     orb.Bound        `json:"bound"`
	ClaimedBy uint32           `json:"claimed_by,omitempty"`
}

func (v RobotView) HasTarget() bool { return v.Target != model.NoTarget }

// View returns the state published after the most recent tick. Safe for
// concurrent use with Run.
func (w *World) View() View {
	v, _ := w.view.Load().(View)
	return v
}

func (w *World) buildView(tick uint64) View {
	claimedBy := make(map[model.ObstacleID]uint32, len(w.robots))
	robots := make([]RobotView, 0, len(w.robots))
	for _, r := range w.robots {
		rv := RobotView{ID: r.ID, Pos: r.Pos, State: r.State().String(), Target: r.Target}
		if o, ok := w.registry.Lookup(r.Target); ok {
			rv.TargetPos = o.Pos
			claimedBy[o.ID] = r.ID
		}
		robots = append(robots, rv)
	}
	all := w.registry.All()
	obstacles := make([]ObstacleView, 0, len(all))
	for _, o := range all {
		obstacles = append(obstacles, ObstacleView{
			ID:        o.ID,
			Pos:       o.Pos,
			Bound:     o.Bound(),
			ClaimedBy: claimedBy[o.ID],
		})
	}
	return View{Tick: tick, Field: w.cfg.Field, Robots: robots, Obstacles: obstacles}
}

// Robot returns a copy of the robot with the given id.
// Must be called from the goroutine stepping the world.
func (w *World) Robot(id uint32) (model.Robot, bool) {
	for _, r := range w.robots {
		if r.ID == id {
			return *r, true
		}
	}
	return model.Robot{}, false
}

// Registry exposes the obstacle snapshot. It is read-only and safe to share.
func (w *World) Registry() *model.Registry { return w.registry }
