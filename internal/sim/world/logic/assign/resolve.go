package assign

import (
	"exolore.ai/internal/sim/world/kernel/model"
)

type ReleaseReason string

const (
	// ReleaseCollision: an earlier robot in the same pass already holds the target.
	ReleaseCollision ReleaseReason = "collision"
	// ReleaseMissing: the target is not in the current registry.
	ReleaseMissing ReleaseReason = "missing"
)

type Change struct {
	RobotID  uint32           `json:"robot_id"`
	Obstacle model.ObstacleID `json:"obstacle_id"`
	Reason   ReleaseReason    `json:"reason,omitempty"`
}

type Result struct {
	Assigned []Change `json:"assigned,omitempty"`
	Released []Change `json:"released,omitempty"`
	// Idle lists robots left without a target (NoAvailableObstacle).
	Idle    []uint32 `json:"idle,omitempty"`
	Claimed int      `json:"claimed"`
}

// Resolve reconciles every robot's target against a claimed set built from
// scratch for this call. Robots are processed in slice order, so an earlier
// robot keeps a contested target. On return no two robots share a target and a
// robot is targetless only if every obstacle is claimed.
func Resolve(robots []*model.Robot, reg *model.Registry, pick Picker) Result {
	var res Result
	claimed := make(map[model.ObstacleID]struct{}, reg.Len())
	all := reg.All()

	for _, r := range robots {
		if r == nil {
			continue
		}
		if r.HasTarget() {
			_, taken := claimed[r.Target]
			switch {
			case taken:
				res.Released = append(res.Released, Change{RobotID: r.ID, Obstacle: r.Target, Reason: ReleaseCollision})
				r.ClearTarget()
			case !reg.Contains(r.Target):
				res.Released = append(res.Released, Change{RobotID: r.ID, Obstacle: r.Target, Reason: ReleaseMissing})
				r.ClearTarget()
			default:
				claimed[r.Target] = struct{}{}
			}
		}
		if r.HasTarget() {
			continue
		}

		free := unclaimed(all, claimed)
		if len(free) == 0 {
			res.Idle = append(res.Idle, r.ID)
			continue
		}
		i := pick.Pick(r, free)
		if i < 0 || i >= len(free) {
			i = 0
		}
		id := free[i].ID
		r.SetTarget(id)
		claimed[id] = struct{}{}
		res.Assigned = append(res.Assigned, Change{RobotID: r.ID, Obstacle: id})
	}

	res.Claimed = len(claimed)
	return res
}

func unclaimed(all []model.Obstacle, claimed map[model.ObstacleID]struct{}) []model.Obstacle {
	if len(claimed) >= len(all) {
		return nil
	}
	out := make([]model.Obstacle, 0, len(all)-len(claimed))
	for _, o := range all {
		if _, ok := claimed[o.ID]; ok {
			continue
		}
		out = append(out, o)
	}
	return out
}
