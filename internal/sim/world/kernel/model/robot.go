package model

import "github.com/paulmach/orb"

// RobotState is derived from the target reference; only the resolver moves a
// robot between states.
type RobotState uint8

const (
	StateSeeking RobotState = iota
	StateMoving
)

func (s RobotState) String() string {
	if s == StateMoving {
		return "MOVING"
	}
	return "SEEKING"
}

type Robot struct {
	ID uint32

	Pos       orb.Point
	Direction orb.Point

	// Economy state. Carried and logged, never consumed by the core.
	Energy           float64
	Minerals         float64
	PointsOfInterest []orb.Point
	Modules          []Module

	// Target is a lookup key into the obstacle registry, never an owning
	// reference. NoTarget means the robot is seeking.
	Target ObstacleID
}

func (r *Robot) HasTarget() bool { return r.Target != NoTarget }
func (r *Robot) ClearTarget()    { r.Target = NoTarget }

func (r *Robot) SetTarget(id ObstacleID) { r.Target = id }

func (r *Robot) State() RobotState {
	if r.HasTarget() {
		return StateMoving
	}
	return StateSeeking
}

// HasModule reports whether m is equipped.
func (r *Robot) HasModule(m Module) bool {
	for _, have := range r.Modules {
		if have == m {
			return true
		}
	}
	return false
}
