package world

import (
	"exolore.ai/internal/sim/world/logic/assign"
	"exolore.ai/internal/sim/world/logic/steering"
)

func (w *World) systemTargeting() assign.Result {
	return assign.Resolve(w.robots, w.registry, w.picker)
}

func (w *World) systemMovement(dt float64) steering.Report {
	return steering.Step(w.robots, w.registry, w.cfg.RobotSpeed, dt)
}
