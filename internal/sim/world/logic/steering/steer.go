package steering

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"exolore.ai/internal/sim/world/kernel/model"
)

var (
	ErrMissingTarget = errors.New("steering: target not in registry")
	ErrZeroLength    = errors.New("steering: robot is at its target")
	ErrNonFinite     = errors.New("steering: position is not finite")
)

// Direction returns the unit vector from -> to. ok is false when the points
// coincide or the offset between them is not finite.
func Direction(from, to orb.Point) (orb.Point, bool) {
	dir, err := direction(from, to)
	return dir, err == nil
}

func direction(from, to orb.Point) (orb.Point, error) {
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	if !finite(dx) || !finite(dy) {
		return orb.Point{}, ErrNonFinite
	}
	d := planar.Distance(from, to)
	if math.IsInf(d, 1) {
		// dx*dx overflowed; Hypot scales before squaring.
		d = math.Hypot(dx, dy)
	}
	if d == 0 {
		return orb.Point{}, ErrZeroLength
	}
	return orb.Point{dx / d, dy / d}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Advance moves pos toward target by speed*dt along the straight line.
// There is no arrival clamping; a step longer than the remaining distance overshoots.
// NaN or infinite dt and speed are treated as no elapsed time.
func Advance(pos, target orb.Point, speed, dt float64) (orb.Point, error) {
	if !(dt > 0) || !(speed > 0) || math.IsInf(dt, 1) || math.IsInf(speed, 1) {
		return pos, nil
	}
	dir, err := direction(pos, target)
	if err != nil {
		return pos, err
	}
	step := speed * dt
	next := orb.Point{pos.X() + dir.X()*step, pos.Y() + dir.Y()*step}
	if !finite(next.X()) || !finite(next.Y()) {
		return pos, ErrNonFinite
	}
	return next, nil
}

type Report struct {
	Moved         int `json:"moved"`
	MissingTarget int `json:"missing_target,omitempty"`
	ZeroLength    int `json:"zero_length,omitempty"`
	NonFinite     int `json:"non_finite,omitempty"`
}

// Step advances every robot holding a target. It only writes Pos; target
// assignment belongs to the resolver.
func Step(robots []*model.Robot, reg *model.Registry, speed, dt float64) Report {
	var rep Report
	for _, r := range robots {
		if r == nil || !r.HasTarget() {
			continue
		}
		o, err := targetOf(r, reg)
		if err != nil {
			rep.MissingTarget++
			continue
		}
		next, err := Advance(r.Pos, o.Pos, speed, dt)
		switch {
		case errors.Is(err, ErrZeroLength):
			rep.ZeroLength++
			continue
		case errors.Is(err, ErrNonFinite):
			rep.NonFinite++
			continue
		case err != nil:
			continue
		}
		if next != r.Pos {
			rep.Moved++
		}
		r.Pos = next
	}
	return rep
}

func targetOf(r *model.Robot, reg *model.Registry) (model.Obstacle, error) {
	o, ok := reg.Lookup(r.Target)
	if !ok {
		return model.Obstacle{}, fmt.Errorf("robot %d target %d: %w", r.ID, r.Target, ErrMissingTarget)
	}
	return o, nil
}
