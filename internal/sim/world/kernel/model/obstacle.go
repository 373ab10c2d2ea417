package model

import "github.com/paulmach/orb"

// ObstacleID identifies an obstacle within a registry. Zero is never a valid id.
type ObstacleID uint32

const NoTarget ObstacleID = 0

type Obstacle struct {
	ID  ObstacleID
	Pos orb.Point
	// Size is the (width, height) extent. Steering ignores it.
	Size orb.Point
}

// Bound is the obstacle extent centred on Pos.
func (o Obstacle) Bound() orb.Bound {
	hw, hh := o.Size.X()/2, o.Size.Y()/2
	return orb.Bound{
		Min: orb.Point{o.Pos.X() - hw, o.Pos.Y() - hh},
		Max: orb.Point{o.Pos.X() + hw, o.Pos.Y() + hh},
	}
}
