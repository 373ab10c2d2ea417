package model

import (
	"errors"
	"fmt"
)

var ErrZeroObstacleID = errors.New("obstacle id 0 is reserved")

// Registry is the read-only obstacle snapshot for a tick.
type Registry struct {
	order []Obstacle
	index map[ObstacleID]int
}

func NewRegistry(obstacles []Obstacle) (*Registry, error) {
	r := &Registry{
		order: make([]Obstacle, 0, len(obstacles)),
		index: make(map[ObstacleID]int, len(obstacles)),
	}
	for _, o := range obstacles {
		if o.ID == NoTarget {
			return nil, ErrZeroObstacleID
		}
		if _, dup := r.index[o.ID]; dup {
			return nil, fmt.Errorf("duplicate obstacle id %d", o.ID)
		}
		r.index[o.ID] = len(r.order)
		r.order = append(r.order, o)
	}
	return r, nil
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

func (r *Registry) Lookup(id ObstacleID) (Obstacle, bool) {
	if r == nil {
		return Obstacle{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return Obstacle{}, false
	}
	return r.order[i], true
}

func (r *Registry) Contains(id ObstacleID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// IDs returns obstacle ids in insertion order.
func (r *Registry) IDs() []ObstacleID {
	if r == nil {
		return nil
	}
	out := make([]ObstacleID, len(r.order))
	for i, o := range r.order {
		out[i] = o.ID
	}
	return out
}

// All returns a copy of the obstacles in insertion order.
func (r *Registry) All() []Obstacle {
	if r == nil {
		return nil
	}
	out := make([]Obstacle, len(r.order))
	copy(out, r.order)
	return out
}
