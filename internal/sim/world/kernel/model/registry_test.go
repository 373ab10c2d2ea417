package model

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestRegistry_LookupAndOrder(t *testing.T) {
	reg, err := NewRegistry([]Obstacle{
		{ID: 3, Pos: orb.Point{30, 30}},
		{ID: 1, Pos: orb.Point{10, 10}},
		{ID: 2, Pos: orb.Point{20, 20}},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("len=%d want 3", reg.Len())
	}
	ids := reg.IDs()
	want := []ObstacleID{3, 1, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids=%v want %v", ids, want)
		}
	}
	o, ok := reg.Lookup(1)
	if !ok || !o.Pos.Equal(orb.Point{10, 10}) {
		t.Fatalf("lookup 1: ok=%v obstacle=%+v", ok, o)
	}
	if reg.Contains(9) {
		t.Fatalf("unexpected obstacle 9")
	}
	if reg.Contains(NoTarget) {
		t.Fatalf("NoTarget must never resolve")
	}
}

func TestRegistry_RejectsBadIDs(t *testing.T) {
	if _, err := NewRegistry([]Obstacle{{ID: 0}}); !errors.Is(err, ErrZeroObstacleID) {
		t.Fatalf("zero id: err=%v", err)
	}
	if _, err := NewRegistry([]Obstacle{{ID: 1}, {ID: 1}}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *Registry
	if reg.Len() != 0 || reg.Contains(1) || len(reg.IDs()) != 0 {
		t.Fatalf("nil registry should behave as empty")
	}
}

func TestObstacle_Bound(t *testing.T) {
	o := Obstacle{ID: 1, Pos: orb.Point{100, 50}, Size: orb.Point{40, 20}}
	b := o.Bound()
	if !b.Min.Equal(orb.Point{80, 40}) || !b.Max.Equal(orb.Point{120, 60}) {
		t.Fatalf("bound=%v", b)
	}
	if !b.Contains(o.Pos) {
		t.Fatalf("bound should contain centre")
	}
}

func TestRobot_TargetStates(t *testing.T) {
	r := &Robot{ID: 1}
	if r.State() != StateSeeking || r.HasTarget() {
		t.Fatalf("new robot should be seeking")
	}
	r.SetTarget(4)
	if r.State() != StateMoving || r.Target != 4 {
		t.Fatalf("robot should be moving toward 4, got %s/%d", r.State(), r.Target)
	}
	r.ClearTarget()
	if r.State() != StateSeeking {
		t.Fatalf("cleared robot should be seeking")
	}
}

func TestParseModules(t *testing.T) {
	mods, err := ParseModules([]string{"chemical_analysis", " DRILLING ", "HIGH_RES_IMAGING"})
	if err != nil {
		t.Fatalf("ParseModules: %v", err)
	}
	if len(mods) != 3 || mods[0] != ModuleChemicalAnalysis || mods[1] != ModuleDrilling || mods[2] != ModuleHighResImaging {
		t.Fatalf("mods=%v", mods)
	}
	r := Robot{Modules: mods}
	if !r.HasModule(ModuleDrilling) {
		t.Fatalf("expected drilling module")
	}
	if _, err := ParseModule("LASER"); err == nil {
		t.Fatalf("expected unknown module error")
	}
	if got := Module(9).String(); got != "MODULE(9)" {
		t.Fatalf("unknown module string=%q", got)
	}
}
