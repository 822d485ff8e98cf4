package vm

import (
	"testing"

	"github.com/orezstudent/piet/internal/color"
	"github.com/orezstudent/piet/internal/grid"
	"github.com/orezstudent/piet/internal/region"
)

func TestStepAdvancesPositionAndDispatches(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, color.PlainRed)
	g.Set(1, 0, color.DarkRed)
	g.Set(2, 0, color.BlackColor)

	v := New(g, Options{})
	ok, err := v.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !ok {
		t.Fatalf("Step returned halt, want continue")
	}
	if v.pos != (region.Coord{X: 1, Y: 0}) {
		t.Fatalf("pos = %+v, want (1,0)", v.pos)
	}
	if v.ip.DP != region.Right || v.ip.CC != region.CCLeft {
		t.Fatalf("ip = %+v, want (Right, Left)", v.ip)
	}
	// Red -> DarkRed is opcode index 2 (Pop); with an empty stack it is
	// a non-fatal no-op, so the stack remains empty.
	if len(v.stack) != 0 {
		t.Fatalf("stack = %v, want empty after no-op Pop", v.stack)
	}
}

func TestStepHaltsAgainstAllBlackNeighbors(t *testing.T) {
	g := grid.New(1, 1)
	g.Set(0, 0, color.PlainRed)

	v := New(g, Options{})
	ok, err := v.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if ok {
		t.Fatalf("Step returned continue for an isolated 1x1 region, want halt")
	}
}

func TestWhiteSlideReachesProgramColor(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, color.WhiteColor)
	g.Set(1, 0, color.WhiteColor)
	g.Set(2, 0, color.PlainGreen)

	v := New(g, Options{})
	ok, err := v.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !ok {
		t.Fatalf("Step returned halt, want continue past white slide")
	}
	if v.pos != (region.Coord{X: 2, Y: 0}) {
		t.Fatalf("pos = %+v, want (2,0)", v.pos)
	}
}

func TestWhiteSlideHaltsOnCycle(t *testing.T) {
	// A fully White 2x2 grid: every direction is blocked by the grid
	// boundary eventually, and the walker must detect the repeat.
	g := grid.New(2, 2)
	v := New(g, Options{})
	ok, err := v.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if ok {
		t.Fatalf("Step returned continue in an all-White enclosed grid, want halt")
	}
}
