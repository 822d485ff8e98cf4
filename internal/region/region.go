// Package region implements 4-connected flood fill over a codel grid and
// the canonical exit-codel rule used to cross from one colored region to
// the next during execution.
package region

import (
	"math/big"

	"github.com/orezstudent/piet/internal/color"
	"github.com/orezstudent/piet/internal/grid"
)

// DP is the direction pointer: one of four compass directions.
type DP int

const (
	Right DP = iota
	Down
	Left
	Up
)

// Rotate advances DP by n quarter-turns clockwise (n may be negative).
func (d DP) Rotate(n int) DP {
	m := (int(d) + n) % 4
	if m < 0 {
		m += 4
	}
	return DP(m)
}

func (d DP) delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Up:
		return 0, -1
	}
	panic("region: invalid DP")
}

// CC is the codel chooser: Left or Right of DP.
type CC int

const (
	CCLeft CC = iota
	CCRight
)

// Flip toggles CC.
func (c CC) Flip() CC {
	if c == CCLeft {
		return CCRight
	}
	return CCLeft
}

// IP is the instruction pointer: a (DP, CC) pair.
type IP struct {
	DP DP
	CC CC
}

// Coord is a grid coordinate.
type Coord struct{ X, Y int }

// Region is an immutable 4-connected monochromatic component.
type Region struct {
	Color  color.Color
	coords []Coord
}

// Extract performs a 4-neighbor BFS from (x, y) over g, collecting every
// reachable coordinate of the same color. The caller must ensure (x, y)
// is in bounds and not Black/Other.
func Extract(g *grid.Grid, x, y int) *Region {
	c := g.At(x, y)
	visited := map[Coord]bool{{x, y}: true}
	queue := []Coord{{x, y}}
	coords := make([]Coord, 0, 16)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		coords = append(coords, cur)
		for _, n := range neighbors(cur) {
			if !g.InBounds(n.X, n.Y) || visited[n] {
				continue
			}
			if g.At(n.X, n.Y) != c {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return &Region{Color: c, coords: coords}
}

func neighbors(c Coord) [4]Coord {
	return [4]Coord{
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
	}
}

// Value returns the region's cardinality as a bignum, used as the
// immediate for a Push opcode.
func (r *Region) Value() *big.Int {
	return big.NewInt(int64(len(r.coords)))
}

// Len returns the region's cardinality as a plain int.
func (r *Region) Len() int {
	return len(r.coords)
}

// ExitTo returns the coordinate one step past the boundary codel chosen
// by ip, per the DP/CC lexicographic tie-break table. The result may lie
// outside the grid.
func (r *Region) ExitTo(ip IP) Coord {
	boundary := r.boundaryCodel(ip)
	dx, dy := ip.DP.delta()
	return Coord{boundary.X + dx, boundary.Y + dy}
}

// boundaryCodel selects the region codel that is extremal along DP's
// primary axis, breaking ties along the secondary axis according to CC.
func (r *Region) boundaryCodel(ip IP) Coord {
	best := r.coords[0]
	for _, c := range r.coords[1:] {
		if better(ip, best, c) {
			best = c
		}
	}
	return best
}

// better reports whether candidate c should replace the current best
// under the ordering for ip.
func better(ip IP, best, c Coord) bool {
	switch ip.DP {
	case Right:
		if c.X != best.X {
			return c.X > best.X
		}
		if ip.CC == CCLeft {
			return c.Y < best.Y
		}
		return c.Y > best.Y
	case Down:
		if c.Y != best.Y {
			return c.Y > best.Y
		}
		if ip.CC == CCLeft {
			return c.X > best.X
		}
		return c.X < best.X
	case Left:
		if c.X != best.X {
			return c.X < best.X
		}
		if ip.CC == CCLeft {
			return c.Y > best.Y
		}
		return c.Y < best.Y
	case Up:
		if c.Y != best.Y {
			return c.Y < best.Y
		}
		if ip.CC == CCLeft {
			return c.X < best.X
		}
		return c.X > best.X
	}
	panic("region: invalid DP")
}
