package arena

import (
	"fmt"
	"math"
)

// MaxSubSteps caps the bounces resolved for one enemy in one tick. It guards
// against zero-progress loops in degenerate corners.
const MaxSubSteps = 32

// moveEpsilon is the travel budget below which a tick's motion is done.
const moveEpsilon = 1e-9

// Enemy is a disc bouncing around inside one open region.
type Enemy struct {
	ID     int
	Type   int // index into the configured enemy types
	Pos    Point
	Speed  float64 // arena units per second
	Angle  float64 // heading, radians
	Radius float64
	Leaf   NodeID // owning open leaf
}

// Heading returns the unit vector the enemy moves along.
func (e *Enemy) Heading() Point {
	return Point{X: math.Cos(e.Angle), Y: math.Sin(e.Angle)}
}

// Shape returns the enemy's outline as a circle primitive.
func (e *Enemy) Shape() Primitive {
	return NewCircle(e.Pos, e.Radius)
}

// Bounce records one reflection resolved during a move.
type Bounce struct {
	Node      NodeID  // inner node whose boundary was hit
	At        Point   // enemy centre at contact
	Travelled float64 // distance covered in this move before the contact
}

// MoveResult summarizes one call to Engine.Move.
type MoveResult struct {
	Bounces  []Bounce
	Distance float64 // total distance travelled
	Capped   bool    // the sub-step cap was hit before the budget ran out
}

// Engine moves enemies through the partition, reflecting them off every
// boundary that encloses their leaf.
type Engine struct {
	tree *Tree
	log  *EventLog
}

// NewEngine returns an engine operating on tree.
func NewEngine(tree *Tree, log *EventLog) *Engine {
	if log == nil {
		log = tree.log
	}
	return &Engine{tree: tree, log: log}
}

// Step advances e by one timestep of length dt.
func (en *Engine) Step(e *Enemy, dt float64) MoveResult {
	return en.Move(e, e.Speed*dt)
}

// Move advances e by budget arena units, bouncing off the nearest enclosing
// boundary as often as needed.
func (en *Engine) Move(e *Enemy, budget float64) MoveResult {
	var res MoveResult
	remaining := budget
	for i := 0; remaining > moveEpsilon; i++ {
		if i >= MaxSubSteps {
			res.Capped = true
			en.log.Add(en.tree.now(), "enemy", "substep_cap",
				fmt.Sprintf("enemy=%d left=%.6f", e.ID, remaining), remaining)
			break
		}

		dir := e.Heading()
		hitNode := NoNode
		best := math.Inf(1)
		child := e.Leaf
		for p := en.tree.nodes[child].Parent; p != NoNode; child, p = p, en.tree.nodes[p].Parent {
			side := en.tree.SideOfChild(p, child)
			if d := en.hitDistance(e, dir, en.tree.nodes[p].Boundary, side); d < best {
				best = d
				hitNode = p
			}
		}

		if hitNode == NoNode || best >= remaining {
			e.Pos = e.Pos.Plus(dir.Times(remaining))
			res.Distance += remaining
			break
		}

		e.Pos = e.Pos.Plus(dir.Times(best))
		remaining -= best
		res.Distance += best
		res.Bounces = append(res.Bounces, Bounce{Node: hitNode, At: e.Pos, Travelled: res.Distance})
		if !en.reflect(e, en.tree.nodes[hitNode].Boundary) {
			break
		}
		en.log.AddVerbose(en.tree.now(), "enemy", "bounce",
			fmt.Sprintf("enemy=%d node=%d at=(%.4f,%.4f)", e.ID, hitNode, e.Pos.X, e.Pos.Y), float64(hitNode))
	}
	return res
}

// hitDistance is how far e can travel along dir before its rim touches the
// boundary, given the side of the boundary it lives on. +Inf means never.
func (en *Engine) hitDistance(e *Enemy, dir Point, b Primitive, side Side) float64 {
	if b.Kind == KindLine {
		sgn := 1.0
		if side == Right {
			sgn = -1
		}
		gap := sgn*lineDistance(e.Pos, b) - e.Radius
		// Cosine of the angle of incidence, positive when approaching.
		cos := -sgn * dot(b.Normal(), dir)
		if cos <= 0 {
			return math.Inf(1)
		}
		return math.Max(gap, 0) / cos
	}

	rel := e.Pos.Minus(b.Center)
	bb := dot(rel, dir)
	if side == Left {
		limit := b.Radius - e.Radius
		if limit <= Epsilon {
			en.log.Add(en.tree.now(), "enemy", "degenerate",
				fmt.Sprintf("enemy=%d wider than circle r=%.4f", e.ID, b.Radius), b.Radius)
			return math.Inf(1)
		}
		cc := dot(rel, rel) - limit*limit
		if cc >= 0 {
			if bb > 0 {
				return 0
			}
			return math.Inf(1)
		}
		return -bb + math.Sqrt(bb*bb-cc)
	}

	limit := b.Radius + e.Radius
	cc := dot(rel, rel) - limit*limit
	if cc <= 0 {
		if bb < 0 {
			return 0
		}
		return math.Inf(1)
	}
	disc := bb*bb - cc
	if bb >= 0 || disc <= 0 {
		return math.Inf(1)
	}
	return -bb - math.Sqrt(disc)
}

// reflect mirrors e's heading about the boundary normal at its current
// position. It reports false when no normal exists.
func (en *Engine) reflect(e *Enemy, b Primitive) bool {
	var normalAngle float64
	if b.Kind == KindLine {
		normalAngle = b.Angle + math.Pi/2
	} else {
		rel := e.Pos.Minus(b.Center)
		if rel.Magnitude() < Epsilon {
			en.log.Add(en.tree.now(), "enemy", "degenerate",
				fmt.Sprintf("enemy=%d cannot reflect at circle centre", e.ID), 0)
			return false
		}
		normalAngle = math.Atan2(rel.Y, rel.X)
	}
	e.Angle = normalizeAngle(2*normalAngle - e.Angle + math.Pi)
	return true
}

// PathPoint is a sample of an enemy's path during one move.
type PathPoint struct {
	At   Point
	Frac float64 // share of the move's distance covered at At
}

// Trace returns n+1 points evenly spaced along the path of the move that
// started at from and ended at to, bounce corners included in the path.
func (r MoveResult) Trace(from, to Point, n int) []PathPoint {
	if n < 1 {
		n = 1
	}
	corners := make([]Bounce, 0, len(r.Bounces)+2)
	corners = append(corners, Bounce{At: from})
	corners = append(corners, r.Bounces...)
	corners = append(corners, Bounce{At: to, Travelled: r.Distance})

	out := make([]PathPoint, 0, n+1)
	seg := 1
	for k := 0; k <= n; k++ {
		f := float64(k) / float64(n)
		d := f * r.Distance
		for seg < len(corners)-1 && corners[seg].Travelled < d {
			seg++
		}
		a, b := corners[seg-1], corners[seg]
		s := 1.0
		if span := b.Travelled - a.Travelled; span > 0 {
			s = (d - a.Travelled) / span
		}
		out = append(out, PathPoint{At: a.At.Plus(b.At.Minus(a.At).Times(s)), Frac: f})
	}
	return out
}

// SweptTouchesCursor reports whether e overlapped the cursor anywhere along
// path while the cursor moved from c0 to c1.
func (e *Enemy) SweptTouchesCursor(path []PathPoint, c0, c1 Point, radius float64) bool {
	for _, p := range path {
		c := c0.Plus(c1.Minus(c0).Times(p.Frac))
		if CircleTouchesCircle(p.At, e.Radius, c, radius) {
			return true
		}
	}
	return false
}

// SweptTouchesWall reports whether e overlapped the drawn part of wall
// anywhere along path.
func (e *Enemy) SweptTouchesWall(path []PathPoint, wall Primitive) bool {
	for _, p := range path {
		if CircleTouchesPrimitive(p.At, e.Radius, wall) {
			return true
		}
	}
	return false
}

// TouchesCursor reports whether e overlaps a cursor disc.
func (e *Enemy) TouchesCursor(cursor Point, radius float64) bool {
	return CircleTouchesCircle(e.Pos, e.Radius, cursor, radius)
}

// TouchesWall reports whether e overlaps the drawn part of wall.
func (e *Enemy) TouchesWall(wall Primitive) bool {
	return CircleTouchesPrimitive(e.Pos, e.Radius, wall)
}
