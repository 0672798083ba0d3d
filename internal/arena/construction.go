package arena

import "math"

// WallKind selects the shape of the next wall the player draws.
type WallKind int

const (
	WallLine WallKind = iota
	WallCircle
)

func (k WallKind) String() string {
	if k == WallCircle {
		return "circle"
	}
	return "line"
}

// Construction is a wall being drawn. Its growing endpoint is where the
// player's cursor sits; the wall is pending on the affected leaves until it
// reaches its target and is committed, or an enemy touches it.
type Construction struct {
	Kind   WallKind
	Anchor Point   // fixed start of the wall; the cursor returns here on abort
	Param  float64 // line: signed distance of the growing end; circle: swept angle
	Target float64 // value of Param at which the wall is complete
	Dir    float64 // +1 or -1: direction Param moves (line) or the arc turns (circle)

	// Wall is the drawn part so far. Affected leaves point at it.
	Wall Primitive
	// Affected are the open leaves this wall will split.
	Affected []NodeID

	startAngle float64 // circle: angle of the anchor around the centre
}

// NewLineConstruction starts a line through the origin at angle, growing
// from the rim point at distance 1 across to the opposite rim.
func NewLineConstruction(angle float64) *Construction {
	c := &Construction{
		Kind:   WallLine,
		Param:  1,
		Target: -1,
		Dir:    -1,
	}
	c.Wall = NewSegment(angle, 1, 1)
	c.Anchor = c.Wall.EndPoint()
	return c
}

// NewCircleConstruction starts a circle around center through anchor,
// sweeping counter-clockwise when dir > 0 and clockwise otherwise.
func NewCircleConstruction(center, anchor Point, dir float64) *Construction {
	rel := anchor.Minus(center)
	start := math.Atan2(rel.Y, rel.X)
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	c := &Construction{
		Kind:       WallCircle,
		Anchor:     anchor,
		Param:      0,
		Target:     2 * math.Pi,
		Dir:        dir,
		startAngle: start,
	}
	c.Wall = NewArc(center, rel.Magnitude(), start, start)
	return c
}

// Boundary returns the full wall the construction will commit.
func (c *Construction) Boundary() Primitive {
	if c.Kind == WallCircle {
		return NewCircle(c.Wall.Center, c.Wall.Radius)
	}
	return NewSegment(c.Wall.Angle, -1, 1)
}

// Done reports whether the wall has reached its target.
func (c *Construction) Done() bool {
	return c.Param == c.Target
}

// Advance grows the wall by dist arena units and reports whether it is done.
func (c *Construction) Advance(dist float64) bool {
	switch c.Kind {
	case WallCircle:
		if c.Wall.Radius <= Epsilon {
			c.Param = c.Target
		} else {
			c.Param = math.Min(c.Param+dist/c.Wall.Radius, c.Target)
		}
		end := c.startAngle + c.Dir*c.Param
		if c.Dir > 0 {
			c.Wall.FromAngle, c.Wall.ToAngle = c.startAngle, end
		} else {
			c.Wall.FromAngle, c.Wall.ToAngle = end, c.startAngle
		}
	default:
		c.Param = math.Max(c.Param+c.Dir*dist, c.Target)
		c.Wall.From = c.Param
	}
	return c.Done()
}

// Cursor is the growing endpoint of the wall.
func (c *Construction) Cursor() Point {
	if c.Kind == WallCircle {
		a := c.startAngle + c.Dir*c.Param
		return Point{
			X: c.Wall.Center.X + c.Wall.Radius*math.Cos(a),
			Y: c.Wall.Center.Y + c.Wall.Radius*math.Sin(a),
		}
	}
	return c.Wall.Direction().Times(c.Param)
}

// Progress is the completed share of the wall in [0, 1].
func (c *Construction) Progress() float64 {
	if c.Kind == WallCircle {
		return c.Param / c.Target
	}
	return (1 - c.Param) / 2
}
