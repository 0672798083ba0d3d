package arena

import "math"

// IntersectionKind is the outcome of intersecting two boundaries.
type IntersectionKind int

const (
	IntersectNone      IntersectionKind = iota // disjoint
	IntersectTangent                           // touching; callers treat this as disjoint
	IntersectPoints                            // one (line/line) or two crossing points
	IntersectIdentical                         // same boundary within Epsilon
)

func (k IntersectionKind) String() string {
	switch k {
	case IntersectNone:
		return "none"
	case IntersectTangent:
		return "tangent"
	case IntersectPoints:
		return "points"
	case IntersectIdentical:
		return "identical"
	default:
		return "unknown"
	}
}

// Intersection is the result of Intersect. Points is only set for
// IntersectPoints.
type Intersection struct {
	Kind   IntersectionKind
	Points []Point
}

// Crosses reports whether the boundaries properly cross each other.
func (in Intersection) Crosses() bool {
	return in.Kind == IntersectPoints && len(in.Points) > 0
}

// Intersect dispatches on the pair of primitive kinds.
func Intersect(a, b Primitive) Intersection {
	switch {
	case a.Kind == KindLine && b.Kind == KindLine:
		return LineLineIntersect(a, b)
	case a.Kind == KindLine && b.Kind == KindCircle:
		return LineCircleIntersect(a, b)
	case a.Kind == KindCircle && b.Kind == KindLine:
		return LineCircleIntersect(b, a)
	default:
		return CircleCircleIntersect(a, b)
	}
}

// lineDistance is the signed distance of pt from line, positive on the
// left-hand side.
func lineDistance(pt Point, line Primitive) float64 {
	return dot(line.Normal(), pt)
}

// LineCircleIntersects reports whether the line passes strictly closer to the
// circle's centre than its radius.
func LineCircleIntersects(line, circle Primitive) bool {
	return math.Abs(lineDistance(circle.Center, line)) < circle.Radius
}

// CircleCircleIntersects reports whether the centre distance lies strictly
// between |r1-r2| and r1+r2.
func CircleCircleIntersects(c1, c2 Primitive) bool {
	d := c1.Center.DistanceFrom(c2.Center)
	return math.Abs(c1.Radius-c2.Radius) < d && d < c1.Radius+c2.Radius
}

// LineLineIntersect handles two lines through the origin: they are either the
// same line or cross exactly once, at the origin.
func LineLineIntersect(l1, l2 Primitive) Intersection {
	diff := math.Mod(math.Abs(l1.Angle-l2.Angle), math.Pi)
	if diff < Epsilon || math.Pi-diff < Epsilon {
		return Intersection{Kind: IntersectIdentical}
	}
	return Intersection{Kind: IntersectPoints, Points: []Point{Origin}}
}

// CircleCircleIntersect solves the two-circle system analytically.
func CircleCircleIntersect(c1, c2 Primitive) Intersection {
	if math.Abs(c1.Center.X-c2.Center.X) < Epsilon &&
		math.Abs(c1.Center.Y-c2.Center.Y) < Epsilon &&
		math.Abs(c1.Radius-c2.Radius) < Epsilon {
		return Intersection{Kind: IntersectIdentical}
	}

	d := c1.Center.DistanceFrom(c2.Center)
	if d < Epsilon {
		// Concentric with different radii.
		return Intersection{Kind: IntersectNone}
	}
	if !CircleCircleIntersects(c1, c2) {
		if math.Abs(d-(c1.Radius+c2.Radius)) < Epsilon || math.Abs(d-math.Abs(c1.Radius-c2.Radius)) < Epsilon {
			return Intersection{Kind: IntersectTangent}
		}
		return Intersection{Kind: IntersectNone}
	}

	// Distance from c1 to the midpoint of the chord, then half the chord.
	mu := (d + (c1.Radius*c1.Radius-c2.Radius*c2.Radius)/d) / 2
	hh := c1.Radius*c1.Radius - mu*mu
	if hh <= 0 {
		return Intersection{Kind: IntersectTangent}
	}
	h := math.Sqrt(hh)

	ux := (c2.Center.X - c1.Center.X) / d
	uy := (c2.Center.Y - c1.Center.Y) / d
	return Intersection{
		Kind: IntersectPoints,
		Points: []Point{
			{X: c1.Center.X + ux*mu + uy*h, Y: c1.Center.Y + uy*mu - ux*h},
			{X: c1.Center.X + ux*mu - uy*h, Y: c1.Center.Y + uy*mu + ux*h},
		},
	}
}

// LineCircleIntersect projects the circle centre onto the line direction and
// normal and returns the two points at mu ± sqrt(r²-d²) along the line.
func LineCircleIntersect(line, circle Primitive) Intersection {
	d := math.Abs(lineDistance(circle.Center, line))
	if !LineCircleIntersects(line, circle) {
		if math.Abs(d-circle.Radius) < Epsilon {
			return Intersection{Kind: IntersectTangent}
		}
		return Intersection{Kind: IntersectNone}
	}

	dir := line.Direction()
	mu := dot(dir, circle.Center)
	dd := circle.Radius*circle.Radius - d*d
	if dd <= 0 {
		return Intersection{Kind: IntersectTangent}
	}
	dmu := math.Sqrt(dd)
	return Intersection{
		Kind: IntersectPoints,
		Points: []Point{
			dir.Times(mu + dmu),
			dir.Times(mu - dmu),
		},
	}
}

// SideOfLine is Left when pt is on the positive-normal side of line by more
// than Epsilon.
func SideOfLine(pt Point, line Primitive) Side {
	if lineDistance(pt, line) > Epsilon {
		return Left
	}
	return Right
}

// SideOfCircle is Left when pt is inside the circle by more than Epsilon.
func SideOfCircle(pt Point, circle Primitive) Side {
	if circle.Radius-pt.DistanceFrom(circle.Center) > Epsilon {
		return Left
	}
	return Right
}

// CircleTouchesCircle reports whether two discs overlap.
func CircleTouchesCircle(c1 Point, r1 float64, c2 Point, r2 float64) bool {
	return c1.DistanceFrom(c2) < r1+r2
}

// CircleTouchesPrimitive reports whether a disc of radius r at c overlaps
// the drawn (bounded) part of p.
func CircleTouchesPrimitive(c Point, r float64, p Primitive) bool {
	return distanceToBounded(c, p) < r
}

// distanceToBounded is the distance from pt to the drawn part of p.
func distanceToBounded(pt Point, p Primitive) float64 {
	if p.Kind == KindLine {
		from, to := p.From, p.To
		if from > to {
			from, to = to, from
		}
		t := dot(p.Direction(), pt)
		if t < from {
			t = from
		}
		if t > to {
			t = to
		}
		return pt.DistanceFrom(p.Direction().Times(t))
	}

	if p.IsFull() {
		return math.Abs(pt.DistanceFrom(p.Center) - p.Radius)
	}
	rel := pt.Minus(p.Center)
	if rel.Magnitude() < Epsilon {
		return p.Radius
	}
	if angleInArc(math.Atan2(rel.Y, rel.X), p.FromAngle, p.ToAngle) {
		return math.Abs(rel.Magnitude() - p.Radius)
	}
	return math.Min(pt.DistanceFrom(p.StartPoint()), pt.DistanceFrom(p.EndPoint()))
}

// angleInArc reports whether a lies on the arc swept from..to. The sweep may
// run in either direction.
func angleInArc(a, from, to float64) bool {
	if from > to {
		from, to = to, from
	}
	if to-from >= 2*math.Pi {
		return true
	}
	return normalizeAngle(a-from) <= to-from
}
