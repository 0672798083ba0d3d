package arena

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// Epsilon is the absolute tolerance used by every geometric comparison.
const Epsilon = 1e-5

// Point is a position in arena space. The arena disk is the unit circle
// around the origin.
type Point = geom.Coord

// Origin is the arena centre. Every Line passes through it.
var Origin = Point{X: 0, Y: 0}

// Side classifies a point relative to a boundary.
type Side int

const (
	Left  Side = iota // positive-normal side of a line, inside of a circle
	Right             // negative-normal side of a line, outside of a circle
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// PrimitiveKind discriminates the two shapes a boundary can take.
type PrimitiveKind int

const (
	KindLine PrimitiveKind = iota
	KindCircle
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Primitive is a wall or splitting boundary: either a line through the
// origin or a circle. Fields that do not belong to the active Kind are zero.
//
// A Line points along Angle. From and To are signed distances along that
// direction and bound the drawn (or touchable) part of the line.
//
// A Circle has Center and Radius; FromAngle..ToAngle is the drawn arc,
// measured counter-clockwise. Side tests and intersections always use the
// unbounded shape.
type Primitive struct {
	Kind PrimitiveKind

	Angle    float64
	From, To float64

	Center    Point
	Radius    float64
	FromAngle float64
	ToAngle   float64
}

// NewLine returns an unbounded line through the origin pointing along angle.
func NewLine(angle float64) Primitive {
	return Primitive{Kind: KindLine, Angle: angle, From: math.Inf(-1), To: math.Inf(1)}
}

// NewSegment returns the part of the line at angle between the signed
// distances from and to.
func NewSegment(angle, from, to float64) Primitive {
	return Primitive{Kind: KindLine, Angle: angle, From: from, To: to}
}

// NewCircle returns a full circle.
func NewCircle(center Point, radius float64) Primitive {
	return Primitive{Kind: KindCircle, Center: center, Radius: radius, FromAngle: 0, ToAngle: 2 * math.Pi}
}

// NewArc returns the arc of a circle between two angles (counter-clockwise).
func NewArc(center Point, radius, fromAngle, toAngle float64) Primitive {
	return Primitive{Kind: KindCircle, Center: center, Radius: radius, FromAngle: fromAngle, ToAngle: toAngle}
}

// Direction is the unit vector a line points along.
func (p Primitive) Direction() Point {
	return Point{X: math.Cos(p.Angle), Y: math.Sin(p.Angle)}
}

// Normal is the unit vector pointing to a line's left side.
func (p Primitive) Normal() Point {
	return Point{X: -math.Sin(p.Angle), Y: math.Cos(p.Angle)}
}

// SideOf reports on which side of the unbounded boundary pt lies. Points
// within Epsilon of the boundary count as Right.
func (p Primitive) SideOf(pt Point) Side {
	switch p.Kind {
	case KindLine:
		return SideOfLine(pt, p)
	default:
		return SideOfCircle(pt, p)
	}
}

// Intersect classifies how p and other meet.
func (p Primitive) Intersect(other Primitive) Intersection {
	return Intersect(p, other)
}

// RefPoint is the point used to place a non-crossing boundary in the tree.
func (p Primitive) RefPoint() Point {
	if p.Kind == KindCircle {
		return p.Center
	}
	return Origin
}

// StartPoint returns the point at From (line) or FromAngle (circle).
func (p Primitive) StartPoint() Point {
	if p.Kind == KindCircle {
		return p.pointAtAngle(p.FromAngle)
	}
	return p.Direction().Times(p.From)
}

// EndPoint returns the point at To (line) or ToAngle (circle).
func (p Primitive) EndPoint() Point {
	if p.Kind == KindCircle {
		return p.pointAtAngle(p.ToAngle)
	}
	return p.Direction().Times(p.To)
}

func (p Primitive) pointAtAngle(a float64) Point {
	return Point{X: p.Center.X + p.Radius*math.Cos(a), Y: p.Center.Y + p.Radius*math.Sin(a)}
}

// IsFull reports whether a circle's arc covers the whole circumference.
func (p Primitive) IsFull() bool {
	return p.Kind == KindCircle && p.ToAngle-p.FromAngle >= 2*math.Pi-Epsilon
}

func (p Primitive) String() string {
	switch p.Kind {
	case KindLine:
		return fmt.Sprintf("line(angle=%.4f t=[%.3f,%.3f])", p.Angle, p.From, p.To)
	default:
		return fmt.Sprintf("circle(c=(%.3f,%.3f) r=%.4f arc=[%.3f,%.3f])",
			p.Center.X, p.Center.Y, p.Radius, p.FromAngle, p.ToAngle)
	}
}

// normalizeAngle maps a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func dot(a, b Point) float64 {
	return a.X*b.X + a.Y*b.Y
}
