package arena

import (
	"math"
	"testing"
)

func TestLineConstruction_GrowsFromRim(t *testing.T) {
	c := NewLineConstruction(0)
	if c.Anchor.DistanceFrom(Point{X: 1, Y: 0}) > tol {
		t.Fatalf("anchor %v, want the rim at (1,0)", c.Anchor)
	}
	if c.Advance(0.5) {
		t.Fatal("half-grown wall reported done")
	}
	if got := c.Cursor(); got.DistanceFrom(Point{X: 0.5, Y: 0}) > tol {
		t.Fatalf("cursor %v, want (0.5,0)", got)
	}
	if c.Wall.From != 0.5 || c.Wall.To != 1 {
		t.Fatalf("drawn part [%.2f,%.2f], want [0.5,1]", c.Wall.From, c.Wall.To)
	}
	if math.Abs(c.Progress()-0.25) > tol {
		t.Fatalf("progress %.3f, want 0.25", c.Progress())
	}
	if !c.Advance(5) {
		t.Fatal("overshooting wall should be done")
	}
	if c.Param != -1 {
		t.Fatalf("param %.3f, want clamp at -1", c.Param)
	}
	b := c.Boundary()
	if b.From != -1 || b.To != 1 {
		t.Fatalf("boundary [%.2f,%.2f], want the full chord", b.From, b.To)
	}
}

func TestCircleConstruction_SweepsBothWays(t *testing.T) {
	ccw := NewCircleConstruction(Origin, Point{X: 0.5, Y: 0}, 1)
	ccw.Advance(0.25 * math.Pi)
	if got := ccw.Cursor(); got.DistanceFrom(Point{X: 0, Y: 0.5}) > 1e-9 {
		t.Fatalf("counter-clockwise cursor %v, want (0,0.5)", got)
	}
	if math.Abs(ccw.Wall.FromAngle) > tol || math.Abs(ccw.Wall.ToAngle-math.Pi/2) > tol {
		t.Fatalf("arc [%.3f,%.3f], want [0,π/2]", ccw.Wall.FromAngle, ccw.Wall.ToAngle)
	}

	cw := NewCircleConstruction(Origin, Point{X: 0.5, Y: 0}, -1)
	cw.Advance(0.25 * math.Pi)
	if got := cw.Cursor(); got.DistanceFrom(Point{X: 0, Y: -0.5}) > 1e-9 {
		t.Fatalf("clockwise cursor %v, want (0,-0.5)", got)
	}
	if cw.Wall.FromAngle > cw.Wall.ToAngle {
		t.Fatalf("arc bounds out of order: [%.3f,%.3f]", cw.Wall.FromAngle, cw.Wall.ToAngle)
	}

	if !cw.Advance(10) || !cw.Wall.IsFull() {
		t.Fatal("completed circle should be done and full")
	}
	if b := cw.Boundary(); b.Radius != 0.5 || !b.IsFull() {
		t.Fatalf("boundary %s, want the full circle r=0.5", b)
	}
}
