package arena

import (
	"math"
	"testing"
)

func TestMove_HeadOnBounceOffLine(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0, Y: 0.3})
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)

	e := es[0]
	e.Angle = -math.Pi / 2
	res := NewEngine(tr, nil).Move(e, 0.5)

	if len(res.Bounces) != 1 {
		t.Fatalf("expected exactly one bounce, got %d", len(res.Bounces))
	}
	b := res.Bounces[0]
	if b.Node != 1 {
		t.Fatalf("bounced off node %d, want the line at node 1", b.Node)
	}
	if math.Abs(b.Travelled-0.28) > 1e-9 {
		t.Fatalf("contact after %.6f, want 0.28", b.Travelled)
	}
	if math.Abs(e.Angle-math.Pi/2) > 1e-9 {
		t.Fatalf("reflected heading %.6f, want π/2", e.Angle)
	}
	if math.Abs(e.Pos.Y-0.24) > 1e-9 || math.Abs(e.Pos.X) > 1e-9 {
		t.Fatalf("final position %v, want (0, 0.24)", e.Pos)
	}
	if math.Abs(res.Distance-0.5) > 1e-9 {
		t.Fatalf("travelled %.6f, want the full budget 0.5", res.Distance)
	}
}

func TestMove_BounceOffRim(t *testing.T) {
	es, ids := enemiesAt(Origin)
	tr := NewTree(ids, nil)
	e := es[0]
	e.Angle = 0

	res := NewEngine(tr, nil).Move(e, 1.5)
	if len(res.Bounces) != 1 || res.Bounces[0].Node != tr.Root() {
		t.Fatalf("expected one bounce off the rim, got %+v", res.Bounces)
	}
	if math.Abs(res.Bounces[0].At.X-0.98) > 1e-9 {
		t.Fatalf("rim contact at %v, want x=0.98", res.Bounces[0].At)
	}
	if math.Abs(e.Angle-math.Pi) > 1e-9 {
		t.Fatalf("heading after rim bounce %.6f, want π", e.Angle)
	}
	if math.Abs(e.Pos.X-0.46) > 1e-9 {
		t.Fatalf("final x %.6f, want 0.46", e.Pos.X)
	}
}

func TestMove_BounceOffCircleFromOutside(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0.6, Y: 0})
	tr := NewTree(ids, nil)
	split(t, tr, NewCircle(Origin, 0.3), es)
	if tr.Node(1).Tag != TagClosedLeft {
		t.Fatalf("empty inside should be closed, got %s", tr.Node(1).Tag)
	}

	e := es[0]
	e.Angle = math.Pi
	res := NewEngine(tr, nil).Move(e, 0.5)
	if len(res.Bounces) != 1 || res.Bounces[0].Node != 1 {
		t.Fatalf("expected one bounce off the circle, got %+v", res.Bounces)
	}
	if math.Abs(res.Bounces[0].Travelled-0.28) > 1e-9 {
		t.Fatalf("contact after %.6f, want 0.28", res.Bounces[0].Travelled)
	}
	if math.Abs(e.Pos.X-0.54) > 1e-9 || math.Cos(e.Angle) < 1-1e-9 {
		t.Fatalf("final state pos=%v heading=%.6f, want x=0.54 heading 0", e.Pos, e.Angle)
	}
}

func TestMove_NoBoundaryInReach(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0, Y: 0.5})
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)

	e := es[0]
	e.Angle = 0
	res := NewEngine(tr, nil).Move(e, 0.1)
	if len(res.Bounces) != 0 {
		t.Fatalf("moving parallel to the wall should not bounce, got %d", len(res.Bounces))
	}
	if math.Abs(e.Pos.X-0.1) > 1e-9 || math.Abs(e.Pos.Y-0.5) > 1e-9 {
		t.Fatalf("final position %v, want (0.1, 0.5)", e.Pos)
	}
}

func TestMove_EnemyWiderThanCircleIsDegenerate(t *testing.T) {
	log := NewEventLog(false)
	es, ids := enemiesAt(Point{X: 0.5, Y: 0})
	es[0].Radius = 0.2
	tr := NewTree(ids, log)
	split(t, tr, NewCircle(Point{X: 0.5, Y: 0}, 0.1), es)

	e := es[0]
	e.Angle = 0
	NewEngine(tr, log).Move(e, 0.05)
	if !log.HasEntry("enemy", "degenerate", "wider than circle") {
		t.Fatalf("expected a degenerate entry, log:\n%s", log.Format())
	}
}

// Enemies bouncing in a partitioned arena never leave their own region.
func TestMove_EnemiesStayInTheirLeaves(t *testing.T) {
	es, ids := enemiesAt(
		Point{X: 0.5, Y: 0.5}, Point{X: -0.5, Y: 0.5}, Point{X: -0.5, Y: -0.5},
		Point{X: 0.5, Y: -0.5}, Point{X: 0.3, Y: 0.4},
	)
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)
	split(t, tr, NewSegment(math.Pi/2, -1, 1), es)
	split(t, tr, NewCircle(Point{X: 0.5, Y: 0.5}, 0.15), es)

	en := NewEngine(tr, nil)
	for i, e := range es {
		e.Speed = 0.4 + 0.1*float64(i)
		e.Angle = 0.7 + 1.3*float64(i)
	}
	for tick := 0; tick < 1200; tick++ {
		for _, e := range es {
			res := en.Step(e, 1.0/60)
			if res.Capped {
				t.Fatalf("tick %d: enemy %d hit the sub-step cap", tick, e.ID)
			}
			if got := tr.Locate(e.Pos); got != e.Leaf {
				t.Fatalf("tick %d: enemy %d escaped leaf %d into %d at %v", tick, e.ID, e.Leaf, got, e.Pos)
			}
		}
	}
}

func TestEnemyTouches(t *testing.T) {
	e := &Enemy{Pos: Point{X: 0.2, Y: 0}, Radius: 0.05}
	if !e.TouchesCursor(Point{X: 0.26, Y: 0}, 0.025) {
		t.Fatal("overlapping cursor should touch")
	}
	if e.TouchesCursor(Point{X: 0.3, Y: 0}, 0.025) {
		t.Fatal("distant cursor should not touch")
	}
	if !e.TouchesWall(NewArc(Origin, 0.23, -0.5, 0.5)) {
		t.Fatal("arc within radius should touch")
	}
	if e.TouchesWall(NewArc(Origin, 0.23, 1, 2)) {
		t.Fatal("undrawn part of the arc should not touch")
	}
}

func TestMoveResult_TraceFollowsBounces(t *testing.T) {
	res := MoveResult{
		Bounces:  []Bounce{{At: Point{X: 1, Y: 0}, Travelled: 1}},
		Distance: 2,
	}
	got := res.Trace(Origin, Point{X: 1, Y: 1}, 4)
	want := []Point{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.5}, {X: 1, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("want %d samples, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.At.DistanceFrom(want[i]) > tol {
			t.Fatalf("sample %d at %v, want %v", i, p.At, want[i])
		}
		if math.Abs(p.Frac-float64(i)/4) > tol {
			t.Fatalf("sample %d frac %f", i, p.Frac)
		}
	}
}

func TestEnemySweptTouches(t *testing.T) {
	e := &Enemy{Pos: Point{X: 0.5, Y: -0.05}, Radius: 0.01}
	res := MoveResult{Distance: 0.1}
	path := res.Trace(Point{X: 0.5, Y: 0.05}, e.Pos, 20)

	wall := NewSegment(0, 1, 0.3)
	if e.TouchesWall(wall) {
		t.Fatal("end position alone is clear of the wall")
	}
	if !e.SweptTouchesWall(path, wall) {
		t.Fatal("path crossing the wall should touch")
	}
	if e.SweptTouchesWall(path, NewSegment(0, 1, 0.6)) {
		t.Fatal("wall not yet drawn under the path should not touch")
	}

	if !e.SweptTouchesCursor(path, Point{X: 0.5, Y: 0.1}, Point{X: 0.5, Y: -0.1}, 0.025) {
		t.Fatal("cursor moving along the path should touch")
	}
	if !e.SweptTouchesCursor(path, Point{X: 0.5, Y: -0.1}, Point{X: 0.5, Y: 0.1}, 0.01) {
		t.Fatal("cursor passing the enemy head-on should touch")
	}
	if e.SweptTouchesCursor(path, Point{X: 0.8, Y: 0.1}, Point{X: 0.8, Y: -0.1}, 0.025) {
		t.Fatal("distant cursor should not touch")
	}
}
