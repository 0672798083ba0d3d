package arena

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampler_StaysInsideDisk(t *testing.T) {
	s := NewSampler(rand.New(rand.NewSource(5)))
	for i := 0; i < 5000; i++ {
		if p := s.Next(); p.Magnitude() > 1 {
			t.Fatalf("sample %v outside the unit disk", p)
		}
	}
}

// Half-disk scenario: one enemy, a line through the centre, 10,000 samples.
func TestAreas_HalfDiskWithinTolerance(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0.4, Y: 0.3})
	tr := NewTree(ids, nil)
	boundary := NewSegment(math.Pi/2, -1, 1)
	affected := tr.Insert(boundary)
	tr.setPending(affected, &boundary)

	s := NewSampler(rand.New(rand.NewSource(42)))
	s.Feed(tr, 10000)
	tr.Commit(affected, es)
	closed := tr.RecalculateAreas()

	n := tr.Node(1)
	for _, id := range []NodeID{n.Left, n.Right} {
		if a := tr.Node(id).Area; math.Abs(a-0.5) > 0.02 {
			t.Errorf("half %d area %.4f not within 0.02 of 0.5", id, a)
		}
	}
	if math.Abs(closed-tr.Node(n.Left).Area) > tol {
		t.Fatalf("closed area %.4f should equal the enemy-free half %.4f", closed, tr.Node(n.Left).Area)
	}
	if math.Abs(tr.LeafAreaSum()-1) > 1e-9 {
		t.Fatalf("leaf areas must sum to 1, got %.9f", tr.LeafAreaSum())
	}
}

func TestAreas_RecalculateIdempotent(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0.4, Y: 0.3}, Point{X: -0.2, Y: -0.5})
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)
	split(t, tr, NewCircle(Point{X: 0.4, Y: 0.3}, 0.2), es)
	NewSampler(rand.New(rand.NewSource(2))).Feed(tr, 3000)

	first := tr.RecalculateAreas()
	areas := make([]float64, tr.Len())
	for i := range areas {
		areas[i] = tr.Node(NodeID(i)).Area
	}
	second := tr.RecalculateAreas()
	if first != second {
		t.Fatalf("recalculation changed the total: %.9f then %.9f", first, second)
	}
	for i := range areas {
		if got := tr.Node(NodeID(i)).Area; got != areas[i] {
			t.Fatalf("node %d area changed: %.9f then %.9f", i, areas[i], got)
		}
	}
}

func TestAreas_RootExteriorStaysEmpty(t *testing.T) {
	tr := NewTree([]int{0}, nil)
	NewSampler(rand.New(rand.NewSource(8))).Feed(tr, 20000)
	if closed := tr.RecalculateAreas(); closed != 0 {
		t.Fatalf("no wall built yet, closed area should be 0, got %.9f", closed)
	}
}

// The spread of the estimated fraction over fresh runs shrinks as the sample
// count grows, and the mean sits near the true half.
func TestAreas_ConvergesTowardHalf(t *testing.T) {
	spread := func(samples int) (mean, sd float64) {
		const runs = 30
		var vals []float64
		for r := 0; r < runs; r++ {
			es, ids := enemiesAt(Point{X: 0, Y: 0.5}, Point{X: 0, Y: -0.5})
			tr := NewTree(ids, nil)
			split(t, tr, NewSegment(0, -1, 1), es)
			NewSampler(rand.New(rand.NewSource(int64(100+r)))).Feed(tr, samples)
			tr.RecalculateAreas()
			vals = append(vals, tr.Node(1).Fraction)
		}
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		for _, v := range vals {
			sd += (v - mean) * (v - mean)
		}
		return mean, math.Sqrt(sd / float64(len(vals)))
	}

	_, sdSmall := spread(100)
	mean, sdLarge := spread(10000)
	if sdLarge >= sdSmall {
		t.Fatalf("spread did not shrink: %.4f at 100 samples, %.4f at 10000", sdSmall, sdLarge)
	}
	if math.Abs(mean-0.5) > 0.01 {
		t.Fatalf("mean fraction %.4f not near 0.5", mean)
	}
}

func TestRegisterSample_PendingLeafPreCounts(t *testing.T) {
	tr := NewTree([]int{0}, nil)
	boundary := NewCircle(Origin, 0.5)
	affected := tr.Insert(boundary)
	tr.setPending(affected, &boundary)

	tr.RegisterSample(Point{X: 0.1, Y: 0})
	tr.RegisterSample(Point{X: 0.8, Y: 0})
	tr.RegisterSample(Point{X: 0, Y: -0.9})
	n := tr.Node(1)
	if n.LeftSamples != 1 || n.RightSamples != 2 {
		t.Fatalf("pending counts: want 1/2 got %d/%d", n.LeftSamples, n.RightSamples)
	}
	if root := tr.Node(tr.Root()); root.LeftSamples != 3 {
		t.Fatalf("root should count every inside sample, got %d", root.LeftSamples)
	}
}
