package arena

import (
	"math"
	"math/rand"
)

// RegisterSample classifies one point of the disk down the tree, counting it
// on the matching side of every inner node it passes. An open leaf with a
// pending wall also counts the point against that wall so the split it will
// become starts with a ready estimate.
func (t *Tree) RegisterSample(pt Point) {
	id := t.root
	for {
		n := t.node(id)
		switch n.Kind {
		case NodeClosed:
			return
		case NodeOpen:
			if n.Pending != nil {
				if n.Pending.SideOf(pt) == Left {
					n.LeftSamples++
				} else {
					n.RightSamples++
				}
			}
			return
		}
		if n.Boundary.SideOf(pt) == Left {
			n.LeftSamples++
			id = n.Left
		} else {
			n.RightSamples++
			id = n.Right
		}
	}
}

// RecalculateAreas propagates areas from the root down using each inner
// node's sampled left fraction and returns the total closed area. A node
// with no samples keeps the fraction it last had; the root keeps 1.
func (t *Tree) RecalculateAreas() float64 {
	return t.recalc(t.root)
}

func (t *Tree) recalc(id NodeID) float64 {
	n := t.node(id)
	switch n.Kind {
	case NodeClosed:
		return n.Area
	case NodeOpen:
		return 0
	}
	// The root's exterior has no area inside the disk; rim samples that
	// fall within Epsilon of it must not leak into the score.
	if total := n.LeftSamples + n.RightSamples; total > 0 && id != t.root {
		n.Fraction = float64(n.LeftSamples) / float64(total)
	}
	left, right := n.Left, n.Right
	t.node(left).Area = n.Area * n.Fraction
	t.node(right).Area = n.Area * (1 - n.Fraction)
	return t.recalc(left) + t.recalc(right)
}

// LeafAreaSum adds up the areas of all leaves.
func (t *Tree) LeafAreaSum() float64 {
	sum := 0.0
	for i := range t.nodes {
		if t.nodes[i].IsLeaf() {
			sum += t.nodes[i].Area
		}
	}
	return sum
}

// Sampler draws uniformly distributed points from the unit disk.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler driven by rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Next returns the next sample point.
func (s *Sampler) Next() Point {
	r := math.Sqrt(s.rng.Float64())
	a := s.rng.Float64() * 2 * math.Pi
	return Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
}

// Feed registers n fresh samples with the tree.
func (s *Sampler) Feed(t *Tree, n int) {
	for i := 0; i < n; i++ {
		t.RegisterSample(s.Next())
	}
}
