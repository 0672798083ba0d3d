package arena

import (
	"fmt"
	"strings"
	"testing"
)

// recorder logs every renderer call as a short string.
type recorder struct {
	calls []string
	depth int
	max   int
}

func (r *recorder) DrawBoundary(id NodeID, b Primitive, tag SideTag) {
	r.calls = append(r.calls, fmt.Sprintf("draw %d %s %s", id, b.Kind, tag))
}

func (r *recorder) PushMask(b Primitive, hide Side) {
	r.depth++
	if r.depth > r.max {
		r.max = r.depth
	}
	r.calls = append(r.calls, fmt.Sprintf("push %s %s", b.Kind, hide))
}

func (r *recorder) PopMask() {
	r.depth--
	r.calls = append(r.calls, "pop")
}

func TestRender_TraversalOrder(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0, Y: 0.5}, Point{X: 0, Y: -0.5})
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)

	var r recorder
	tr.Render(&r)
	want := []string{
		"draw 0 circle closed_right",
		"push circle right",
		"draw 1 line open_both",
		"push line right",
		"pop",
		"push line left",
		"pop",
		"pop",
	}
	if got := strings.Join(r.calls, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("render calls:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}
}

func TestRender_MasksBalanced(t *testing.T) {
	es, ids := enemiesAt(Point{X: 0.5, Y: 0.5}, Point{X: -0.5, Y: 0.5}, Point{X: 0.2, Y: -0.5})
	tr := NewTree(ids, nil)
	split(t, tr, NewSegment(0, -1, 1), es)
	split(t, tr, NewSegment(1.2, -1, 1), es)
	split(t, tr, NewCircle(Point{X: 0.5, Y: 0.5}, 0.1), es)

	var r recorder
	tr.Render(&r)
	if r.depth != 0 {
		t.Fatalf("unbalanced masks, depth %d at end", r.depth)
	}
	if r.max < 3 {
		t.Fatalf("expected nested masks, max depth %d", r.max)
	}
}
