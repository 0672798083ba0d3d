package arena

import (
	"fmt"
	"strings"
)

// NodeID addresses a node in the tree's node arena. IDs are stable for the
// lifetime of the tree; a subdivided leaf's slot is reused by the inner node
// that replaces it.
type NodeID int

// NoNode marks the absent parent of the root.
const NoNode NodeID = -1

// NodeKind tags the three node variants.
type NodeKind int

const (
	NodeInner NodeKind = iota
	NodeOpen
	NodeClosed
)

func (k NodeKind) String() string {
	switch k {
	case NodeInner:
		return "inner"
	case NodeOpen:
		return "open"
	case NodeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SideTag records which child of an inner node was closed when the node was
// built. It picks the drawing and masking semantics and never changes.
type SideTag int

const (
	TagOpenBoth    SideTag = iota // both children open; only the boundary is drawn
	TagClosedLeft                 // left (inside) is filled
	TagClosedRight                // right (outside) is filled
)

func (t SideTag) String() string {
	switch t {
	case TagClosedLeft:
		return "closed_left"
	case TagClosedRight:
		return "closed_right"
	default:
		return "open_both"
	}
}

// Node is one slot of the tree. Which fields are meaningful depends on Kind:
//
//	Inner:  Boundary, Tag, Left, Right, Area, LeftSamples, RightSamples, Fraction
//	Open:   Enemies, Pending, Area, LeftSamples, RightSamples
//	Closed: Area
type Node struct {
	Kind   NodeKind
	Parent NodeID

	Boundary Primitive
	Tag      SideTag
	Left     NodeID
	Right    NodeID

	Area         float64
	LeftSamples  int
	RightSamples int
	// Fraction is the share of Area given to the left child. It is kept
	// between recalculations so a node without samples still splits its area.
	Fraction float64

	Enemies []int      // enemy IDs, open leaves only
	Pending *Primitive // wall under construction, open leaves only
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Kind != NodeInner
}

// Tree is a binary space partition of the arena disk. Node 0 is the root,
// whose boundary is the arena circumference; its right child is the
// permanently closed exterior.
type Tree struct {
	nodes []Node
	root  NodeID
	open  []NodeID // registry of open leaves in creation order
	log   *EventLog
	tick  *int
}

// NewTree builds the initial partition: the unit disk holding every enemy
// in a single open leaf, and the closed exterior.
func NewTree(enemyIDs []int, log *EventLog) *Tree {
	t := &Tree{log: log}
	if t.log == nil {
		t.log = NewEventLog(false)
	}
	t.root = t.alloc(Node{Kind: NodeInner, Parent: NoNode, Boundary: NewCircle(Origin, 1), Area: 1, Fraction: 1})
	inside := t.alloc(Node{Kind: NodeOpen, Parent: t.root, Enemies: append([]int(nil), enemyIDs...), Area: 1})
	outside := t.alloc(Node{Kind: NodeClosed, Parent: t.root})
	r := t.node(t.root)
	r.Left, r.Right = inside, outside
	r.Tag = tagFor(NodeOpen, NodeClosed)
	t.open = []NodeID{inside}
	return t
}

// bindTick lets the owning arena stamp log entries with its current tick.
func (t *Tree) bindTick(tick *int) {
	t.tick = tick
}

func (t *Tree) now() int {
	if t.tick == nil {
		return 0
	}
	return *t.tick
}

func (t *Tree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) node(id NodeID) *Node {
	return &t.nodes[id]
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns a copy of the node at id.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// OpenLeaves returns a copy of the open-leaf registry.
func (t *Tree) OpenLeaves() []NodeID {
	return append([]NodeID(nil), t.open...)
}

// EachOpenLeaf calls fn for every open leaf in creation order.
func (t *Tree) EachOpenLeaf(fn func(id NodeID, n *Node)) {
	for _, id := range t.open {
		fn(id, t.node(id))
	}
}

// SideOfChild reports which side of parent the child hangs on.
func (t *Tree) SideOfChild(parent, child NodeID) Side {
	if t.nodes[parent].Left == child {
		return Left
	}
	return Right
}

// Locate returns the leaf whose region contains pt.
func (t *Tree) Locate(pt Point) NodeID {
	id := t.root
	for {
		n := t.node(id)
		if n.IsLeaf() {
			return id
		}
		if n.Boundary.SideOf(pt) == Left {
			id = n.Left
		} else {
			id = n.Right
		}
	}
}

// Insert marks every open leaf the boundary passes through as pending and
// returns them. The tree's shape does not change until Commit.
func (t *Tree) Insert(boundary Primitive) []NodeID {
	var affected []NodeID
	t.insertAt(t.root, boundary, &affected)
	return affected
}

func (t *Tree) insertAt(id NodeID, boundary Primitive, affected *[]NodeID) {
	n := t.node(id)
	switch n.Kind {
	case NodeClosed:
		return
	case NodeOpen:
		b := boundary
		n.Pending = &b
		n.LeftSamples, n.RightSamples = 0, 0
		*affected = append(*affected, id)
		return
	}

	in := Intersect(boundary, n.Boundary)
	switch {
	case in.Kind == IntersectIdentical:
		t.log.Add(t.now(), "wall", "duplicate", fmt.Sprintf("node=%d %s", id, boundary), float64(id))
		return
	case in.Crosses():
		left, right := n.Left, n.Right
		t.insertAt(left, boundary, affected)
		t.insertAt(right, boundary, affected)
		return
	}

	if t.placeLeft(n.Boundary, boundary) {
		t.insertAt(n.Left, boundary, affected)
	} else {
		t.insertAt(n.Right, boundary, affected)
	}
}

// placeLeft decides the side of existing on which a non-crossing boundary
// lies.
func (t *Tree) placeLeft(existing, boundary Primitive) bool {
	if existing.Kind == KindCircle && boundary.Kind == KindCircle {
		// Nested circles: only a smaller circle can lie inside a larger one.
		return boundary.Radius < existing.Radius && existing.SideOf(boundary.Center) == Left
	}
	return existing.SideOf(boundary.RefPoint()) == Left
}

// Commit subdivides every affected leaf by its pending boundary. Enemies move
// to the child leaf on their side; an empty side becomes a closed leaf. The
// enemies slice is indexed by enemy ID and has its Leaf fields updated.
func (t *Tree) Commit(affected []NodeID, enemies []*Enemy) {
	for _, id := range affected {
		n := t.node(id)
		if n.Kind != NodeOpen || n.Pending == nil {
			continue
		}
		boundary := *n.Pending
		var leftIDs, rightIDs []int
		for _, eid := range n.Enemies {
			if boundary.SideOf(enemies[eid].Pos) == Left {
				leftIDs = append(leftIDs, eid)
			} else {
				rightIDs = append(rightIDs, eid)
			}
		}

		left := t.newLeaf(id, leftIDs)
		right := t.newLeaf(id, rightIDs)

		// Re-read: newLeaf may have grown the node slice.
		n = t.node(id)
		fraction := 0.5
		if total := n.LeftSamples + n.RightSamples; total > 0 {
			fraction = float64(n.LeftSamples) / float64(total)
		}
		*n = Node{
			Kind:         NodeInner,
			Parent:       n.Parent,
			Boundary:     boundary,
			Tag:          tagFor(t.nodes[left].Kind, t.nodes[right].Kind),
			Left:         left,
			Right:        right,
			Area:         n.Area,
			LeftSamples:  n.LeftSamples,
			RightSamples: n.RightSamples,
			Fraction:     fraction,
		}
		t.node(left).Area = n.Area * fraction
		t.node(right).Area = n.Area * (1 - fraction)

		for _, eid := range leftIDs {
			enemies[eid].Leaf = left
		}
		for _, eid := range rightIDs {
			enemies[eid].Leaf = right
		}
		t.replaceOpen(id, left, right)
		t.log.Add(t.now(), "wall", "subdivide",
			fmt.Sprintf("node=%d left=%s(%d) right=%s(%d)", id,
				t.nodes[left].Kind, len(leftIDs), t.nodes[right].Kind, len(rightIDs)),
			float64(id))
	}
}

func (t *Tree) newLeaf(parent NodeID, enemyIDs []int) NodeID {
	if len(enemyIDs) == 0 {
		return t.alloc(Node{Kind: NodeClosed, Parent: parent})
	}
	return t.alloc(Node{Kind: NodeOpen, Parent: parent, Enemies: enemyIDs})
}

// replaceOpen swaps a subdivided leaf out of the open registry for whichever
// of its children are open.
func (t *Tree) replaceOpen(old, left, right NodeID) {
	out := t.open[:0]
	for _, id := range t.open {
		if id != old {
			out = append(out, id)
		}
	}
	for _, id := range []NodeID{left, right} {
		if t.nodes[id].Kind == NodeOpen {
			out = append(out, id)
		}
	}
	t.open = out
}

// Abort clears the pending boundary of every affected leaf and drops the
// samples it had collected.
func (t *Tree) Abort(affected []NodeID) {
	for _, id := range affected {
		n := t.node(id)
		if n.Kind != NodeOpen {
			continue
		}
		n.Pending = nil
		n.LeftSamples, n.RightSamples = 0, 0
	}
}

// setPending points every affected leaf at the same growing primitive.
func (t *Tree) setPending(affected []NodeID, p *Primitive) {
	for _, id := range affected {
		if n := t.node(id); n.Kind == NodeOpen {
			n.Pending = p
		}
	}
}

// Ancestors returns the inner nodes above id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		out = append(out, p)
	}
	return out
}

// Depth returns the number of inner nodes above id.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		d++
	}
	return d
}

// tagFor derives the side tag from the kinds of a new node's children.
func tagFor(left, right NodeKind) SideTag {
	switch {
	case left == NodeOpen && right == NodeClosed:
		return TagClosedRight
	case left == NodeClosed && right == NodeOpen:
		return TagClosedLeft
	default:
		return TagOpenBoth
	}
}

// String dumps the tree with one '|' of indent per level.
//
//	Circle node
//	|Open; 3 enemies
//	|Closed
func (t *Tree) String() string {
	var sb strings.Builder
	t.dump(&sb, t.root, 0)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID, depth int) {
	n := t.node(id)
	sb.WriteString(strings.Repeat("|", depth))
	switch n.Kind {
	case NodeClosed:
		fmt.Fprintf(sb, "Closed area=%.4f\n", n.Area)
	case NodeOpen:
		fmt.Fprintf(sb, "Open; %d enemies area=%.4f\n", len(n.Enemies), n.Area)
	default:
		label := "Line"
		if n.Boundary.Kind == KindCircle {
			label = "Circle"
		}
		fmt.Fprintf(sb, "%s node %s area=%.4f\n", label, n.Tag, n.Area)
		t.dump(sb, n.Left, depth+1)
		t.dump(sb, n.Right, depth+1)
	}
}
