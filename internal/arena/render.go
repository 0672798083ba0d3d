package arena

// Renderer is a drawing backend for the partition. Drawing is masked: a
// PushMask hides one side of a boundary from every draw until the matching
// PopMask, and masks nest like a stencil counter.
type Renderer interface {
	// DrawBoundary draws an inner node's boundary. When tag marks a closed
	// side, that side is filled as well.
	DrawBoundary(id NodeID, b Primitive, tag SideTag)
	// PushMask hides the given side of b from later draws.
	PushMask(b Primitive, hide Side)
	// PopMask removes the most recent mask.
	PopMask()
}

// Render walks the tree in drawing order. For a node with two open children
// each child is drawn with the other child's side masked out; otherwise the
// closed side is masked and the open child drawn.
func (t *Tree) Render(r Renderer) {
	t.renderNode(t.root, r)
}

func (t *Tree) renderNode(id NodeID, r Renderer) {
	n := t.node(id)
	if n.IsLeaf() {
		return
	}
	r.DrawBoundary(id, n.Boundary, n.Tag)
	switch n.Tag {
	case TagOpenBoth:
		r.PushMask(n.Boundary, Right)
		t.renderNode(n.Left, r)
		r.PopMask()

		r.PushMask(n.Boundary, Left)
		t.renderNode(n.Right, r)
		r.PopMask()
	case TagClosedLeft:
		r.PushMask(n.Boundary, Left)
		t.renderNode(n.Right, r)
		r.PopMask()
	case TagClosedRight:
		r.PushMask(n.Boundary, Right)
		t.renderNode(n.Left, r)
		r.PopMask()
	}
}
