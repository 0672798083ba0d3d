package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/circularzero/circular-zero/internal/arena"
)

// halfPlaneReach is how far, in arena units, a line's half-plane polygon
// extends. Anything past the playfield edge will do.
const halfPlaneReach = 10

const wallWidth = 2.0

var (
	white         = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	exteriorColor = color.RGBA{R: 14, G: 16, B: 24, A: 255}
	wallColor     = color.RGBA{R: 235, G: 240, B: 250, A: 255}
)

// maskRenderer draws the partition tree onto an ebiten image. Each pushed
// mask is a full-size alpha image of the region still visible; drawing goes
// through an offscreen layer that is cut down to the top mask with
// BlendDestinationIn before it is tinted onto the target.
type maskRenderer struct {
	vp     viewport
	target *ebiten.Image
	root   arena.NodeID
	hues   *HueGenerator

	masks []*ebiten.Image // pooled; masks[:depth] are live
	depth int
	shape *ebiten.Image
	layer *ebiten.Image
}

func newMaskRenderer(hues *HueGenerator) *maskRenderer {
	return &maskRenderer{hues: hues}
}

// begin prepares a frame. Buffers are reallocated when the target size
// changes.
func (m *maskRenderer) begin(target *ebiten.Image, vp viewport, root arena.NodeID) {
	m.target = target
	m.vp = vp
	m.root = root
	m.depth = 0

	b := target.Bounds()
	if m.layer == nil || m.layer.Bounds() != b {
		m.layer = ebiten.NewImage(b.Dx(), b.Dy())
		m.shape = ebiten.NewImage(b.Dx(), b.Dy())
		m.masks = nil
	}
}

// DrawBoundary fills the closed side of b, if any, then strokes b.
func (m *maskRenderer) DrawBoundary(id arena.NodeID, b arena.Primitive, tag arena.SideTag) {
	fill := exteriorColor
	if id != m.root {
		fill = m.hues.ColorFor(id)
	}
	switch tag {
	case arena.TagClosedLeft:
		m.fillSide(b, arena.Left)
		m.composite(fill)
	case arena.TagClosedRight:
		m.fillSide(b, arena.Right)
		m.composite(fill)
	}

	m.layer.Clear()
	strokePrimitive(m.layer, m.vp, b, wallWidth, white)
	m.composite(wallColor)
}

// PushMask narrows the visible region by hiding one side of b.
func (m *maskRenderer) PushMask(b arena.Primitive, hide arena.Side) {
	if m.depth == len(m.masks) {
		bounds := m.layer.Bounds()
		m.masks = append(m.masks, ebiten.NewImage(bounds.Dx(), bounds.Dy()))
	}
	mask := m.masks[m.depth]
	if m.depth == 0 {
		mask.Fill(white)
	} else {
		mask.Clear()
		mask.DrawImage(m.masks[m.depth-1], nil)
	}

	m.shape.Clear()
	m.drawLeftShape(m.shape, b)
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn}
	if hide == arena.Left {
		op.Blend = ebiten.BlendDestinationOut
	}
	mask.DrawImage(m.shape, op)
	m.depth++
}

// PopMask restores the previous visible region.
func (m *maskRenderer) PopMask() {
	if m.depth > 0 {
		m.depth--
	}
}

// fillSide paints one side of b in white on the layer.
func (m *maskRenderer) fillSide(b arena.Primitive, side arena.Side) {
	m.layer.Clear()
	if side == arena.Left {
		m.drawLeftShape(m.layer, b)
		return
	}
	m.layer.Fill(white)
	m.shape.Clear()
	m.drawLeftShape(m.shape, b)
	m.layer.DrawImage(m.shape, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationOut})
}

// composite clips the layer to the current mask and draws it tinted.
func (m *maskRenderer) composite(tint color.RGBA) {
	if m.depth > 0 {
		m.layer.DrawImage(m.masks[m.depth-1], &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
	}
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleWithColor(tint)
	m.target.DrawImage(m.layer, op)
}

// drawLeftShape fills the Left side of b: a circle's disc, or the half-plane
// on a line's normal side.
func (m *maskRenderer) drawLeftShape(dst *ebiten.Image, b arena.Primitive) {
	if b.Kind == arena.KindCircle {
		x, y := m.vp.toScreen(b.Center)
		vector.FillCircle(dst, x, y, m.vp.length(b.Radius), white, true)
		return
	}
	d := b.Direction().Times(halfPlaneReach)
	n := b.Normal().Times(halfPlaneReach)
	corners := []arena.Point{d, d.Plus(n), d.Times(-1).Plus(n), d.Times(-1)}

	var path vector.Path
	for i, c := range corners {
		x, y := m.vp.toScreen(c)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	vector.FillPath(dst, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})
}

// strokePrimitive draws the drawn part of p: a segment for a line, a
// polyline for an arc.
func strokePrimitive(dst *ebiten.Image, vp viewport, p arena.Primitive, width float32, clr color.Color) {
	if p.Kind == arena.KindLine {
		from := math.Max(p.From, -halfPlaneReach)
		to := math.Min(p.To, halfPlaneReach)
		x0, y0 := vp.toScreen(p.Direction().Times(from))
		x1, y1 := vp.toScreen(p.Direction().Times(to))
		vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, true)
		return
	}
	if p.IsFull() {
		x, y := vp.toScreen(p.Center)
		vector.StrokeCircle(dst, x, y, vp.length(p.Radius), width, clr, true)
		return
	}
	sweep := p.ToAngle - p.FromAngle
	steps := int(math.Ceil(math.Abs(sweep)*float64(vp.length(p.Radius))/4)) + 1
	px, py := vp.toScreen(arcPoint(p, p.FromAngle))
	for i := 1; i <= steps; i++ {
		x, y := vp.toScreen(arcPoint(p, p.FromAngle+sweep*float64(i)/float64(steps)))
		vector.StrokeLine(dst, px, py, x, y, width, clr, true)
		px, py = x, y
	}
}

func arcPoint(p arena.Primitive, a float64) arena.Point {
	return arena.Point{X: p.Center.X + p.Radius*math.Cos(a), Y: p.Center.Y + p.Radius*math.Sin(a)}
}

var _ arena.Renderer = (*maskRenderer)(nil)
