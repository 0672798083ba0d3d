package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/circularzero/circular-zero/internal/arena"
)

// baseRegionColor is the first closed region's colour.
const baseRegionColor = "#74DDF2"

// goldenAngle is the hue step between consecutive regions, in degrees. Adding
// the golden ratio conjugate of a full turn keeps neighbours far apart.
const goldenAngle = 0.618033988749895 * 360

// HueGenerator hands out a stable colour per tree node, stepping the hue of
// the base colour by the golden angle for every new node.
type HueGenerator struct {
	h, s, v  float64
	next     int
	assigned map[arena.NodeID]color.RGBA
}

// NewHueGenerator starts a sequence at the given hex colour.
func NewHueGenerator(hex string) (*HueGenerator, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("region colour %q: %w", hex, err)
	}
	h, s, v := c.Hsv()
	return &HueGenerator{h: h, s: s, v: v, assigned: map[arena.NodeID]color.RGBA{}}, nil
}

// ColorFor returns the colour of node id, assigning the next hue on first use.
func (g *HueGenerator) ColorFor(id arena.NodeID) color.RGBA {
	if c, ok := g.assigned[id]; ok {
		return c
	}
	hue := math.Mod(g.h+float64(g.next)*goldenAngle, 360)
	g.next++
	r, gg, b := colorful.Hsv(hue, g.s, g.v).Clamped().RGB255()
	c := color.RGBA{R: r, G: gg, B: b, A: 255}
	g.assigned[id] = c
	return c
}

// Reset forgets every assignment; the next node gets the base colour again.
func (g *HueGenerator) Reset() {
	g.next = 0
	g.assigned = map[arena.NodeID]color.RGBA{}
}
