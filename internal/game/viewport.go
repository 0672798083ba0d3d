package game

import (
	"math"

	"github.com/circularzero/circular-zero/internal/arena"
)

// renderScale is the share of the playfield's half-size the arena radius
// occupies; the rest is margin for the rim and cursor.
const renderScale = 0.9

// viewport maps arena space (unit disk, y up) onto a square playfield of
// pixels (y down).
type viewport struct {
	cx, cy float64 // pixel centre of the arena
	scale  float64 // pixels per arena unit
}

func newViewport(w, h int) viewport {
	return viewport{
		cx:    float64(w) / 2,
		cy:    float64(h) / 2,
		scale: math.Min(float64(w), float64(h)) / 2 * renderScale,
	}
}

func (v viewport) toScreen(p arena.Point) (float32, float32) {
	return float32(v.cx + p.X*v.scale), float32(v.cy - p.Y*v.scale)
}

func (v viewport) toArena(x, y int) arena.Point {
	return arena.Point{X: (float64(x) - v.cx) / v.scale, Y: (v.cy - float64(y)) / v.scale}
}

func (v viewport) length(d float64) float32 {
	return float32(d * v.scale)
}
