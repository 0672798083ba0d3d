package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const hudLineHeight = 16

var (
	hudTextColor  = color.RGBA{R: 220, G: 228, B: 240, A: 255}
	hudDimColor   = color.RGBA{R: 130, G: 140, B: 160, A: 255}
	hudAlertColor = color.RGBA{R: 240, G: 210, B: 90, A: 255}
)

// hudLines builds the status text shown in the top-left corner.
func (g *Game) hudLines() []string {
	a := g.arena
	lines := []string{
		fmt.Sprintf("%s  level %d: %s", g.mode, g.level+1, g.plan.Name),
		fmt.Sprintf("closed %5.1f%% / %.0f%%", a.ClosedFraction()*100, a.Settings().TargetFraction*100),
		fmt.Sprintf("walls %d   next: %s [Tab]", a.WallsLeft(), a.WallKind()),
	}
	if c := a.Construction(); c != nil {
		lines = append(lines, fmt.Sprintf("building %s %3.0f%%", c.Kind, c.Progress()*100))
	}
	return lines
}

// drawHUD renders the status block, key legend and any banner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	vector.FillRect(screen, 6, 6, 250, float32(len(lines)*hudLineHeight+10), color.RGBA{R: 6, G: 8, B: 14, A: 200}, false)
	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, 12, 22+i*hudLineHeight, hudTextColor)
	}

	if g.showHUD {
		legend := "click=line  drag=circle  Tab=shape  P=pause  R=restart  C=copy report  H=hide"
		text.Draw(screen, legend, basicfont.Face7x13, 12, playfieldSize-10, hudDimColor)
	}

	banner := ""
	switch {
	case g.paused:
		banner = "PAUSED"
	case g.arena.Cleared():
		banner = "LEVEL CLEARED  N=next level"
	case g.arena.OutOfWalls():
		banner = "OUT OF WALLS  R=retry"
	}
	if banner != "" {
		w := len(banner) * 7
		text.Draw(screen, banner, basicfont.Face7x13, (playfieldSize-w)/2, playfieldSize/2, hudAlertColor)
	}
	if g.status != "" {
		text.Draw(screen, g.status, basicfont.Face7x13, 12, playfieldSize-28, hudAlertColor)
	}
}
