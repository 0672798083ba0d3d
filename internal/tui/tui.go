// Package tui plays the arena in a terminal. Each character cell shows the
// region under its centre; cells are assumed to be twice as tall as wide.
package tui

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/circularzero/circular-zero/internal/arena"
	"github.com/circularzero/circular-zero/internal/config"
)

const (
	statusRows  = 2
	frameTime   = 16 * time.Millisecond
	goldenAngle = 0.618033988749895 * 360
)

var (
	styleDefault  = tcell.StyleDefault
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGrowing  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	stylePointer  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleAlert    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	enemyRunes    = []rune{'o', 'O', '*'}
	enemyStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	regionBaseHue = 191.0 // matches the graphical shell's first region colour
)

// App is a terminal session over one arena.
type App struct {
	screen tcell.Screen
	cfg    *config.Config
	mode   config.Mode
	level  int // 0-based
	carry  int // walls carried into the next arcade level
	rng    *rand.Rand

	plan  config.Plan
	arena *arena.Arena

	// grid geometry, refreshed on resize
	width, height int
	cx, cy        float64
	sx, sy        float64 // cells per arena unit

	pointerX, pointerY int
	pressed            bool
	status             string
}

// New creates an app drawing on screen. The screen must already be
// initialised.
func New(screen tcell.Screen, cfg *config.Config, mode config.Mode, level int, seed int64) (*App, error) {
	a := &App{
		screen: screen,
		cfg:    cfg,
		mode:   mode,
		level:  level,
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay randomness
	}
	a.resize()
	if err := a.startLevel(); err != nil {
		return nil, err
	}
	a.pointerX, a.pointerY = int(a.cx), int(a.cy)
	return a, nil
}

// Arena exposes the running session.
func (a *App) Arena() *arena.Arena { return a.arena }

func (a *App) startLevel() error {
	if a.mode == config.ModeCampaign {
		p, err := a.cfg.CampaignLevel(a.level)
		if err != nil {
			return fmt.Errorf("start level %d: %w", a.level+1, err)
		}
		a.plan = p
	} else {
		a.plan = a.cfg.ArcadeLevel(a.level+1, a.carry, a.mode == config.ModeVarietyArcade, a.rng)
	}
	a.arena = arena.New(a.plan.Enemies, a.plan.Walls, a.cfg.Settings(), a.rng, arena.NewEventLog(false))
	a.arena.Log().SetListener(a.onEvent)
	a.pressed = false
	a.status = a.plan.Name
	return nil
}

func (a *App) onEvent(e arena.EventEntry) {
	switch e.Category + "/" + e.Key {
	case "wall/abort", "wall/rejected", "level/cleared", "level/out_of_walls":
		a.status = e.Key
		if e.Value != "" {
			a.status += ": " + e.Value
		}
	}
}

// resize fits the unit disk into the area above the status rows.
func (a *App) resize() {
	a.width, a.height = a.screen.Size()
	rows := a.height - statusRows
	a.cx = float64(a.width) / 2
	a.cy = float64(rows) / 2
	a.sy = math.Max(float64(rows)/2-0.5, 1)
	a.sx = 2 * a.sy
	if half := float64(a.width)/2 - 1; a.sx > half {
		a.sx = math.Max(half, 2)
		a.sy = a.sx / 2
	}
}

// cellToArena returns the arena point at the centre of cell (x, y).
func (a *App) cellToArena(x, y int) arena.Point {
	return arena.Point{
		X: (float64(x) + 0.5 - a.cx) / a.sx,
		Y: (a.cy - float64(y) - 0.5) / a.sy,
	}
}

// arenaToCell returns the cell containing arena point p.
func (a *App) arenaToCell(p arena.Point) (int, int) {
	return int(math.Floor(a.cx + p.X*a.sx)), int(math.Floor(a.cy - p.Y*a.sy))
}

// Run drives the session until the player quits.
func (a *App) Run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			a.arena.Tick(now.Sub(last).Seconds())
			last = now
			a.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.handlePointer(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		a.toggleKind()
	case tcell.KeyUp:
		a.movePointer(0, -1)
	case tcell.KeyDown:
		a.movePointer(0, 1)
	case tcell.KeyLeft:
		a.movePointer(-1, 0)
	case tcell.KeyRight:
		a.movePointer(1, 0)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case ' ':
			a.handlePointer(a.pointerX, a.pointerY, !a.pressed)
		case 'r':
			a.restart()
		case 'n':
			a.nextLevel()
		}
	}
	return true
}

func (a *App) toggleKind() {
	if a.arena.WallKind() == arena.WallLine {
		a.arena.SetWallKind(arena.WallCircle)
	} else {
		a.arena.SetWallKind(arena.WallLine)
	}
}

// restart replays the current level. An arcade restart forfeits the walls
// carried over from the previous level.
func (a *App) restart() {
	if a.mode != config.ModeCampaign && a.level > 0 {
		a.carry = 0
	}
	if err := a.startLevel(); err != nil {
		a.status = err.Error()
	}
}

func (a *App) nextLevel() {
	if !a.arena.Cleared() {
		return
	}
	a.carry = a.arena.WallsLeft()
	a.level++
	if a.mode == config.ModeCampaign && a.level >= len(a.cfg.Campaign) {
		a.level = 0
	}
	if err := a.startLevel(); err != nil {
		a.status = err.Error()
	}
}

func (a *App) movePointer(dx, dy int) {
	x, y := a.pointerX+dx, a.pointerY+dy
	if x < 0 || y < 0 || x >= a.width || y >= a.height-statusRows {
		return
	}
	a.handlePointer(x, y, a.pressed)
}

// handlePointer forwards a pointer sample in cell coordinates. down is the
// button state; edges become Press and Release.
func (a *App) handlePointer(x, y int, down bool) {
	a.pointerX, a.pointerY = x, y
	p := a.cellToArena(x, y)
	a.arena.Move(p)
	switch {
	case down && !a.pressed:
		a.arena.Press(p)
	case !down && a.pressed:
		a.arena.Release(p)
	}
	a.pressed = down
}

// Draw renders the arena and the status rows.
func (a *App) Draw() {
	a.screen.Clear()
	a.drawRegions()
	a.drawConstruction()
	a.drawEnemies()
	a.drawCursor()
	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawRegions() {
	tree := a.arena.Tree()
	exterior := tree.Node(tree.Root()).Right
	rows := a.height - statusRows
	for y := 0; y < rows; y++ {
		for x := 0; x < a.width; x++ {
			leaf := tree.Locate(a.cellToArena(x, y))
			if leaf == exterior {
				if a.onEdge(tree, x, y, leaf) {
					a.screen.SetContent(x, y, '·', nil, styleWall)
				}
				continue
			}
			if tree.Node(leaf).Kind == arena.NodeClosed {
				a.screen.SetContent(x, y, ' ', nil, styleDefault.Background(regionColor(leaf)))
				continue
			}
			if a.onEdge(tree, x, y, leaf) {
				a.screen.SetContent(x, y, '·', nil, styleWall)
			}
		}
	}
}

// onEdge reports whether a neighbouring cell lies in a different leaf.
func (a *App) onEdge(tree *arena.Tree, x, y int, leaf arena.NodeID) bool {
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		if tree.Locate(a.cellToArena(x+d[0], y+d[1])) != leaf {
			return true
		}
	}
	return false
}

// regionColor gives each closed leaf a stable hue.
func regionColor(id arena.NodeID) tcell.Color {
	h := math.Mod(regionBaseHue+float64(id)*goldenAngle, 360)
	r, g, b := colorful.Hsv(h, 0.5, 0.6).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (a *App) drawConstruction() {
	c := a.arena.Construction()
	if c == nil {
		return
	}
	step := 0.5 / a.sx
	for _, p := range sampleAlong(c.Wall, step) {
		x, y := a.arenaToCell(p)
		a.screen.SetContent(x, y, '#', nil, styleGrowing)
	}
}

// sampleAlong returns points spaced about step apart along the drawn part of
// p, end points included.
func sampleAlong(p arena.Primitive, step float64) []arena.Point {
	if p.Kind == arena.KindLine {
		from, to := math.Max(p.From, -1), math.Min(p.To, 1)
		n := int(math.Ceil(math.Abs(to-from)/step)) + 1
		pts := make([]arena.Point, 0, n+1)
		for i := 0; i <= n; i++ {
			pts = append(pts, p.Direction().Times(from+(to-from)*float64(i)/float64(n)))
		}
		return pts
	}
	sweep := p.ToAngle - p.FromAngle
	if p.IsFull() {
		sweep = 2 * math.Pi
	}
	n := int(math.Ceil(math.Abs(sweep)*p.Radius/step)) + 1
	pts := make([]arena.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		ang := p.FromAngle + sweep*float64(i)/float64(n)
		pts = append(pts, arena.Point{X: p.Center.X + p.Radius*math.Cos(ang), Y: p.Center.Y + p.Radius*math.Sin(ang)})
	}
	return pts
}

func (a *App) drawEnemies() {
	for _, e := range a.arena.Enemies() {
		r := enemyRunes[0]
		if e.Type >= 0 && e.Type < len(enemyRunes) {
			r = enemyRunes[e.Type]
		}
		x, y := a.arenaToCell(e.Pos)
		a.screen.SetContent(x, y, r, nil, enemyStyle)
	}
}

func (a *App) drawCursor() {
	if pressed, at := a.arena.Dragging(); pressed {
		x, y := a.arenaToCell(at)
		a.screen.SetContent(x, y, 'x', nil, stylePointer)
	}
	a.screen.SetContent(a.pointerX, a.pointerY, '+', nil, stylePointer)

	r := '|'
	if a.arena.WallKind() == arena.WallCircle {
		r = '@'
	}
	x, y := a.arenaToCell(a.arena.Cursor())
	a.screen.SetContent(x, y, r, nil, styleCursor)
}

func (a *App) drawStatus() {
	ar := a.arena
	line := fmt.Sprintf("%s %d: %s  closed %.1f%%/%.0f%%  walls %d  next %s",
		a.mode, a.level+1, a.plan.Name, ar.ClosedFraction()*100, ar.Settings().TargetFraction*100, ar.WallsLeft(), ar.WallKind())
	a.printAt(0, a.height-2, line, styleStatus)

	msg, style := a.status, styleStatus
	switch {
	case ar.Cleared():
		msg, style = "cleared, n=next level", styleAlert
	case ar.OutOfWalls():
		msg, style = "out of walls, r=retry", styleAlert
	}
	a.printAt(0, a.height-1, msg+"  [arrows/mouse] aim [space] draw [tab] shape [q] quit", style)
}

func (a *App) printAt(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= a.width {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
