package game

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/circularzero/circular-zero/internal/arena"
	"github.com/circularzero/circular-zero/internal/config"
	"github.com/circularzero/circular-zero/internal/sound"
)

// playfieldSize is the side of the square arena view in pixels; the message
// log panel sits to its right.
const playfieldSize = 720

// reportTail is how many events the clipboard report includes.
const reportTail = 40

var (
	backgroundColor = color.RGBA{R: 10, G: 12, B: 18, A: 255}
	cursorColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	growingColor    = color.RGBA{R: 255, G: 200, B: 90, A: 255}
	previewColor    = color.RGBA{R: 255, G: 255, B: 255, A: 90}
)

// enemyColors is indexed by enemy type.
var enemyColors = []color.RGBA{
	{R: 230, G: 80, B: 70, A: 255},  // default
	{R: 200, G: 90, B: 220, A: 255}, // big
	{R: 250, G: 150, B: 40, A: 255}, // fast
}

// Game is the ebiten shell around an arena session.
type Game struct {
	cfg   *config.Config
	mode  config.Mode
	level int // 0-based
	carry int // walls carried into the next arcade level
	rng   *rand.Rand

	plan  config.Plan
	arena *arena.Arena

	messages *MessageLog
	hues     *HueGenerator
	masks    *maskRenderer
	sound    *sound.SoundManager
	vp       viewport

	paused    bool
	showHUD   bool
	status    string
	lastMouse [2]int
}

// New creates a game in the given mode. snd may be nil for a silent game.
func New(cfg *config.Config, mode config.Mode, seed int64, snd *sound.SoundManager) (*Game, error) {
	hues, err := NewHueGenerator(baseRegionColor)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		mode:     mode,
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay randomness
		messages: NewMessageLog(),
		hues:     hues,
		masks:    newMaskRenderer(hues),
		sound:    snd,
		vp:       newViewport(playfieldSize, playfieldSize),
		showHUD:  true,
	}
	if err := g.startLevel(); err != nil {
		return nil, err
	}
	return g, nil
}

// Arena exposes the running session.
func (g *Game) Arena() *arena.Arena { return g.arena }

// Level returns the 0-based level index.
func (g *Game) Level() int { return g.level }

// startLevel builds the arena for g.level.
func (g *Game) startLevel() error {
	var plan config.Plan
	switch g.mode {
	case config.ModeCampaign:
		p, err := g.cfg.CampaignLevel(g.level)
		if errors.Is(err, config.ErrNoSuchLevel) && g.level > 0 {
			g.messages.Add(0, "level", "campaign complete, starting over")
			g.level = 0
			p, err = g.cfg.CampaignLevel(0)
		}
		if err != nil {
			return fmt.Errorf("start level %d: %w", g.level+1, err)
		}
		plan = p
	default:
		plan = g.cfg.ArcadeLevel(g.level+1, g.carry, g.mode == config.ModeVarietyArcade, g.rng)
	}

	log := arena.NewEventLog(false)
	log.SetListener(g.handleEvent)
	g.plan = plan
	g.arena = arena.New(plan.Enemies, plan.Walls, g.cfg.Settings(), g.rng, log)
	g.hues.Reset()
	g.status = ""
	g.messages.Add(0, "level", fmt.Sprintf("%s: %d enemies, %d walls", plan.Name, len(plan.Enemies), plan.Walls))
	return nil
}

// handleEvent fans arena events out to the message panel and sound.
func (g *Game) handleEvent(e arena.EventEntry) {
	g.messages.AddEvent(e)
	if g.sound != nil {
		g.sound.Handle(e)
	}
}

// nextLevel advances after a cleared level. Arcade levels carry unused walls.
func (g *Game) nextLevel() error {
	if !g.arena.Cleared() {
		return nil
	}
	g.carry = g.arena.WallsLeft()
	g.level++
	return g.startLevel()
}

// restart replays the current level. An arcade restart forfeits carried walls.
func (g *Game) restart() error {
	if g.mode != config.ModeCampaign && g.level > 0 {
		g.carry = 0
	}
	return g.startLevel()
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.paused {
		return nil
	}
	g.arena.Tick(1 / float64(ebiten.TPS()))
	return nil
}

// handleInput processes keys (edge-triggered) and forwards the pointer to
// the arena in arena coordinates.
func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if g.arena.WallKind() == arena.WallLine {
			g.arena.SetWallKind(arena.WallCircle)
		} else {
			g.arena.SetWallKind(arena.WallLine)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		return g.nextLevel()
	}
	if g.paused {
		return nil
	}

	mx, my := ebiten.CursorPosition()
	p := g.vp.toArena(mx, my)
	if [2]int{mx, my} != g.lastMouse {
		g.lastMouse = [2]int{mx, my}
		g.arena.Move(p)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.arena.Press(p)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.arena.Release(p)
	}
	return nil
}

// copyReport puts the arena report on the system clipboard.
func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.arena.Report(reportTail)); err != nil {
		g.status = fmt.Sprintf("clipboard: %v", err)
		return
	}
	g.status = "report copied to clipboard"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.masks.begin(screen, g.vp, g.arena.Tree().Root())
	g.arena.Tree().Render(g.masks)

	g.drawConstruction(screen)
	g.drawEnemies(screen)
	g.drawCursor(screen)
	g.drawHUD(screen)
	g.messages.Draw(screen, playfieldSize, playfieldSize)
}

// drawConstruction strokes the growing wall, or previews a circle drag.
func (g *Game) drawConstruction(screen *ebiten.Image) {
	if c := g.arena.Construction(); c != nil {
		strokePrimitive(screen, g.vp, c.Wall, 3, growingColor)
		return
	}
	pressed, at := g.arena.Dragging()
	if !pressed || g.arena.WallKind() != arena.WallCircle {
		return
	}
	x, y := g.vp.toScreen(at)
	r := g.arena.Pointer().DistanceFrom(at)
	vector.StrokeCircle(screen, x, y, g.vp.length(r), 1, previewColor, true)
}

func (g *Game) drawEnemies(screen *ebiten.Image) {
	for _, e := range g.arena.Enemies() {
		col := enemyColors[0]
		if e.Type >= 0 && e.Type < len(enemyColors) {
			col = enemyColors[e.Type]
		}
		x, y := g.vp.toScreen(e.Pos)
		vector.FillCircle(screen, x, y, g.vp.length(e.Radius), col, true)
	}
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	x, y := g.vp.toScreen(g.arena.Cursor())
	r := g.vp.length(g.arena.Settings().CursorRadius)
	vector.StrokeCircle(screen, x, y, r, 1.5, cursorColor, true)
	if g.arena.WallKind() == arena.WallCircle {
		vector.StrokeCircle(screen, x, y, r/2, 1, cursorColor, true)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return playfieldSize + logPanelWidth, playfieldSize
}
