package arena

import (
	"fmt"
	"math"
	"math/rand"
)

// Settings are the tuning values of one arena session.
type Settings struct {
	CursorRadius    float64 // radius of the player's cursor disc
	CursorSpeed     float64 // arena units per second a wall grows
	SamplesPerTick  int     // Monte-Carlo samples registered per tick while a wall grows
	MaxFrameDelta   float64 // seconds; longer frames are clamped
	TargetFraction  float64 // closed fraction that clears the level
	MinCircleRadius float64 // smaller circle walls are rejected
}

// DefaultSettings returns the standard tuning.
func DefaultSettings() Settings {
	return Settings{
		CursorRadius:    0.025,
		CursorSpeed:     1,
		SamplesPerTick:  400,
		MaxFrameDelta:   2.0 / 60,
		TargetFraction:  0.75,
		MinCircleRadius: 0.05,
	}
}

// EnemySpec places one enemy at arena start.
type EnemySpec struct {
	Type   int
	Pos    Point
	Speed  float64
	Angle  float64
	Radius float64
}

// Stats counts what happened during a session.
type Stats struct {
	WallsStarted   int
	WallsCommitted int
	WallsAborted   int
	WallsRejected  int
	Bounces        int
}

// Arena is one game session: the partition tree, its enemies, the player's
// cursor and at most one wall under construction. All mutation happens in
// Tick and the input methods, from a single goroutine.
type Arena struct {
	settings Settings
	tree     *Tree
	engine   *Engine
	sampler  *Sampler
	enemies  []*Enemy
	log      *EventLog
	tick     int

	wallKind     WallKind
	wallsLeft    int
	construction *Construction

	cursor   Point
	pointer  Point
	pressed  bool
	pressAt  Point
	lastDrag Point

	closed  float64
	cleared bool
	stalled bool
	stats   Stats
}

// New builds an arena with the given enemies and wall budget. rng drives the
// Monte-Carlo sampler; log may be nil.
func New(specs []EnemySpec, walls int, settings Settings, rng *rand.Rand, log *EventLog) *Arena {
	if log == nil {
		log = NewEventLog(false)
	}
	a := &Arena{
		settings:  settings,
		log:       log,
		wallsLeft: walls,
		sampler:   NewSampler(rng),
	}
	ids := make([]int, len(specs))
	for i := range specs {
		ids[i] = i
	}
	a.tree = NewTree(ids, log)
	a.tree.bindTick(&a.tick)
	a.engine = NewEngine(a.tree, log)
	leaf := a.tree.OpenLeaves()[0]
	for i, s := range specs {
		a.enemies = append(a.enemies, &Enemy{
			ID:     i,
			Type:   s.Type,
			Pos:    s.Pos,
			Speed:  s.Speed,
			Angle:  s.Angle,
			Radius: s.Radius,
			Leaf:   leaf,
		})
	}
	return a
}

// Tree exposes the partition for rendering. Callers must not mutate it.
func (a *Arena) Tree() *Tree { return a.tree }

// Enemies returns the enemies, indexed by ID.
func (a *Arena) Enemies() []*Enemy { return a.enemies }

// Log returns the arena's event log.
func (a *Arena) Log() *EventLog { return a.log }

// Settings returns the arena's tuning.
func (a *Arena) Settings() Settings { return a.settings }

// Cursor is the player's cursor position.
func (a *Arena) Cursor() Point { return a.cursor }

// Construction returns the wall being drawn, or nil.
func (a *Arena) Construction() *Construction { return a.construction }

// Dragging reports whether the pointer is held down, and where it went down.
func (a *Arena) Dragging() (bool, Point) { return a.pressed, a.pressAt }

// Pointer is the last pointer position received.
func (a *Arena) Pointer() Point { return a.pointer }

// WallKind returns the shape of the next wall.
func (a *Arena) WallKind() WallKind { return a.wallKind }

// WallsLeft returns how many walls may still be started.
func (a *Arena) WallsLeft() int { return a.wallsLeft }

// TickCount returns the number of ticks run so far.
func (a *Arena) TickCount() int { return a.tick }

// Stats returns the session counters.
func (a *Arena) Stats() Stats { return a.stats }

// ClosedFraction is the score: the estimated share of the disk that is closed.
func (a *Arena) ClosedFraction() float64 { return a.closed }

// Cleared reports whether the closed fraction has reached the target.
func (a *Arena) Cleared() bool { return a.cleared }

// OutOfWalls reports whether the level can no longer progress.
func (a *Arena) OutOfWalls() bool {
	return a.wallsLeft <= 0 && a.construction == nil && !a.cleared
}

// SetWallKind selects the shape of the next wall.
func (a *Arena) SetWallKind(k WallKind) {
	a.wallKind = k
}

// Press handles a pointer press at p.
func (a *Arena) Press(p Point) {
	a.pointer = p
	if a.construction != nil {
		return
	}
	a.pressed = true
	a.pressAt = clampToDisk(p, 1)
	a.lastDrag = a.pressAt
}

// Move handles pointer motion.
func (a *Arena) Move(p Point) {
	if a.pressed {
		a.lastDrag = a.pointer
	}
	a.pointer = p
}

// Release handles a pointer release at p and starts a wall if the gesture
// describes one.
func (a *Arena) Release(p Point) {
	a.pointer = p
	if !a.pressed {
		return
	}
	a.pressed = false
	if a.construction != nil || a.cleared {
		return
	}
	if a.wallsLeft <= 0 {
		a.log.Add(a.tick, "wall", "rejected", "no walls left", 0)
		a.stats.WallsRejected++
		return
	}

	var c *Construction
	switch a.wallKind {
	case WallCircle:
		end := clampToDisk(p, 1)
		if end.DistanceFrom(a.pressAt) < a.settings.MinCircleRadius {
			a.log.Add(a.tick, "wall", "rejected", "circle too small", end.DistanceFrom(a.pressAt))
			a.stats.WallsRejected++
			return
		}
		c = NewCircleConstruction(a.pressAt, end, turnDirection(a.pressAt, a.lastDrag, end))
	default:
		target := p
		if target.Magnitude() < a.settings.CursorRadius {
			target = a.pressAt
		}
		if target.Magnitude() < a.settings.CursorRadius {
			a.log.Add(a.tick, "wall", "rejected", "line direction undefined", 0)
			a.stats.WallsRejected++
			return
		}
		c = NewLineConstruction(math.Atan2(target.Y, target.X))
	}
	a.StartWall(c)
}

// StartWall marks the construction's boundary as pending in the tree. It
// returns false, without consuming a wall, if the boundary would split
// nothing.
func (a *Arena) StartWall(c *Construction) bool {
	if a.construction != nil {
		return false
	}
	affected := a.tree.Insert(c.Boundary())
	if len(affected) == 0 {
		a.log.Add(a.tick, "wall", "rejected", fmt.Sprintf("%s splits no open region", c.Kind), 0)
		a.stats.WallsRejected++
		return false
	}
	c.Affected = affected
	a.tree.setPending(affected, &c.Wall)
	a.construction = c
	a.cursor = c.Cursor()
	a.wallsLeft--
	a.stats.WallsStarted++
	a.log.Add(a.tick, "wall", "start",
		fmt.Sprintf("%s affected=%d walls_left=%d", c.Kind, len(affected), a.wallsLeft), float64(len(affected)))
	return true
}

// minContactStep bounds how densely an enemy's path is sampled for contact.
const minContactStep = 1e-3

// Tick advances the session by dt seconds. Phases run in a fixed order:
// sampling, wall growth, enemy motion and contact, commit or abort, area
// recomputation.
func (a *Arena) Tick(dt float64) {
	if dt > a.settings.MaxFrameDelta {
		dt = a.settings.MaxFrameDelta
	}
	if dt <= 0 {
		return
	}
	a.tick++

	// 1. SAMPLE: only a growing wall needs fresh area estimates.
	c := a.construction
	if c != nil {
		a.sampler.Feed(a.tree, a.settings.SamplesPerTick)
	}

	// 2. GROW: the cursor rides the growing end of the wall.
	cursorFrom := a.cursor
	done := false
	if c != nil {
		done = c.Advance(a.settings.CursorSpeed * dt)
		a.cursor = c.Cursor()
	} else {
		a.cursor = clampToDisk(a.pointer, 1-a.settings.CursorRadius)
	}

	// 3. MOVE: enemies bounce, then test contact with cursor and pending wall
	// along the whole path travelled this tick.
	aborted := false
	for _, e := range a.enemies {
		from := e.Pos
		res := a.engine.Step(e, dt)
		a.stats.Bounces += len(res.Bounces)
		if c == nil {
			continue
		}
		step := math.Max(math.Min(e.Radius, a.settings.CursorRadius)/2, minContactStep)
		travel := math.Max(res.Distance, a.cursor.DistanceFrom(cursorFrom))
		path := res.Trace(from, e.Pos, int(math.Ceil(travel/step)))
		if e.SweptTouchesCursor(path, cursorFrom, a.cursor, a.settings.CursorRadius) {
			if !aborted {
				a.log.Add(a.tick, "enemy", "contact", fmt.Sprintf("enemy=%d hit cursor", e.ID), float64(e.ID))
			}
			aborted = true
			continue
		}
		if leaf := a.tree.node(e.Leaf); leaf.Pending != nil && e.SweptTouchesWall(path, c.Wall) {
			if !aborted {
				a.log.Add(a.tick, "enemy", "contact", fmt.Sprintf("enemy=%d hit wall", e.ID), float64(e.ID))
			}
			aborted = true
		}
	}

	// 4. RESOLVE: abort wins over completion in the same tick.
	if c != nil {
		switch {
		case aborted:
			a.abortWall()
		case done:
			a.commitWall()
		}
	}

	// 5. AREA
	a.closed = a.tree.RecalculateAreas()
	if !a.cleared && a.closed >= a.settings.TargetFraction {
		a.cleared = true
		a.log.Add(a.tick, "level", "cleared", fmt.Sprintf("closed=%.3f", a.closed), a.closed)
	}
	if !a.stalled && a.OutOfWalls() {
		a.stalled = true
		a.log.Add(a.tick, "level", "out_of_walls", fmt.Sprintf("closed=%.3f", a.closed), a.closed)
	}
}

func (a *Arena) commitWall() {
	c := a.construction
	a.tree.Commit(c.Affected, a.enemies)
	a.construction = nil
	a.stats.WallsCommitted++
	a.log.Add(a.tick, "wall", "commit", fmt.Sprintf("%s leaves=%d", c.Kind, len(c.Affected)), float64(len(c.Affected)))
}

func (a *Arena) abortWall() {
	c := a.construction
	a.tree.Abort(c.Affected)
	a.construction = nil
	a.cursor = c.Anchor
	a.stats.WallsAborted++
	a.log.Add(a.tick, "wall", "abort", fmt.Sprintf("%s progress=%.2f", c.Kind, c.Progress()), c.Progress())
}

// clampToDisk pulls p back inside the disk of radius r around the origin.
func clampToDisk(p Point, r float64) Point {
	m := p.Magnitude()
	if m <= r || m == 0 {
		return p
	}
	return p.Times(r / m)
}

// turnDirection returns +1 when the drag from prev to end turns
// counter-clockwise around center, -1 otherwise.
func turnDirection(center, prev, end Point) float64 {
	a := prev.Minus(center)
	b := end.Minus(center)
	if a.X*b.Y-a.Y*b.X < 0 {
		return -1
	}
	return 1
}
