package arena

import (
	"fmt"
	"math"
	"math/rand"
)

// Sim is a headless arena harness used by tests and the headless report.
// It mirrors the game's Update loop at a fixed timestep, with deterministic
// seeding and an optional bot that draws walls on its own.
type Sim struct {
	Arena *Arena
	Log   *EventLog
	Dt    float64

	rng      *rand.Rand
	specs    []EnemySpec
	walls    int
	settings Settings
	verbose  bool
	bot      bool
	tick     int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, verbose, settings, walls: applied first
	simOptEnemy                      // add enemies: applied after the RNG exists
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only
	}}
}

// WithVerbose enables per-bounce logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.verbose = v
	}}
}

// WithSettings replaces the default tuning.
func WithSettings(st Settings) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.settings = st
	}}
}

// WithWalls sets the wall budget.
func WithWalls(n int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.walls = n
	}}
}

// WithTimestep sets the fixed tick length in seconds.
func WithTimestep(dt float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.Dt = dt
	}}
}

// WithBot lets the harness start a wall whenever none is growing.
func WithBot(on bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.bot = on
	}}
}

// WithEnemy adds an enemy at (x,y) moving at speed along angle.
func WithEnemy(x, y, speed, angle, radius float64) SimOption {
	return SimOption{simOptEnemy, func(s *Sim) {
		s.specs = append(s.specs, EnemySpec{Pos: Point{X: x, Y: y}, Speed: speed, Angle: angle, Radius: radius})
	}}
}

// WithEnemies adds pre-built enemy specs, e.g. from a level.
func WithEnemies(specs ...EnemySpec) SimOption {
	return SimOption{simOptEnemy, func(s *Sim) {
		s.specs = append(s.specs, specs...)
	}}
}

// WithRandomEnemies scatters n enemies of the given speed and radius.
func WithRandomEnemies(n int, speed, radius float64) SimOption {
	return SimOption{simOptEnemy, func(s *Sim) {
		for i := 0; i < n; i++ {
			r := (1 - 2*radius) * math.Sqrt(s.rng.Float64())
			a := s.rng.Float64() * 2 * math.Pi
			s.specs = append(s.specs, EnemySpec{
				Pos:    Point{X: r * math.Cos(a), Y: r * math.Sin(a)},
				Speed:  speed,
				Angle:  s.rng.Float64() * 2 * math.Pi,
				Radius: radius,
			})
		}
	}}
}

// NewSim constructs a Sim from the given options in two ordered passes:
//  1. Infrastructure (seed, verbose, settings, walls, timestep, bot)
//  2. Enemies
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		Dt:       1.0 / 60,
		walls:    10,
		settings: DefaultSettings(),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	for _, o := range opts {
		if o.kind == simOptEnemy {
			o.fn(s)
		}
	}
	s.Log = NewEventLog(s.verbose)
	s.Arena = New(s.specs, s.walls, s.settings, s.rng, s.Log)
	return s
}

// RunTicks advances the simulation n ticks.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.step()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

func (s *Sim) step() {
	if s.bot {
		s.botTurn()
	}
	s.tick++
	s.Arena.Tick(s.Dt)
}

// CurrentTick returns the current simulation tick.
func (s *Sim) CurrentTick() int {
	return s.tick
}

// botCandidates is how many random walls the bot scores before choosing.
const botCandidates = 12

// botTurn starts the safest of a handful of random walls when the arena is
// idle. Safety is the clearance between the wall and the nearest enemy in a
// region the wall would split.
func (s *Sim) botTurn() {
	a := s.Arena
	if a.Construction() != nil || a.Cleared() || a.WallsLeft() <= 0 {
		return
	}
	var best *Construction
	bestClear := -1.0
	for i := 0; i < botCandidates; i++ {
		c := s.randomConstruction()
		boundary := c.Boundary()
		clear := math.Inf(1)
		for _, e := range a.Enemies() {
			if d := distanceToBounded(e.Pos, boundary) - e.Radius; d < clear {
				clear = d
			}
		}
		if clear > bestClear {
			best, bestClear = c, clear
		}
	}
	if best != nil && a.StartWall(best) {
		s.Log.AddVerbose(s.tick, "wall", "bot", fmt.Sprintf("%s clearance=%.3f", best.Kind, bestClear), bestClear)
	}
}

func (s *Sim) randomConstruction() *Construction {
	if s.rng.Intn(2) == 0 {
		return NewLineConstruction(s.rng.Float64() * math.Pi * 2)
	}
	cr := 0.6 * math.Sqrt(s.rng.Float64())
	ca := s.rng.Float64() * 2 * math.Pi
	center := Point{X: cr * math.Cos(ca), Y: cr * math.Sin(ca)}
	r := 0.1 + 0.4*s.rng.Float64()
	aa := s.rng.Float64() * 2 * math.Pi
	anchor := Point{X: center.X + r*math.Cos(aa), Y: center.Y + r*math.Sin(aa)}
	dir := 1.0
	if s.rng.Intn(2) == 0 {
		dir = -1
	}
	return NewCircleConstruction(center, anchor, dir)
}
