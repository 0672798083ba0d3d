package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/circularzero/circular-zero/internal/arena"
)

//go:embed levels.json
var levelsJSON []byte

// Mode selects how levels are produced.
type Mode int

const (
	ModeCampaign      Mode = iota // designed levels
	ModeClassicArcade             // random levels, one enemy type
	ModeVarietyArcade             // random levels, all enemy types
)

func (m Mode) String() string {
	switch m {
	case ModeCampaign:
		return "campaign"
	case ModeClassicArcade:
		return "classic-arcade"
	case ModeVarietyArcade:
		return "variety-arcade"
	default:
		return "unknown"
	}
}

// ParseMode maps a command-line name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeCampaign, ModeClassicArcade, ModeVarietyArcade} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (supported: campaign, classic-arcade, variety-arcade)", s)
}

// Config holds the static game data. It is read once at start-up and never
// mutated.
type Config struct {
	CursorRadius   float64     `json:"cursor_radius"`
	CursorSpeed    float64     `json:"cursor_speed"`
	TargetFraction float64     `json:"target_fraction"`
	SamplesPerTick int         `json:"samples_per_tick"`
	InitialWalls   int         `json:"initial_walls"`
	WallsPerLevel  int         `json:"walls_per_level"`
	EnemyTypes     []EnemyType `json:"enemy_types"`
	Campaign       []Level     `json:"campaign"`
}

// EnemyType is one kind of enemy. Level says how many default enemies it is
// worth when arcade levels are filled up.
type EnemyType struct {
	Name   string  `json:"name"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	Level  int     `json:"level"`
}

// Placement puts one enemy of a type at a position and heading.
type Placement struct {
	Type  int     `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Level is one designed campaign level. Generator names a built-in layout
// used instead of Enemies.
type Level struct {
	Name           string      `json:"name"`
	Enemies        []Placement `json:"enemies"`
	Generator      string      `json:"generator,omitempty"`
	AvailableWalls int         `json:"available_walls"`
}

// Plan is everything an arena needs to start a level.
type Plan struct {
	Name    string
	Enemies []arena.EnemySpec
	Walls   int
}

var ErrNoSuchLevel = errors.New("no such level")

// Load parses the embedded level data.
func Load() (*Config, error) {
	return Parse(levelsJSON)
}

// Parse decodes and validates level data.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse level data: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if len(c.EnemyTypes) == 0 {
		return errors.New("level data: at least one enemy type is required")
	}
	for i, t := range c.EnemyTypes {
		if t.Radius <= 0 || t.Radius >= 0.5 {
			return fmt.Errorf("level data: enemy type %d radius %.3f out of range", i, t.Radius)
		}
		if t.Level <= 0 {
			return fmt.Errorf("level data: enemy type %d level must be positive", i)
		}
	}
	for i, l := range c.Campaign {
		for j, p := range l.Enemies {
			if p.Type < 0 || p.Type >= len(c.EnemyTypes) {
				return fmt.Errorf("level data: campaign level %d enemy %d has unknown type %d", i, j, p.Type)
			}
		}
		if l.Generator != "" && l.Generator != "egg" {
			return fmt.Errorf("level data: campaign level %d has unknown generator %q", i, l.Generator)
		}
	}
	return nil
}

// Settings derives arena tuning from the level data.
func (c *Config) Settings() arena.Settings {
	s := arena.DefaultSettings()
	if c.CursorRadius > 0 {
		s.CursorRadius = c.CursorRadius
	}
	if c.CursorSpeed > 0 {
		s.CursorSpeed = c.CursorSpeed
	}
	if c.TargetFraction > 0 {
		s.TargetFraction = c.TargetFraction
	}
	if c.SamplesPerTick > 0 {
		s.SamplesPerTick = c.SamplesPerTick
	}
	return s
}

// CampaignLevel returns the plan of campaign level n (0-based).
func (c *Config) CampaignLevel(n int) (Plan, error) {
	if n < 0 || n >= len(c.Campaign) {
		return Plan{}, fmt.Errorf("campaign level %d: %w", n, ErrNoSuchLevel)
	}
	l := c.Campaign[n]
	placements := l.Enemies
	if l.Generator == "egg" {
		placements = c.egg()
	}
	plan := Plan{Name: l.Name, Walls: l.AvailableWalls}
	for _, p := range placements {
		plan.Enemies = append(plan.Enemies, c.spec(p))
	}
	return plan, nil
}

// ArcadeLevel generates arcade level n (1-based). carry is the number of
// walls left over from the previous level. Enemies are added until their
// total worth reaches n+1; classic mode only uses the default type.
func (c *Config) ArcadeLevel(n, carry int, variety bool, rng *rand.Rand) Plan {
	walls := c.InitialWalls
	if n > 1 {
		walls = carry + c.WallsPerLevel
	}
	plan := Plan{Name: fmt.Sprintf("Arcade %d", n), Walls: walls}
	for worth := n + 1; worth > 0; {
		t := 0
		if variety {
			t = rng.Intn(len(c.EnemyTypes))
			if c.EnemyTypes[t].Level > worth {
				t = 0
			}
		}
		et := c.EnemyTypes[t]
		r := (1 - 2*et.Radius) * math.Sqrt(rng.Float64())
		a := rng.Float64() * 2 * math.Pi
		plan.Enemies = append(plan.Enemies, c.spec(Placement{
			Type:  t,
			X:     r * math.Cos(a),
			Y:     r * math.Sin(a),
			Angle: rng.Float64() * 2 * math.Pi,
		}))
		worth -= et.Level
	}
	return plan
}

// egg lays out two spirals of six default enemies each.
func (c *Config) egg() []Placement {
	r0 := c.EnemyTypes[0].Radius
	var out []Placement
	for i := 0; i < 6; i++ {
		r := (1 - r0) / 6 * float64(i)
		phi := float64(i) * math.Pi / 12
		out = append(out, Placement{X: r * math.Cos(phi), Y: r * math.Sin(phi), Angle: phi})
	}
	for i := 0; i < 6; i++ {
		r := (1 - r0) / 6 * float64(6-i)
		phi := math.Pi/2 + float64(i)*math.Pi/12
		out = append(out, Placement{X: r * math.Cos(phi), Y: r * math.Sin(phi), Angle: phi + math.Pi})
	}
	return out
}

func (c *Config) spec(p Placement) arena.EnemySpec {
	t := c.EnemyTypes[p.Type]
	return arena.EnemySpec{
		Type:   p.Type,
		Pos:    arena.Point{X: p.X, Y: p.Y},
		Speed:  t.Speed,
		Angle:  p.Angle,
		Radius: t.Radius,
	}
}
