package config

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Config {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoad_EmbeddedData(t *testing.T) {
	c := mustLoad(t)
	if len(c.EnemyTypes) != 3 {
		t.Fatalf("expected 3 enemy types, got %d", len(c.EnemyTypes))
	}
	if c.InitialWalls != 10 || c.WallsPerLevel != 5 {
		t.Fatalf("expected walls 10/+5, got %d/+%d", c.InitialWalls, c.WallsPerLevel)
	}
	if len(c.Campaign) == 0 {
		t.Fatal("expected at least one campaign level")
	}
}

func TestParse_RejectsBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"enemy_types": [`))
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if !strings.Contains(err.Error(), "parse level data") {
		t.Fatalf("expected wrapped parse error, got: %v", err)
	}
}

func TestParse_RejectsUnknownEnemyType(t *testing.T) {
	data := `{
		"enemy_types": [{"name": "basic", "radius": 0.025, "speed": 0.3, "level": 1}],
		"campaign": [{"name": "x", "available_walls": 3, "enemies": [{"type": 4, "x": 0, "y": 0, "angle": 0}]}]
	}`
	if _, err := Parse([]byte(data)); err == nil {
		t.Fatal("expected error for unknown enemy type")
	}
}

func TestParse_RejectsUnknownGenerator(t *testing.T) {
	data := `{
		"enemy_types": [{"name": "basic", "radius": 0.025, "speed": 0.3, "level": 1}],
		"campaign": [{"name": "x", "available_walls": 3, "generator": "spiral"}]
	}`
	if _, err := Parse([]byte(data)); err == nil {
		t.Fatal("expected error for unknown generator")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeCampaign, ModeClassicArcade, ModeVarietyArcade} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("versus"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSettings_FromData(t *testing.T) {
	c := mustLoad(t)
	s := c.Settings()
	if s.CursorRadius != c.CursorRadius {
		t.Fatalf("cursor radius: want %.3f got %.3f", c.CursorRadius, s.CursorRadius)
	}
	if s.TargetFraction <= 0 || s.TargetFraction >= 1 {
		t.Fatalf("target fraction out of range: %.3f", s.TargetFraction)
	}
}

func TestCampaignLevel_OutOfRange(t *testing.T) {
	c := mustLoad(t)
	_, err := c.CampaignLevel(len(c.Campaign))
	if !errors.Is(err, ErrNoSuchLevel) {
		t.Fatalf("expected ErrNoSuchLevel, got %v", err)
	}
}

func TestCampaignLevel_EnemiesInsideDisk(t *testing.T) {
	c := mustLoad(t)
	for i := range c.Campaign {
		plan, err := c.CampaignLevel(i)
		if err != nil {
			t.Fatalf("level %d: %v", i, err)
		}
		if len(plan.Enemies) == 0 {
			t.Errorf("level %d (%s) has no enemies", i, plan.Name)
		}
		for j, e := range plan.Enemies {
			if e.Pos.Magnitude()+e.Radius > 1+1e-9 {
				t.Errorf("level %d enemy %d pokes out of the arena: |pos|=%.3f r=%.3f", i, j, e.Pos.Magnitude(), e.Radius)
			}
		}
	}
}

func TestCampaignLevel_EggLayout(t *testing.T) {
	c := mustLoad(t)
	idx := -1
	for i, l := range c.Campaign {
		if l.Generator == "egg" {
			idx = i
		}
	}
	if idx < 0 {
		t.Skip("no egg level in campaign data")
	}
	plan, err := c.CampaignLevel(idx)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Enemies) != 12 {
		t.Fatalf("egg should place 12 enemies, got %d", len(plan.Enemies))
	}
	// Second spiral heads back toward the centre.
	e := plan.Enemies[6]
	if math.Abs(e.Angle-(math.Pi/2+math.Pi)) > 1e-9 {
		t.Fatalf("expected inward heading 3π/2, got %.4f", e.Angle)
	}
}

func TestArcadeLevel_WorthAndWalls(t *testing.T) {
	c := mustLoad(t)
	rng := rand.New(rand.NewSource(7))

	first := c.ArcadeLevel(1, 0, false, rng)
	if first.Walls != c.InitialWalls {
		t.Fatalf("level 1 walls: want %d got %d", c.InitialWalls, first.Walls)
	}
	if len(first.Enemies) != 2 {
		t.Fatalf("classic level 1 should have 2 default enemies, got %d", len(first.Enemies))
	}

	third := c.ArcadeLevel(3, 4, true, rng)
	if third.Walls != 4+c.WallsPerLevel {
		t.Fatalf("level 3 walls: want %d got %d", 4+c.WallsPerLevel, third.Walls)
	}
	worth := 0
	for _, e := range third.Enemies {
		worth += c.EnemyTypes[e.Type].Level
	}
	if worth != 4 {
		t.Fatalf("level 3 enemy worth: want 4 got %d", worth)
	}
}
