package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/circularzero/circular-zero/internal/arena"
	"github.com/circularzero/circular-zero/internal/config"
)

type runStats struct {
	runIndex int
	seed     int64
	level    string

	clearedTick    int
	outOfWallsTick int
	firstAbortTick int

	stats     arena.Stats
	closed    float64
	wallsLeft int
	enemies   int
	leaves    int

	report string
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var modeName string
	var level int
	var withReport bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&modeName, "mode", "campaign", "level source: campaign, classic-arcade or variety-arcade")
	flag.IntVar(&level, "level", 1, "1-based level number")
	flag.BoolVar(&withReport, "report", false, "print the full arena report of every run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if level <= 0 {
		fmt.Println("error: -level must be > 0")
		return
	}
	mode, err := config.ParseMode(modeName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("mode=%s level=%d runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", mode, level, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		plan, err := levelPlan(cfg, mode, level, seed)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		rs := runLevel(i+1, seed, ticks, cfg, plan)
		all = append(all, rs)
		printRun(rs)
		if withReport {
			fmt.Println(rs.report)
		}
	}

	printAggregate(all)
}

// levelPlan resolves the level a run plays. Arcade levels are drawn from the
// run's seed so a run is reproducible on its own.
func levelPlan(cfg *config.Config, mode config.Mode, level int, seed int64) (config.Plan, error) {
	if mode == config.ModeCampaign {
		return cfg.CampaignLevel(level - 1)
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- level layout only
	return cfg.ArcadeLevel(level, 0, mode == config.ModeVarietyArcade, rng), nil
}

func runLevel(runIndex int, seed int64, ticks int, cfg *config.Config, plan config.Plan) runStats {
	sim := arena.NewSim(
		arena.WithSeed(seed),
		arena.WithSettings(cfg.Settings()),
		arena.WithWalls(plan.Walls),
		arena.WithBot(true),
		arena.WithEnemies(plan.Enemies...),
	)
	sim.RunUntil(func(s *arena.Sim) bool {
		return s.Arena.Cleared() || s.Arena.OutOfWalls()
	}, ticks)

	a := sim.Arena
	entries := sim.Log.Entries()
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		level:          plan.Name,
		clearedTick:    firstTick(entries, "level", "cleared"),
		outOfWallsTick: firstTick(entries, "level", "out_of_walls"),
		firstAbortTick: firstTick(entries, "wall", "abort"),
		stats:          a.Stats(),
		closed:         a.ClosedFraction(),
		wallsLeft:      a.WallsLeft(),
		enemies:        len(a.Enemies()),
		leaves:         len(a.Tree().OpenLeaves()),
		report:         a.Report(30),
	}
}

func firstTick(entries []arena.EventEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// outcome names how a run ended.
func outcome(rs runStats) string {
	switch {
	case rs.clearedTick >= 0:
		return "cleared"
	case rs.outOfWallsTick >= 0:
		return "out_of_walls"
	default:
		return "timeout"
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) %s ---\n", rs.runIndex, rs.seed, rs.level)
	fmt.Printf("outcome=%s closed=%.3f walls_left=%d open_leaves=%d enemies=%d\n",
		outcome(rs), rs.closed, rs.wallsLeft, rs.leaves, rs.enemies)
	fmt.Printf("phase_markers: first_abort=%d cleared=%d out_of_walls=%d\n",
		rs.firstAbortTick, rs.clearedTick, rs.outOfWallsTick)
	fmt.Printf("wall_totals: started=%d committed=%d aborted=%d rejected=%d bounces=%d\n",
		rs.stats.WallsStarted, rs.stats.WallsCommitted, rs.stats.WallsAborted, rs.stats.WallsRejected, rs.stats.Bounces)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalStarted := 0
	totalCommitted := 0
	totalAborted := 0
	totalBounces := 0
	closedSum := 0.0
	outcomes := map[string]int{}
	clearTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalStarted += rs.stats.WallsStarted
		totalCommitted += rs.stats.WallsCommitted
		totalAborted += rs.stats.WallsAborted
		totalBounces += rs.stats.Bounces
		closedSum += rs.closed
		outcomes[outcome(rs)]++
		if rs.clearedTick >= 0 {
			clearTicks = append(clearTicks, rs.clearedTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes: %s\n", len(all), formatOutcomes(outcomes))
	fmt.Printf("avg_per_run: started=%.1f committed=%.1f aborted=%.1f bounces=%.1f\n",
		avg(totalStarted, len(all)), avg(totalCommitted, len(all)), avg(totalAborted, len(all)), avg(totalBounces, len(all)))
	fmt.Printf("avg_closed=%.3f commit_rate=%s avg_clear_tick=%s\n",
		closedSum/float64(max(len(all), 1)), rate(totalCommitted, totalStarted), avgTickString(clearTicks))
}

func formatOutcomes(counts map[string]int) string {
	parts := make([]string, 0, 3)
	for _, k := range []string{"cleared", "out_of_walls", "timeout"} {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func rate(num, den int) string {
	if den <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(num)/float64(den)*100)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
