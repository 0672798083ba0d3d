package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/circularzero/circular-zero/internal/config"
	"github.com/circularzero/circular-zero/internal/tui"
)

func main() {
	modeName := flag.String("mode", "campaign", "campaign, classic-arcade or variety-arcade")
	level := flag.Int("level", 1, "1-based starting level")
	seed := flag.Int64("seed", time.Now().UnixNano(), "RNG seed")
	flag.Parse()

	mode, err := config.ParseMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}
	if *level <= 0 {
		log.Fatal("-level must be > 0")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	app, err := tui.New(screen, cfg, mode, *level-1, *seed)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	app.Run()
	screen.Fini()

	a := app.Arena()
	fmt.Printf("closed %.1f%%, walls left %d\n", a.ClosedFraction()*100, a.WallsLeft())
}
