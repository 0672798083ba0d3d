package main

import (
	"flag"
	"log"
	"time"

	"github.com/circularzero/circular-zero/internal/config"
	"github.com/circularzero/circular-zero/internal/game"
	"github.com/circularzero/circular-zero/internal/sound"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	modeName := flag.String("mode", "campaign", "campaign, classic-arcade or variety-arcade")
	seed := flag.Int64("seed", time.Now().UnixNano(), "RNG seed")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	mode, err := config.ParseMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var snd *sound.SoundManager
	if !*mute {
		snd = sound.NewSoundManager()
		if err := snd.Initialize(); err != nil {
			log.Printf("sound disabled: %v", err)
			snd = nil
		} else {
			defer snd.Cleanup()
		}
	}

	g, err := game.New(cfg, mode, *seed, snd)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Circular Zero")
	ebiten.SetWindowSize(g.Layout(0, 0))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
