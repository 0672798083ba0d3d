package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/circularzero/circular-zero/internal/arena"
)

const sampleRate = beep.SampleRate(44100)

// Cue names one sound effect.
type Cue int

const (
	CueNone Cue = iota
	CueWallStart
	CueCommit
	CueAbort
	CueRejected
	CueCleared
	CueOutOfWalls
)

// CueFor maps an arena event to the effect it should trigger.
func CueFor(e arena.EventEntry) Cue {
	switch e.Category + "/" + e.Key {
	case "wall/start":
		return CueWallStart
	case "wall/commit":
		return CueCommit
	case "wall/abort":
		return CueAbort
	case "wall/rejected":
		return CueRejected
	case "level/cleared":
		return CueCleared
	case "level/out_of_walls":
		return CueOutOfWalls
	default:
		return CueNone
	}
}

// SoundManager plays the arena's sound effects. The speaker pulls from the
// mixer on its own goroutine, so every mixer change happens under mu.
type SoundManager struct {
	mu           sync.Mutex
	mixer        *beep.Mixer
	growStreamer *beep.Ctrl
	initialized  bool
}

// NewSoundManager creates a silent manager; call Initialize to open the
// audio device.
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.growStreamer = nil
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Handle plays the cue for an arena event. It is meant to be registered as
// the EventLog listener.
func (sm *SoundManager) Handle(e arena.EventEntry) {
	switch CueFor(e) {
	case CueWallStart:
		sm.startGrow()
	case CueCommit:
		sm.stopGrow()
		sm.play(beep.Take(sampleRate.N(180*time.Millisecond), NewChimeGenerator(sampleRate, 660, 990)))
	case CueAbort:
		sm.stopGrow()
		sm.play(beep.Take(sampleRate.N(250*time.Millisecond), NewCrackleGenerator(sampleRate, 1)))
	case CueRejected:
		sm.play(beep.Take(sampleRate.N(120*time.Millisecond), NewBuzzGenerator(sampleRate, 140)))
	case CueCleared:
		sm.play(beep.Take(sampleRate.N(600*time.Millisecond), NewChimeGenerator(sampleRate, 523.25, 1046.5)))
	case CueOutOfWalls:
		sm.play(beep.Take(sampleRate.N(400*time.Millisecond), NewBuzzGenerator(sampleRate, 90)))
	}
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// startGrow loops a rising hum while a wall is under construction.
func (sm *SoundManager) startGrow() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if sm.growStreamer != nil {
		return
	}
	ctrl := &beep.Ctrl{Streamer: NewHumGenerator(sampleRate)}
	sm.growStreamer = ctrl
	speaker.Lock()
	sm.mixer.Add(ctrl)
	speaker.Unlock()
}

func (sm *SoundManager) stopGrow() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.growStreamer != nil {
		// A nil streamer drains, so the mixer drops the hum on its next pull.
		speaker.Lock()
		sm.growStreamer.Streamer = nil
		speaker.Unlock()
		sm.growStreamer = nil
	}
}

// HumGenerator is a soft tone that wobbles between 110 and 165 Hz.
type HumGenerator struct {
	sr    beep.SampleRate
	pos   int
	phase float64
}

// NewHumGenerator creates a hum generator.
func NewHumGenerator(sr beep.SampleRate) *HumGenerator {
	return &HumGenerator{sr: sr}
}

func (g *HumGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := 137.5 + 27.5*math.Sin(2*math.Pi*0.5*t)
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		sample := 0.08 * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HumGenerator) Err() error {
	return nil
}

// ChimeGenerator plays two partials with an exponential decay.
type ChimeGenerator struct {
	sr        beep.SampleRate
	low, high float64
	pos       int
}

// NewChimeGenerator creates a chime of the two given frequencies.
func NewChimeGenerator(sr beep.SampleRate, low, high float64) *ChimeGenerator {
	return &ChimeGenerator{sr: sr, low: low, high: high}
}

func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 6)
		sample := env * (0.2*math.Sin(2*math.Pi*g.low*t) + 0.1*math.Sin(2*math.Pi*g.high*t))
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChimeGenerator) Err() error {
	return nil
}

// BuzzGenerator is a short harmonic-rich buzz.
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz at freq.
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.15*math.Sin(2*math.Pi*g.freq*2*t) +
			0.075*math.Sin(2*math.Pi*g.freq*3*t)
		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}

// CrackleGenerator is decaying noise over a low rumble, for a wall breaking.
type CrackleGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewCrackleGenerator creates a crackle generator. The seed makes the noise
// reproducible.
func NewCrackleGenerator(sr beep.SampleRate, seed int64) *CrackleGenerator {
	return &CrackleGenerator{sr: sr, seed: seed}
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 8)
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		rumble := 0.3 * math.Sin(2*math.Pi*80*t)
		sample := envelope * (0.25*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}
