package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/circularzero/circular-zero/internal/arena"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 14
)

// MessageEntry is a single line in the message log.
type MessageEntry struct {
	Tick     int
	Category string
	Message  string
}

// MessageLog is a ring buffer of arena events rendered on-screen.
type MessageLog struct {
	entries []MessageEntry
	head    int
	count   int
}

// NewMessageLog creates a message log with a fixed capacity.
func NewMessageLog() *MessageLog {
	return &MessageLog{
		entries: make([]MessageEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (ml *MessageLog) Add(tick int, category, msg string) {
	ml.entries[ml.head] = MessageEntry{
		Tick:     tick,
		Category: category,
		Message:  msg,
	}
	ml.head = (ml.head + 1) % logMaxEntries
	if ml.count < logMaxEntries {
		ml.count++
	}
}

// AddEvent records an arena event. Per-bounce noise is skipped.
func (ml *MessageLog) AddEvent(e arena.EventEntry) {
	if e.Category == "enemy" && e.Key == "bounce" {
		return
	}
	msg := e.Key
	if e.Value != "" {
		msg += ": " + e.Value
	}
	ml.Add(e.Tick, e.Category, msg)
}

// Recent returns entries in chronological order (oldest first).
func (ml *MessageLog) Recent() []MessageEntry {
	result := make([]MessageEntry, ml.count)
	for i := 0; i < ml.count; i++ {
		idx := (ml.head - ml.count + i + logMaxEntries) % logMaxEntries
		result[i] = ml.entries[idx]
	}
	return result
}

// categoryColor is the marker colour of a log category.
func categoryColor(category string) color.RGBA {
	switch category {
	case "wall":
		return color.RGBA{R: 116, G: 221, B: 242, A: 255}
	case "enemy":
		return color.RGBA{R: 230, G: 90, B: 80, A: 255}
	case "level":
		return color.RGBA{R: 240, G: 210, B: 90, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// Draw renders the log panel at panelX, newest entry at the bottom.
func (ml *MessageLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 8, G: 10, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 18, G: 22, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)

	entries := ml.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 24, G: 30, B: 46, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d %s", e.Tick, e.Message), panelX+12, y-1)
		y += logLineHeight
	}
}
