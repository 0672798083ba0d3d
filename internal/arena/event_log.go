package arena

import (
	"fmt"
	"strings"
)

// EventEntry is one recorded arena event.
type EventEntry struct {
	Tick     int
	Category string  // wall, enemy, area, level
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] wall     commit          3 leaves
func (e EventEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-15s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events raised by the tree, the enemy engine
// and the arena tick. It is unbounded and machine-readable; shells show a
// tail of it.
type EventLog struct {
	entries []EventEntry
	verbose bool
	// listener, if set, sees every entry as it is added.
	listener func(EventEntry)
}

// NewEventLog creates an EventLog. If verbose is true, per-bounce entries
// are recorded too.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// SetListener registers fn to be called for every new entry.
func (el *EventLog) SetListener(fn func(EventEntry)) {
	el.listener = fn
}

// Add records a new entry.
func (el *EventLog) Add(tick int, category, key, value string, numVal float64) {
	e := EventEntry{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	el.entries = append(el.entries, e)
	if el.listener != nil {
		el.listener(e)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EventLog) AddVerbose(tick int, category, key, value string, numVal float64) {
	if !el.verbose {
		return
	}
	el.Add(tick, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []EventEntry {
	return el.entries
}

// Len returns the number of recorded entries.
func (el *EventLog) Len() int {
	return len(el.entries)
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []EventEntry {
	var out []EventEntry
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range el.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (EventEntry, bool) {
	for i := len(el.entries) - 1; i >= 0; i-- {
		e := el.entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return EventEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Tail returns at most n of the most recent entries, oldest first.
func (el *EventLog) Tail(n int) []EventEntry {
	if n >= len(el.entries) {
		return el.entries
	}
	return el.entries[len(el.entries)-n:]
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
