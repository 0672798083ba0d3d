package arena

import "testing"

func TestEventLog_FilterAndTail(t *testing.T) {
	el := NewEventLog(false)
	el.Add(1, "wall", "start", "line affected=1", 1)
	el.Add(2, "enemy", "contact", "enemy=0 hit wall", 0)
	el.Add(2, "wall", "abort", "line progress=0.20", 0.2)
	el.AddVerbose(3, "enemy", "bounce", "dropped", 0)

	if el.Len() != 3 {
		t.Fatalf("verbose entry recorded in quiet mode, len %d", el.Len())
	}
	if n := el.CountCategory("wall", ""); n != 2 {
		t.Fatalf("wall entries %d, want 2", n)
	}
	if got := el.Filter("", "contact"); len(got) != 1 || got[0].Tick != 2 {
		t.Fatalf("filter by key: %+v", got)
	}
	last, ok := el.LastOf("wall", "")
	if !ok || last.Key != "abort" || last.NumVal != 0.2 {
		t.Fatalf("last wall entry: %+v", last)
	}
	if tail := el.Tail(2); len(tail) != 2 || tail[0].Key != "contact" {
		t.Fatalf("tail: %+v", tail)
	}
	if tail := el.Tail(10); len(tail) != 3 {
		t.Fatalf("oversized tail returned %d entries", len(tail))
	}
}

func TestEventLog_Listener(t *testing.T) {
	el := NewEventLog(true)
	var seen []string
	el.SetListener(func(e EventEntry) { seen = append(seen, e.Category+"/"+e.Key) })
	el.Add(0, "wall", "commit", "", 0)
	el.AddVerbose(0, "enemy", "bounce", "", 0)
	if len(seen) != 2 || seen[0] != "wall/commit" || seen[1] != "enemy/bounce" {
		t.Fatalf("listener saw %v", seen)
	}
	if s := el.Entries()[0].String(); s != "[T=000] wall     commit          " {
		t.Fatalf("formatted entry %q", s)
	}
}
