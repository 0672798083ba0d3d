package arena

import (
	"fmt"
	"strings"
)

// Report renders a plain-text snapshot of the session: score, counters,
// enemies, the tree and the last logTail events.
func (a *Arena) Report(logTail int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Arena report ---\n")
	fmt.Fprintf(&b, "tick=%d closed=%.4f target=%.2f cleared=%v walls_left=%d\n",
		a.tick, a.closed, a.settings.TargetFraction, a.cleared, a.wallsLeft)
	fmt.Fprintf(&b, "walls: started=%d committed=%d aborted=%d rejected=%d bounces=%d\n",
		a.stats.WallsStarted, a.stats.WallsCommitted, a.stats.WallsAborted, a.stats.WallsRejected, a.stats.Bounces)
	if c := a.construction; c != nil {
		fmt.Fprintf(&b, "growing: %s progress=%.2f affected=%v\n", c.Kind, c.Progress(), c.Affected)
	}
	fmt.Fprintf(&b, "open_leaves=%d nodes=%d leaf_area_sum=%.4f\n\n", len(a.tree.open), a.tree.Len(), a.tree.LeafAreaSum())

	b.WriteString("== Enemies ==\n")
	for _, e := range a.enemies {
		fmt.Fprintf(&b, "E%-2d type=%d pos=(%.3f,%.3f) heading=%.3f speed=%.2f r=%.3f leaf=%d\n",
			e.ID, e.Type, e.Pos.X, e.Pos.Y, e.Angle, e.Speed, e.Radius, e.Leaf)
	}

	b.WriteString("\n== Tree ==\n")
	b.WriteString(a.tree.String())

	if logTail > 0 {
		b.WriteString("\n== Events ==\n")
		for _, e := range a.log.Tail(logTail) {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
