// Package diff compares two leaderboard snapshots and reports personal
// bests.
package diff

import "github.com/okian/hdwatch/internal/domain/model"

// Event is a detected improvement for one participant between two
// snapshots. Previous is nil on a first-ever appearance. Entries are
// copied out of their snapshots; Entry is small enough that cloning
// costs nothing.
type Event struct {
	Previous *model.Entry
	Current  model.Entry
}

// Diff returns one event per participant whose best attempt changed
// between baseline and current, in current rank order.
//
// A matching run id means the same achievement observed twice and is
// never reported, even when the score or rank shifted because the site
// re-ranked ties. Participants present only in baseline produce no
// event; dropping off the board is not a reportable condition.
func Diff(baseline, current model.Snapshot) []Event {
	prev := make(map[uint32]model.Entry, len(baseline.Entries))
	for _, e := range baseline.Entries {
		prev[e.UserID] = e
	}

	var events []Event
	for _, cur := range current.Entries {
		old, ok := prev[cur.UserID]
		if !ok {
			events = append(events, Event{Current: cur})
			continue
		}
		delete(prev, cur.UserID)
		if old.RunID == cur.RunID {
			continue
		}
		events = append(events, Event{Previous: &old, Current: cur})
	}
	return events
}
