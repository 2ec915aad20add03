// Package model contains domain models passed between layers.
package model

import "time"

// Entry is one participant's ranked record at capture time.
type Entry struct {
	Rank   uint16  // 1-based position at capture time; shifts between captures
	Name   string  // display name, at most 255 bytes when encoded
	UserID uint32  // stable participant identity; the join key across snapshots
	RunID  uint32  // the specific scored attempt behind this entry
	Score  float32 // higher is better
}

// SameUser reports whether two entries belong to the same participant.
func (e Entry) SameUser(other Entry) bool {
	return e.UserID == other.UserID
}

// Snapshot is one full capture of the leaderboard at an instant.
// Entries keep the source's reported rank order (ascending) and hold at
// most one entry per UserID. A Snapshot is never mutated after
// construction; it is superseded wholesale by the next accepted capture.
type Snapshot struct {
	Timestamp time.Time // capture instant, seconds resolution
	Entries   []Entry
}

// Notification is a rendered personal-best message bound for the
// outbound sink. UserID and RunID identify the achievement so delivery
// failures can be traced back to it.
type Notification struct {
	UserID uint32
	RunID  uint32
	Text   string
}
