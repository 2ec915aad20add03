// Package format renders personal-best events as notification text.
package format

import (
	"fmt"
	"strings"

	"github.com/okian/hdwatch/internal/domain/diff"
)

// MilestoneScore is the threshold that earns the NEW 400 banner when
// crossed from below.
const MilestoneScore float32 = 400.0

// Fixed banner and footer templates; no localization.
const (
	worldRecordBanner = "---  NEW WORLD RECORD  ---"
	milestoneBanner   = "---  NEW 400  ---"
	footerTemplate    = "Watch in-game: hyperdemon://run/%d\n"
)

// Render turns one event into display text. It is pure and
// deterministic given the event.
//
// At most one banner is emitted: a rank-1 world record wins over the
// 400 milestone when both hold.
func Render(ev diff.Event) string {
	var b strings.Builder
	cur := ev.Current

	if prev := ev.Previous; prev != nil {
		switch {
		case cur.Rank == 1:
			fmt.Fprintln(&b, worldRecordBanner)
		case cur.Score > MilestoneScore && prev.Score <= MilestoneScore:
			fmt.Fprintln(&b, milestoneBanner)
		}

		fmt.Fprintf(&b, "%s just got a new high score! Score: %v (+%v)\n",
			cur.Name, cur.Score, cur.Score-prev.Score)

		if prev.Rank >= cur.Rank {
			fmt.Fprintf(&b, "They are now rank #%d, gaining %d ranks.\n",
				cur.Rank, prev.Rank-cur.Rank)
		} else {
			// Score rose but rank fell; a negative gain reads wrong.
			fmt.Fprintf(&b, "They are now rank #%d.\n", cur.Rank)
		}
	} else {
		fmt.Fprintf(&b, "%s just got a new high score! Score: %v\n", cur.Name, cur.Score)
		fmt.Fprintf(&b, "They are now rank #%d\n", cur.Rank)
	}

	fmt.Fprintf(&b, footerTemplate, cur.RunID)
	return b.String()
}
