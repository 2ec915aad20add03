package format_test

import (
	"strings"
	"testing"

	"github.com/okian/hdwatch/internal/domain/diff"
	"github.com/okian/hdwatch/internal/domain/format"
	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRenderFirstAppearance(t *testing.T) {
	convey.Convey("Given an event without a previous entry", t, func() {
		ev := diff.Event{
			Current: model.Entry{Rank: 37, Name: "newcomer", UserID: 5, RunID: 812, Score: 123.5},
		}

		text := format.Render(ev)

		convey.Convey("Then it announces the score, the rank, and the run link", func() {
			convey.So(text, convey.ShouldEqual,
				"newcomer just got a new high score! Score: 123.5\n"+
					"They are now rank #37\n"+
					"Watch in-game: hyperdemon://run/812\n")
		})
	})
}

func TestRenderImprovement(t *testing.T) {
	convey.Convey("Given an improvement event", t, func() {
		convey.Convey("When the participant took rank 1", func() {
			prev := model.Entry{Rank: 2, Name: "fennekal", UserID: 2, RunID: 2, Score: 399.0}
			ev := diff.Event{
				Previous: &prev,
				Current:  model.Entry{Rank: 1, Name: "fennekal", UserID: 2, RunID: 3, Score: 410.0},
			}

			text := format.Render(ev)

			convey.Convey("Then the world-record banner leads and the 400 banner is absent", func() {
				convey.So(strings.HasPrefix(text, "---  NEW WORLD RECORD  ---\n"), convey.ShouldBeTrue)
				convey.So(text, convey.ShouldNotContainSubstring, "NEW 400")
			})

			convey.Convey("Then the score delta and rank gain are rendered", func() {
				convey.So(text, convey.ShouldContainSubstring,
					"fennekal just got a new high score! Score: 410 (+11)\n")
				convey.So(text, convey.ShouldContainSubstring,
					"They are now rank #1, gaining 1 ranks.\n")
				convey.So(text, convey.ShouldContainSubstring,
					"Watch in-game: hyperdemon://run/3\n")
			})
		})

		convey.Convey("When the milestone is crossed from exactly the threshold", func() {
			prev := model.Entry{Rank: 4, Name: "possm", UserID: 1, RunID: 7, Score: 400.0}
			ev := diff.Event{
				Previous: &prev,
				Current:  model.Entry{Rank: 3, Name: "possm", UserID: 1, RunID: 8, Score: 402.5},
			}

			text := format.Render(ev)

			convey.Convey("Then the 400 banner is emitted", func() {
				convey.So(strings.HasPrefix(text, "---  NEW 400  ---\n"), convey.ShouldBeTrue)
				convey.So(text, convey.ShouldNotContainSubstring, "WORLD RECORD")
			})
		})

		convey.Convey("When the previous score was already past the milestone", func() {
			prev := model.Entry{Rank: 4, Name: "possm", UserID: 1, RunID: 7, Score: 401.0}
			ev := diff.Event{
				Previous: &prev,
				Current:  model.Entry{Rank: 3, Name: "possm", UserID: 1, RunID: 8, Score: 405.0},
			}

			text := format.Render(ev)

			convey.Convey("Then no banner is emitted", func() {
				convey.So(text, convey.ShouldNotContainSubstring, "---")
			})
		})

		convey.Convey("When the rank is unchanged", func() {
			prev := model.Entry{Rank: 5, Name: "steady", UserID: 9, RunID: 1, Score: 300.0}
			ev := diff.Event{
				Previous: &prev,
				Current:  model.Entry{Rank: 5, Name: "steady", UserID: 9, RunID: 2, Score: 301.0},
			}

			text := format.Render(ev)

			convey.Convey("Then a zero-rank gain is still rendered", func() {
				convey.So(text, convey.ShouldContainSubstring, "They are now rank #5, gaining 0 ranks.\n")
			})
		})

		convey.Convey("When the score rose but the rank got worse", func() {
			prev := model.Entry{Rank: 5, Name: "squeezed", UserID: 9, RunID: 1, Score: 300.0}
			ev := diff.Event{
				Previous: &prev,
				Current:  model.Entry{Rank: 8, Name: "squeezed", UserID: 9, RunID: 2, Score: 310.0},
			}

			text := format.Render(ev)

			convey.Convey("Then no gain figure is rendered", func() {
				convey.So(text, convey.ShouldContainSubstring, "They are now rank #8.\n")
				convey.So(text, convey.ShouldNotContainSubstring, "gaining")
			})
		})
	})
}

func TestRenderIsDeterministic(t *testing.T) {
	convey.Convey("Given any event", t, func() {
		prev := model.Entry{Rank: 3, Name: "x", UserID: 1, RunID: 1, Score: 100}
		ev := diff.Event{
			Previous: &prev,
			Current:  model.Entry{Rank: 2, Name: "x", UserID: 1, RunID: 2, Score: 110},
		}

		convey.Convey("Then rendering twice yields identical text", func() {
			convey.So(format.Render(ev), convey.ShouldEqual, format.Render(ev))
		})
	})
}
