package cache_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/hdwatch/internal/adapters/cache"
	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// makeSnapshot builds a snapshot with n distinct entries, including
// multi-byte names, so round trips exercise the length-prefixed text.
func makeSnapshot(n int) model.Snapshot {
	entries := make([]model.Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = model.Entry{
			Rank:   uint16(i + 1),
			Name:   fmt.Sprintf("player-%d-ü", i),
			UserID: uint32(i + 1),
			RunID:  uint32(1000 + i),
			Score:  500.0 - float32(i)*0.25,
		}
	}
	return model.Snapshot{
		Timestamp: time.Unix(1_700_000_000, 0),
		Entries:   entries,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	convey.Convey("Given a full snapshot", t, func() {
		snap := makeSnapshot(cache.SnapshotSize)

		convey.Convey("When encoded and decoded again", func() {
			var buf bytes.Buffer
			err := cache.EncodeSnapshot(&buf, snap)
			convey.So(err, convey.ShouldBeNil)

			got, err := cache.DecodeSnapshot(&buf)

			convey.Convey("Then every field survives", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Timestamp.Equal(snap.Timestamp), convey.ShouldBeTrue)
				convey.So(got.Entries, convey.ShouldResemble, snap.Entries)
			})
		})

		convey.Convey("When the snapshot carries extra entries", func() {
			long := snap
			long.Entries = append(append([]model.Entry{}, snap.Entries...), model.Entry{
				Rank: cache.SnapshotSize + 1, Name: "overflow", UserID: 999999, RunID: 1, Score: 1,
			})

			var buf bytes.Buffer
			err := cache.EncodeSnapshot(&buf, long)
			convey.So(err, convey.ShouldBeNil)

			got, err := cache.DecodeSnapshot(&buf)

			convey.Convey("Then only the first SnapshotSize entries are persisted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(got.Entries), convey.ShouldEqual, cache.SnapshotSize)
				convey.So(got.Entries, convey.ShouldResemble, snap.Entries)
			})
		})
	})
}

func TestEncodeSnapshotRejectsBadInput(t *testing.T) {
	convey.Convey("Given the snapshot encoder", t, func() {
		convey.Convey("When the snapshot has fewer entries than the protocol constant", func() {
			short := makeSnapshot(cache.SnapshotSize - 1)

			err := cache.EncodeSnapshot(&bytes.Buffer{}, short)

			convey.Convey("Then it refuses with ErrEntryCount", func() {
				convey.So(errors.Is(err, cache.ErrEntryCount), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an entry name exceeds the single length byte", func() {
			snap := makeSnapshot(cache.SnapshotSize)
			snap.Entries[3].Name = string(bytes.Repeat([]byte("x"), 256))

			err := cache.EncodeSnapshot(&bytes.Buffer{}, snap)

			convey.Convey("Then it refuses with ErrNameTooLong", func() {
				convey.So(errors.Is(err, cache.ErrNameTooLong), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDecodeSnapshotFailures(t *testing.T) {
	convey.Convey("Given an encoded snapshot", t, func() {
		snap := makeSnapshot(cache.SnapshotSize)
		var buf bytes.Buffer
		convey.So(cache.EncodeSnapshot(&buf, snap), convey.ShouldBeNil)
		raw := buf.Bytes()

		convey.Convey("When the stream is cut mid-entry", func() {
			_, err := cache.DecodeSnapshot(bytes.NewReader(raw[:len(raw)-5]))

			convey.Convey("Then decoding surfaces ErrTruncated instead of a short snapshot", func() {
				convey.So(errors.Is(err, cache.ErrTruncated), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the stream is cut inside the header", func() {
			_, err := cache.DecodeSnapshot(bytes.NewReader(raw[:4]))

			convey.Convey("Then decoding surfaces ErrTruncated", func() {
				convey.So(errors.Is(err, cache.ErrTruncated), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the stream is empty", func() {
			_, err := cache.DecodeSnapshot(bytes.NewReader(nil))

			convey.Convey("Then decoding surfaces ErrTruncated", func() {
				convey.So(errors.Is(err, cache.ErrTruncated), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a name holds invalid byte sequences", func() {
			// First entry starts after the u64 timestamp: rank(2) +
			// name_len(1) put the name bytes at offset 11.
			corrupt := append([]byte{}, raw...)
			corrupt[11] = 0xff
			corrupt[12] = 0xfe

			_, err := cache.DecodeSnapshot(bytes.NewReader(corrupt))

			convey.Convey("Then decoding fails fatally with ErrInvalidName", func() {
				convey.So(errors.Is(err, cache.ErrInvalidName), convey.ShouldBeTrue)
			})
		})
	})
}
