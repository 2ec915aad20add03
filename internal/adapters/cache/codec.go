// Package cache persists leaderboard snapshots to a binary file so the
// watcher survives restarts without re-deriving its baseline.
//
// Wire layout is fixed and little-endian, with no versioning or
// checksum: a layout change requires invalidating the cache file.
package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/okian/hdwatch/internal/domain/model"
)

// SnapshotSize is the fixed number of entries in a persisted snapshot.
// The count is a protocol constant shared by the encode and decode
// paths; it is not length-prefixed in the file.
const SnapshotSize = 1000

// maxNameBytes bounds the encoded display name, which carries a single
// length byte on the wire.
const maxNameBytes = 255

// readEntry decodes one entry in declaration order: rank(u16),
// name_len(u8) + raw bytes, user_id(u32), run_id(u32), score(f32).
func readEntry(r io.Reader) (model.Entry, error) {
	var e model.Entry
	if err := binary.Read(r, binary.LittleEndian, &e.Rank); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	var nameLen uint8
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	if !utf8.Valid(name) {
		return model.Entry{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	e.Name = string(name)
	if err := binary.Read(r, binary.LittleEndian, &e.UserID); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &e.RunID); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &e.Score); err != nil {
		return model.Entry{}, mapEOF(err)
	}
	return e, nil
}

// writeEntry encodes one entry in the same field order readEntry expects.
func writeEntry(w io.Writer, e model.Entry) error {
	name := []byte(e.Name)
	if len(name) > maxNameBytes {
		return fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, e.Name, len(name))
	}
	if err := binary.Write(w, binary.LittleEndian, e.Rank); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(name))); err != nil {
		return err
	}
	if _, err := w.Write(name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.UserID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.RunID); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, e.Score)
}

// DecodeSnapshot reads a snapshot in the fixed cache layout: timestamp
// seconds (u64 little-endian) followed by exactly SnapshotSize entries.
// A stream that runs out before the last entry is a fatal decode error,
// never a shorter snapshot.
func DecodeSnapshot(r io.Reader) (model.Snapshot, error) {
	var secs uint64
	if err := binary.Read(r, binary.LittleEndian, &secs); err != nil {
		return model.Snapshot{}, mapEOF(err)
	}
	entries := make([]model.Entry, 0, SnapshotSize)
	for i := 0; i < SnapshotSize; i++ {
		e, err := readEntry(r)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return model.Snapshot{
		Timestamp: time.Unix(int64(secs), 0),
		Entries:   entries,
	}, nil
}

// EncodeSnapshot writes the timestamp and the first SnapshotSize
// entries. Fewer entries than the protocol constant cannot be encoded.
func EncodeSnapshot(w io.Writer, s model.Snapshot) error {
	if len(s.Entries) < SnapshotSize {
		return fmt.Errorf("%w: have %d, need %d", ErrEntryCount, len(s.Entries), SnapshotSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(s.Timestamp.Unix())); err != nil {
		return err
	}
	for i := 0; i < SnapshotSize; i++ {
		if err := writeEntry(w, s.Entries[i]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// mapEOF folds the reader's end-of-stream errors into ErrTruncated so
// callers can classify decode failures with errors.Is.
func mapEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
