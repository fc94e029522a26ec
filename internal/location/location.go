// Package location implements the packed 64-bit source location used
// throughout the indexer: a (interesting, file_id, line, column) tuple
// bit-packed into a single value so entities can carry many locations
// cheaply and a whole IndexedFile stays trivially relocatable.
package location

import (
	"fmt"

	"fortio.org/safecast"
)

// Bit layout, least significant bit first. Mirrors the original
// BEGIN_BITFIELD_TYPE(Location, uint64_t) layout: interesting(1),
// file_id(29), line(20), column(14).
const (
	interestingBits = 1
	fileIDBits      = 29
	lineBits        = 20
	columnBits      = 14

	interestingShift = 0
	fileIDShift      = interestingShift + interestingBits
	lineShift        = fileIDShift + fileIDBits
	columnShift      = lineShift + lineBits

	// MaxFileID, MaxLine, MaxColumn are the largest values each field can
	// hold. Overflowing values are clamped to these, never wrapped.
	MaxFileID uint32 = (1 << fileIDBits) - 1
	MaxLine   uint32 = (1 << lineBits) - 1
	MaxColumn uint32 = (1 << columnBits) - 1

	interestingMask uint64 = (1 << interestingBits) - 1
	fileIDMask      uint64 = (1 << fileIDBits) - 1
	lineMask        uint64 = (1 << lineBits) - 1
	columnMask      uint64 = (1 << columnBits) - 1
)

// Location is a packed (interesting, file_id, line, column) value.
// The zero Location is file_id=0, line=0, column=0, interesting=false —
// "no location information available".
type Location uint64

// Stats counts clamp events so overflow is observable without aborting
// indexing. Debug statistic only; never consulted for correctness.
type Stats struct {
	FileIDClamped uint64
	LineClamped   uint64
	ColumnClamped uint64
}

// Pack builds a Location from its four logical fields, clamping any
// field that overflows its bit width to the maximum representable
// value and recording the clamp in stats (stats may be nil).
func Pack(interesting bool, fileID, line, column int, stats *Stats) Location {
	fid, fidClamped := clampInt(fileID, MaxFileID)
	ln, lnClamped := clampInt(line, MaxLine)
	col, colClamped := clampInt(column, MaxColumn)

	if stats != nil {
		if fidClamped {
			stats.FileIDClamped++
		}
		if lnClamped {
			stats.LineClamped++
		}
		if colClamped {
			stats.ColumnClamped++
		}
	}

	var v uint64
	if interesting {
		v |= interestingMask
	}
	v |= uint64(fid) << fileIDShift
	v |= uint64(ln) << lineShift
	v |= uint64(col) << columnShift
	return Location(v)
}

// safeUint32 converts a (possibly negative, possibly oversized) int to
// uint32 using a checked narrowing cast; out-of-range values saturate to
// 0 or MaxUint32 rather than wrapping, matching the clamp-don't-wrap
// policy used for each bitfield.
func safeUint32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		if v < 0 {
			return 0
		}
		return ^uint32(0)
	}
	return n
}

// clampInt narrows v to uint32 and clamps it to max, reporting whether
// clamping actually changed the value.
func clampInt(v int, max uint32) (uint32, bool) {
	n := safeUint32(v)
	if n > max {
		return max, true
	}
	return n, false
}

// Unpack decomposes a Location into its four logical fields.
func Unpack(loc Location) (interesting bool, fileID, line, column uint32) {
	v := uint64(loc)
	interesting = v&interestingMask != 0
	fileID = uint32((v >> fileIDShift) & fileIDMask)
	line = uint32((v >> lineShift) & lineMask)
	column = uint32((v >> columnShift) & columnMask)
	return
}

// Interesting reports whether loc is a semantically meaningful use.
func (loc Location) Interesting() bool {
	return uint64(loc)&interestingMask != 0
}

// FileID returns the packed file identifier.
func (loc Location) FileID() uint32 {
	return uint32((uint64(loc) >> fileIDShift) & fileIDMask)
}

// Line returns the packed 1-based line number, or 0 if unknown.
func (loc Location) Line() uint32 {
	return uint32((uint64(loc) >> lineShift) & lineMask)
}

// Column returns the packed 1-based column number, or 0 if unknown.
func (loc Location) Column() uint32 {
	return uint32((uint64(loc) >> columnShift) & columnMask)
}

// EqIgnoringInteresting reports whether a and b agree on every field
// except interesting. This is the equality used for usage dedup (spec
// invariant 7) and is intentionally not Go's ==.
func EqIgnoringInteresting(a, b Location) bool {
	return (uint64(a) &^ interestingMask) == (uint64(b) &^ interestingMask)
}

// WithInteresting returns a copy of loc with interesting set to v.
func WithInteresting(loc Location, v bool) Location {
	raw := uint64(loc) &^ interestingMask
	if v {
		raw |= interestingMask
	}
	return Location(raw)
}

// Less orders locations by (file_id, line, column), ignoring
// interesting. Used to produce the deterministic key order required by
// IndexedFile.ToText().
func Less(a, b Location) bool {
	if a.FileID() != b.FileID() {
		return a.FileID() < b.FileID()
	}
	if a.Line() != b.Line() {
		return a.Line() < b.Line()
	}
	return a.Column() < b.Column()
}

// ToText renders the canonical textual form: "[*]<file_id>:<line>:<column>",
// where '*' is present iff interesting is set.
func ToText(loc Location) string {
	if loc.Interesting() {
		return fmt.Sprintf("*%d:%d:%d", loc.FileID(), loc.Line(), loc.Column())
	}
	return fmt.Sprintf("%d:%d:%d", loc.FileID(), loc.Line(), loc.Column())
}
