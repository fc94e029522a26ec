package location

import "testing"

// TestPackUnpackRoundtrip is spec property P5: for every in-range
// (interesting, file_id, line, column), unpack(pack(...)) returns the
// same tuple.
func TestPackUnpackRoundtrip(t *testing.T) {
	cases := []struct {
		interesting        bool
		fileID, line, col int
	}{
		{false, 0, 0, 0},
		{true, 0, 0, 0},
		{true, 1, 2, 3},
		{false, int(MaxFileID), int(MaxLine), int(MaxColumn)},
		{true, 12345, 999, 80},
	}

	for _, c := range cases {
		loc := Pack(c.interesting, c.fileID, c.line, c.col, nil)
		gotInteresting, gotFile, gotLine, gotCol := Unpack(loc)
		if gotInteresting != c.interesting || int(gotFile) != c.fileID || int(gotLine) != c.line || int(gotCol) != c.col {
			t.Fatalf("roundtrip mismatch for %+v: got (%v,%d,%d,%d)", c, gotInteresting, gotFile, gotLine, gotCol)
		}
	}
}

func TestPackClampsOverflowAndCounts(t *testing.T) {
	var stats Stats
	loc := Pack(true, int(MaxFileID)+100, int(MaxLine)+1, int(MaxColumn)+5, &stats)

	if loc.FileID() != MaxFileID {
		t.Fatalf("file_id not clamped: got %d want %d", loc.FileID(), MaxFileID)
	}
	if loc.Line() != MaxLine {
		t.Fatalf("line not clamped: got %d want %d", loc.Line(), MaxLine)
	}
	if loc.Column() != MaxColumn {
		t.Fatalf("column not clamped: got %d want %d", loc.Column(), MaxColumn)
	}
	if stats.FileIDClamped != 1 || stats.LineClamped != 1 || stats.ColumnClamped != 1 {
		t.Fatalf("clamp stats not recorded: %+v", stats)
	}

	// Clamped locations remain comparable.
	other := Pack(false, int(MaxFileID)+999, int(MaxLine), int(MaxColumn), nil)
	if !EqIgnoringInteresting(loc, WithInteresting(other, true)) {
		t.Fatalf("clamped locations should compare equal when the same fields clamp to the same max")
	}
}

func TestEqIgnoringInteresting(t *testing.T) {
	a := Pack(true, 1, 2, 3, nil)
	b := Pack(false, 1, 2, 3, nil)
	if !EqIgnoringInteresting(a, b) {
		t.Fatalf("expected a and b to be equal ignoring interesting")
	}
	c := Pack(false, 1, 2, 4, nil)
	if EqIgnoringInteresting(a, c) {
		t.Fatalf("expected a and c to differ")
	}
}

func TestWithInteresting(t *testing.T) {
	a := Pack(false, 7, 8, 9, nil)
	b := WithInteresting(a, true)
	if a.Interesting() {
		t.Fatalf("Pack with interesting=false should not be interesting")
	}
	if !b.Interesting() {
		t.Fatalf("WithInteresting(true) should be interesting")
	}
	if !EqIgnoringInteresting(a, b) {
		t.Fatalf("WithInteresting must not change the other fields")
	}
}

func TestToText(t *testing.T) {
	if got, want := ToText(Pack(false, 1, 2, 3, nil)), "1:2:3"; got != want {
		t.Fatalf("ToText() = %q, want %q", got, want)
	}
	if got, want := ToText(Pack(true, 1, 2, 3, nil)), "*1:2:3"; got != want {
		t.Fatalf("ToText() = %q, want %q", got, want)
	}
}

func TestLessOrdersByFileLineColumn(t *testing.T) {
	a := Pack(false, 1, 5, 9, nil)
	b := Pack(true, 1, 5, 10, nil)
	c := Pack(false, 2, 1, 1, nil)
	if !Less(a, b) {
		t.Fatalf("expected a < b by column")
	}
	if !Less(b, c) {
		t.Fatalf("expected b < c by file id")
	}
	if Less(a, a) {
		t.Fatalf("Less must be irreflexive")
	}
}
