package fileset

import "testing"

func TestReservesEmptyPathAtZero(t *testing.T) {
	r := NewRegistry()
	if got := r.Resolve(""); got != 0 {
		t.Fatalf("Resolve(\"\") = %d, want 0", got)
	}
	path, ok := r.PathOf(0)
	if !ok || path != "" {
		t.Fatalf("PathOf(0) = %q, %v, want \"\", true", path, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestResolveIsInsertionOrLookup(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("/a.c")
	b := r.Resolve("/b.c")
	again := r.Resolve("/a.c")

	if a == b {
		t.Fatalf("distinct paths got the same id")
	}
	if a != again {
		t.Fatalf("Resolve not idempotent: %d != %d", a, again)
	}
	if a != 1 || b != 2 {
		t.Fatalf("ids not dense/monotonic: a=%d b=%d", a, b)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
}

func TestPathOfUnknownID(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.PathOf(99); ok {
		t.Fatalf("PathOf(99) should report not-found on an empty registry")
	}
}
