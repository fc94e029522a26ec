package ccindex

import "github.com/dadada1995/ccls/internal/location"

// addUsage is the only sanctioned mutation path for a *uses slice
// (spec.md §4.4). It finds any existing entry equal to loc ignoring
// interesting; if found, it ORs in loc's interesting bit and returns.
// Otherwise, if insertIfAbsent, it appends loc; if not, loc is dropped.
//
// Returns the possibly-unchanged slice, since append may reallocate.
func addUsage(uses []location.Location, loc location.Location, insertIfAbsent bool) []location.Location {
	for i, u := range uses {
		if location.EqIgnoringInteresting(u, loc) {
			if loc.Interesting() && !u.Interesting() {
				uses[i] = location.WithInteresting(u, true)
			}
			return uses
		}
	}
	if insertIfAbsent {
		return append(uses, loc)
	}
	return uses
}

// appendLocationDedup appends loc to locs unless an element already
// satisfies eq_ignoring_interesting, matching the dedup rule used for
// usage insertion. Unlike addUsage, it does not OR interesting bits in
// place; used for append-only, not-quite-usage lists like
// Declarations where duplicate locations should still collapse.
func appendLocationDedup(locs []location.Location, loc location.Location) []location.Location {
	for _, l := range locs {
		if location.EqIgnoringInteresting(l, loc) {
			return locs
		}
	}
	return append(locs, loc)
}

// appendTypeIDDedup appends id to ids unless already present.
func appendTypeIDDedup(ids []TypeID, id TypeID) []TypeID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

// appendFuncIDDedup appends id to ids unless already present.
func appendFuncIDDedup(ids []FuncID, id FuncID) []FuncID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

// appendVarIDDedup appends id to ids unless already present.
func appendVarIDDedup(ids []VarID, id VarID) []VarID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

// appendFuncRefDedup appends ref to refs unless a ref with the same
// (id, loc) pair already exists. Callees/callers are deduped only by
// (id, loc), never by id alone (spec.md §4.5 "Edge cases and
// tie-breaks": two calls at the same line/column collapse, but
// textually distinct call sites do not).
func appendFuncRefDedup(refs []FuncRef, ref FuncRef) []FuncRef {
	for _, r := range refs {
		if r.ID == ref.ID && location.EqIgnoringInteresting(r.Loc, ref.Loc) {
			return refs
		}
	}
	return append(refs, ref)
}
