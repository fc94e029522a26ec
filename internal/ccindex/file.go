package ccindex

import (
	"github.com/dadada1995/ccls/internal/fileset"
	"github.com/dadada1995/ccls/internal/location"
)

// IndexedFile is the per-translation-unit snapshot: the three symbol
// tables, the three parallel entity vectors they index into, and the
// file registry every Location in this snapshot is resolved against
// (spec.md §3.3, §3.5). It is built by exactly one Driver over exactly
// one translation unit, then frozen for readers (§3.5 lifecycle).
//
// All inter-entity references are by dense id, never by pointer — this
// is what keeps the graph cycle-safe and trivially relocatable (spec.md
// §5, "Resource ownership").
type IndexedFile struct {
	Files *fileset.Registry

	typeUSR *symtab
	funcUSR *symtab
	varUSR  *symtab

	types []IndexedType
	funcs []IndexedFunc
	vars  []IndexedVar

	// Incomplete is set when a cooperative cancellation cut the
	// indexing pass short (spec.md §7, Cancelled). Downstream must not
	// persist an incomplete snapshot.
	Incomplete bool

	// Stats accumulates the debug counters spec.md §7 calls for:
	// CallbackDegenerate, LocationOverflow (via the embedded
	// location.Stats) and
	// DuplicateDefinition events observed while building this file.
	Stats Stats

	// Diagnostics holds the per-occurrence detail behind Stats'
	// aggregate counters (spec.md §7): one *CallbackDegenerateError or
	// *DuplicateDefinitionError per event counted in
	// Stats.SkippedEmptyUSR/Stats.DuplicateDefinitions. None of these
	// abort indexing; callers that only want the counts can ignore this
	// field entirely.
	Diagnostics []error
}

// Stats counts non-fatal events observed while building an IndexedFile.
// None of these abort indexing (spec.md §7's guiding principle).
type Stats struct {
	location.Stats
	SkippedEmptyUSR      uint64
	DuplicateDefinitions uint64
}

// NewIndexedFile constructs an empty snapshot, ready for one Driver to
// mutate during one indexing pass.
func NewIndexedFile() *IndexedFile {
	return &IndexedFile{
		Files:   fileset.NewRegistry(),
		typeUSR: newSymtab(),
		funcUSR: newSymtab(),
		varUSR:  newSymtab(),
	}
}

// ToTypeID interns usr, allocating a placeholder IndexedType (spec
// invariant 3: forward-reference tolerance) if this is the first time
// usr has been seen. usr may be empty for anonymous types; see
// ToFuncID/ToVarID for the Func/Var precondition that usr be non-empty.
func (f *IndexedFile) ToTypeID(usr string) TypeID {
	id, created := f.typeUSR.intern(usr)
	if created {
		f.types = append(f.types, IndexedType{Def: TypeDefinition{ID: TypeID(id), USR: usr}})
	}
	return TypeID(id)
}

// ToFuncID interns usr for a Function. usr must be non-empty; callers
// that might receive an empty USR (spec.md CallbackDegenerate) should
// check before calling this and route to Stats.SkippedEmptyUSR instead.
func (f *IndexedFile) ToFuncID(usr string) FuncID {
	id, created := f.funcUSR.intern(usr)
	if created {
		f.funcs = append(f.funcs, IndexedFunc{Def: FuncDefinition{ID: FuncID(id), USR: usr}})
	}
	return FuncID(id)
}

// ToVarID interns usr for a Variable. Same non-empty precondition as
// ToFuncID.
func (f *IndexedFile) ToVarID(usr string) VarID {
	id, created := f.varUSR.intern(usr)
	if created {
		f.vars = append(f.vars, IndexedVar{Def: VarDefinition{ID: VarID(id), USR: usr}})
	}
	return VarID(id)
}

// TypeByUSR, FuncByUSR and VarByUSR look up an already-interned id
// without allocating a placeholder on miss.
func (f *IndexedFile) TypeByUSR(usr string) (TypeID, bool) {
	id, ok := f.typeUSR.lookup(usr)
	return TypeID(id), ok
}

func (f *IndexedFile) FuncByUSR(usr string) (FuncID, bool) {
	id, ok := f.funcUSR.lookup(usr)
	return FuncID(id), ok
}

func (f *IndexedFile) VarByUSR(usr string) (VarID, bool) {
	id, ok := f.varUSR.lookup(usr)
	return VarID(id), ok
}

// Type, Func and Var resolve a dense id to its entity record in O(1).
// Callers must only pass ids this IndexedFile itself allocated.
func (f *IndexedFile) Type(id TypeID) *IndexedType { return &f.types[id] }
func (f *IndexedFile) Func(id FuncID) *IndexedFunc { return &f.funcs[id] }
func (f *IndexedFile) Var(id VarID) *IndexedVar    { return &f.vars[id] }

// Types, Funcs and Vars expose the dense entity vectors directly, in id
// order (spec invariant 2), for the snapshot accessor and for tests.
func (f *IndexedFile) Types() []IndexedType { return f.types }
func (f *IndexedFile) Funcs() []IndexedFunc { return f.funcs }
func (f *IndexedFile) Vars() []IndexedVar   { return f.vars }
