// Adapted from vovakirdan-surge's internal/driver/dcache.go: a
// schema-versioned DiskPayload struct encoded with
// github.com/vmihailenco/msgpack/v5, written via a temp file plus
// atomic rename. snapshotPayload plays DiskPayload's role for an
// IndexedFile: a flat, versioned, msgpack-friendly projection of the
// snapshot's private fields, built by reading the entity vectors
// directly and torn down by re-interning each USR into fresh symbol
// tables (spec.md §5,
// "Resource ownership" — a snapshot is relocatable, so its encoding
// must not leak any pointer-shaped internal state).
package ccindex

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dadada1995/ccls/internal/fileset"
	"github.com/dadada1995/ccls/internal/location"
)

// snapshotSchemaVersion is bumped whenever snapshotPayload's shape
// changes in a way that breaks decoding of older payloads.
const snapshotSchemaVersion uint16 = 1

type snapshotPayload struct {
	Schema uint16

	Files      []string
	Incomplete bool
	Stats      Stats

	Types []TypeDefinition
	TypeDerived map[TypeID][]TypeID
	TypeUses    map[TypeID][]location.Location

	Funcs []funcPayload

	Vars []VarDefinition
	VarUses map[VarID][]location.Location
}

type funcPayload struct {
	Def          FuncDefinition
	Declarations []location.Location
	Derived      []FuncID
	Callers      []FuncRef
	Uses         []location.Location
}

// toPayload flattens f into its wire representation.
func (f *IndexedFile) toPayload() *snapshotPayload {
	p := &snapshotPayload{
		Schema:      snapshotSchemaVersion,
		Incomplete:  f.Incomplete,
		Stats:       f.Stats,
		TypeDerived: make(map[TypeID][]TypeID, len(f.types)),
		TypeUses:    make(map[TypeID][]location.Location, len(f.types)),
		VarUses:     make(map[VarID][]location.Location, len(f.vars)),
	}

	p.Files = make([]string, f.Files.Len())
	for id := 0; id < f.Files.Len(); id++ {
		path, _ := f.Files.PathOf(fileset.FileID(id))
		p.Files[id] = path
	}

	p.Types = make([]TypeDefinition, len(f.types))
	for i, t := range f.types {
		p.Types[i] = t.Def
		if len(t.Derived) > 0 {
			p.TypeDerived[t.Def.ID] = t.Derived
		}
		if len(t.Uses) > 0 {
			p.TypeUses[t.Def.ID] = t.Uses
		}
	}

	p.Funcs = make([]funcPayload, len(f.funcs))
	for i, fn := range f.funcs {
		p.Funcs[i] = funcPayload{
			Def:          fn.Def,
			Declarations: fn.Declarations,
			Derived:      fn.Derived,
			Callers:      fn.Callers,
			Uses:         fn.Uses,
		}
	}

	p.Vars = make([]VarDefinition, len(f.vars))
	for i, v := range f.vars {
		p.Vars[i] = v.Def
		if len(v.Uses) > 0 {
			p.VarUses[v.Def.ID] = v.Uses
		}
	}

	return p
}

// fromPayload rebuilds a full IndexedFile from its wire
// representation, re-deriving the USR symbol tables from each
// definition block's USR field.
func fromPayload(p *snapshotPayload) (*IndexedFile, error) {
	if p.Schema != snapshotSchemaVersion {
		return nil, errors.Errorf("unsupported snapshot schema %d (want %d)", p.Schema, snapshotSchemaVersion)
	}

	f := NewIndexedFile()
	for _, path := range p.Files {
		f.Files.Resolve(path)
	}
	f.Incomplete = p.Incomplete
	f.Stats = p.Stats

	f.types = make([]IndexedType, len(p.Types))
	for i, def := range p.Types {
		f.typeUSR.intern(def.USR)
		f.types[i] = IndexedType{
			Def:     def,
			Derived: p.TypeDerived[def.ID],
			Uses:    p.TypeUses[def.ID],
		}
	}

	f.funcs = make([]IndexedFunc, len(p.Funcs))
	for i, fp := range p.Funcs {
		f.funcUSR.intern(fp.Def.USR)
		f.funcs[i] = IndexedFunc{
			Def:          fp.Def,
			Declarations: fp.Declarations,
			Derived:      fp.Derived,
			Callers:      fp.Callers,
			Uses:         fp.Uses,
		}
	}

	f.vars = make([]IndexedVar, len(p.Vars))
	for i, def := range p.Vars {
		f.varUSR.intern(def.USR)
		f.vars[i] = IndexedVar{Def: def, Uses: p.VarUses[def.ID]}
	}

	return f, nil
}

// Encode writes f's relocatable snapshot to w in msgpack form.
func (f *IndexedFile) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(f.toPayload())
}

// Decode reads a snapshot previously written by Encode.
func Decode(r io.Reader) (*IndexedFile, error) {
	var p snapshotPayload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return fromPayload(&p)
}

// WriteSnapshotFile encodes f and writes it to path, through a
// sibling temp file plus atomic rename so a reader never observes a
// partially-written snapshot.
func WriteSnapshotFile(f *IndexedFile, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "snapshot-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := f.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "encode snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadSnapshotFile decodes a snapshot previously written by
// WriteSnapshotFile.
func ReadSnapshotFile(path string) (*IndexedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
