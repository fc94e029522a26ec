// Adapted from the teacher's internal/index/indexer.go. The teacher's
// indexer struct holds several SemanticDB correlation maps (files, defs,
// refs) and walks them in separate passes (indexDbDocs, indexDbDefs,
// indexDbUses) to turn occurrences into an LSIF graph. Driver keeps that
// "one struct, a handler per entity kind" shape but collapses it to the
// single streaming pass spec.md §4.5 actually specifies: every
// EnterDecl/Reference event is handled to completion before the next
// one arrives (spec.md §5).
package ccindex

import (
	"context"

	"github.com/dadada1995/ccls/internal/frontend"
	"github.com/dadada1995/ccls/internal/location"
)

// implicitInitUSR prefixes the synthesized USR for a translation unit's
// implicit "module init" function, the chosen resolution of spec.md's
// first open question: global-initializer calls are attributed here
// rather than dropped. See SPEC_FULL.md §9.
const implicitInitUSR = "$implicit-init$"

// Driver is a state machine over one translation unit's event stream,
// mutating exactly one IndexedFile (spec.md §4.5). It is not safe for
// concurrent use; spec.md §5 requires one Driver/IndexedFile pair per
// goroutine.
type Driver struct {
	file *IndexedFile
	ctx  context.Context
}

// NewDriver creates a Driver that will mutate file. ctx is polled
// between events for cooperative cancellation (spec.md §5, §7
// Cancelled); a nil ctx behaves like context.Background().
func NewDriver(ctx context.Context, file *IndexedFile) *Driver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Driver{file: file, ctx: ctx}
}

// File returns the IndexedFile this driver mutates.
func (d *Driver) File() *IndexedFile { return d.file }

// cancelled reports whether the driver's context has been cancelled,
// checked only at event boundaries, never mid-mutation.
func (d *Driver) cancelled() bool {
	select {
	case <-d.ctx.Done():
		return true
	default:
		return false
	}
}

// locOf resolves a (path, line, column) triple against this file's
// local file registry and packs it, clamping overflow per spec.md
// §4.1 and counting the clamp in Stats.
func (d *Driver) locOf(path string, line, column int, interesting bool) location.Location {
	fileID := d.file.Files.Resolve(normalizePath(path))
	return location.Pack(interesting, int(fileID), line, column, &d.file.Stats.Stats)
}

func (d *Driver) locOfCursor(c frontend.Cursor, interesting bool) location.Location {
	path, line, col := c.Location()
	return d.locOf(path, line, col, interesting)
}

// internType interns c as a Type, or reports ok=false if c is nil or
// its USR is empty (spec.md §4.5: anonymous entities with no USR are
// dropped outright rather than interned).
func (d *Driver) internType(c frontend.Cursor) (TypeID, bool) {
	if c == nil || c.USR() == "" {
		return 0, false
	}
	return d.file.ToTypeID(c.USR()), true
}

// internFunc interns c as a Function, counting an empty USR as a
// CallbackDegenerate event rather than silently dropping it — Func
// USRs are expected to be non-empty (spec.md §3.2).
func (d *Driver) internFunc(c frontend.Cursor) (FuncID, bool) {
	if c == nil {
		return 0, false
	}
	if c.USR() == "" {
		d.file.Stats.SkippedEmptyUSR++
		d.file.Diagnostics = append(d.file.Diagnostics, &CallbackDegenerateError{Reason: "empty USR on func cursor"})
		return 0, false
	}
	return d.file.ToFuncID(c.USR()), true
}

// internVar interns c as a Variable, with the same non-empty-USR
// bookkeeping as internFunc.
func (d *Driver) internVar(c frontend.Cursor) (VarID, bool) {
	if c == nil {
		return 0, false
	}
	if c.USR() == "" {
		d.file.Stats.SkippedEmptyUSR++
		d.file.Diagnostics = append(d.file.Diagnostics, &CallbackDegenerateError{Reason: "empty USR on var cursor"})
		return 0, false
	}
	return d.file.ToVarID(c.USR()), true
}

// declKindName renders a DeclKind for CallbackDegenerateError's Reason
// text.
func declKindName(k frontend.DeclKind) string {
	switch k {
	case frontend.DeclType:
		return "type"
	case frontend.DeclFunc:
		return "func"
	case frontend.DeclVar:
		return "var"
	default:
		return "unknown"
	}
}

// implicitInitFunc returns the id of the synthesized "module init"
// function that absorbs calls made from global initializers with no
// enclosing function.
func (d *Driver) implicitInitFunc(filePath string) FuncID {
	usr := implicitInitUSR + ":" + filePath
	id := d.file.ToFuncID(usr)
	fn := d.file.Func(id)
	if fn.Def.ShortName == "" {
		fn.Def.ShortName = "<global init>"
		fn.Def.QualifiedName = "<global init>"
	}
	return id
}

// setLocationOnce fills an unset OptionalLocation and leaves an
// already-set one untouched, reporting whether this call found a
// pre-existing, materially different location (spec invariant 4:
// definition_loc is set at most once; a later definition at a
// distinct location is a warning, not a crash).
func setLocationOnce(opt *OptionalLocation, loc location.Location) (duplicate bool) {
	if existing, ok := opt.Get(); ok {
		return !location.EqIgnoringInteresting(existing, loc)
	}
	*opt = SomeLocation(loc)
	return false
}

// EnterDecl implements frontend.EventSink (spec.md §4.5).
func (d *Driver) EnterDecl(decl frontend.Decl) {
	if d.cancelled() {
		d.file.Incomplete = true
		return
	}
	if decl.Cursor == nil || decl.Cursor.USR() == "" {
		// A Type with an empty USR is a legal anonymous type and is
		// simply dropped; the same for Func/Var is CallbackDegenerate.
		if decl.Kind != frontend.DeclType {
			d.file.Stats.SkippedEmptyUSR++
			d.file.Diagnostics = append(d.file.Diagnostics, &CallbackDegenerateError{
				Reason: "empty USR on " + declKindName(decl.Kind) + " decl",
			})
		}
		return
	}

	switch decl.Kind {
	case frontend.DeclType:
		d.enterTypeDecl(decl)
	case frontend.DeclFunc:
		d.enterFuncDecl(decl)
	case frontend.DeclVar:
		d.enterVarDecl(decl)
	}
}

func (d *Driver) enterTypeDecl(decl frontend.Decl) {
	id, ok := d.internType(decl.Cursor)
	if !ok {
		return
	}
	t := d.file.Type(id)

	if short, qualified := decl.Cursor.Names(); short != "" || qualified != "" {
		t.Def.ShortName = short
		t.Def.QualifiedName = qualified
	}
	if decl.Cursor.IsFromSystemHeader() {
		t.IsSystemDef = true
	}

	if decl.IsDefinition {
		loc := d.locOfCursor(decl.Cursor, false)
		if setLocationOnce(&t.Def.DefinitionLoc, loc) {
			d.file.Stats.DuplicateDefinitions++
			d.file.Diagnostics = append(d.file.Diagnostics, &DuplicateDefinitionError{USR: t.Def.USR})
		}
	}

	if decl.TypeTag == frontend.TagTypedef || decl.TypeTag == frontend.TagUsing {
		if aliasID, ok := d.internType(decl.AliasOf); ok {
			t.Def.AliasOf = SomeTypeID(aliasID)
		}
	}

	for _, base := range decl.Bases {
		baseID, ok := d.internType(base.Cursor)
		if !ok {
			continue
		}
		t.Def.Parents = appendTypeIDDedup(t.Def.Parents, baseID)
		baseType := d.file.Type(baseID)
		baseType.Derived = appendTypeIDDedup(baseType.Derived, id)

		baseLoc := d.locOf(base.Path, base.Line, base.Column, false)
		baseType.Uses = addUsage(baseType.Uses, baseLoc, true)
	}
}

func (d *Driver) enterFuncDecl(decl frontend.Decl) {
	id, ok := d.internFunc(decl.Cursor)
	if !ok {
		return
	}
	fn := d.file.Func(id)

	if short, qualified := decl.Cursor.Names(); short != "" || qualified != "" {
		fn.Def.ShortName = short
		fn.Def.QualifiedName = qualified
	}
	if decl.Cursor.IsFromSystemHeader() {
		fn.IsSystemDef = true
	}

	if declTypeID, ok := d.internType(decl.DeclaringType); ok {
		fn.Def.DeclaringType = SomeTypeID(declTypeID)
		dt := d.file.Type(declTypeID)
		dt.Def.MemberFuncs = appendFuncIDDedup(dt.Def.MemberFuncs, id)
	}

	loc := d.locOfCursor(decl.Cursor, false)
	if decl.IsDefinition {
		if setLocationOnce(&fn.Def.DefinitionLoc, loc) {
			d.file.Stats.DuplicateDefinitions++
			d.file.Diagnostics = append(d.file.Diagnostics, &DuplicateDefinitionError{USR: fn.Def.USR})
		}
	} else {
		fn.Declarations = appendLocationDedup(fn.Declarations, loc)
	}

	if baseFuncID, ok := d.internFunc(decl.Overrides); ok {
		fn.Def.Base = SomeFuncID(baseFuncID)
		baseFn := d.file.Func(baseFuncID)
		baseFn.Derived = appendFuncIDDedup(baseFn.Derived, id)
	}
}

func (d *Driver) enterVarDecl(decl frontend.Decl) {
	id, ok := d.internVar(decl.Cursor)
	if !ok {
		return
	}
	v := d.file.Var(id)

	if short, qualified := decl.Cursor.Names(); short != "" || qualified != "" {
		v.Def.ShortName = short
		v.Def.QualifiedName = qualified
	}
	if decl.Cursor.IsFromSystemHeader() {
		v.IsSystemDef = true
	}

	if varTypeID, ok := d.internType(decl.VariableType); ok {
		v.Def.VariableType = SomeTypeID(varTypeID)
	}

	if declTypeID, ok := d.internType(decl.DeclaringType); ok {
		v.Def.DeclaringType = SomeTypeID(declTypeID)
		dt := d.file.Type(declTypeID)
		dt.Def.MemberVars = appendVarIDDedup(dt.Def.MemberVars, id)
	}

	if enclosingID, ok := d.internFunc(decl.EnclosingFunc); ok {
		ef := d.file.Func(enclosingID)
		ef.Def.Locals = appendVarIDDedup(ef.Def.Locals, id)
	}

	loc := d.locOfCursor(decl.Cursor, false)
	if decl.IsDefinition {
		if setLocationOnce(&v.Def.DefinitionLoc, loc) {
			d.file.Stats.DuplicateDefinitions++
			d.file.Diagnostics = append(d.file.Diagnostics, &DuplicateDefinitionError{USR: v.Def.USR})
		}
	} else {
		setLocationOnce(&v.Def.DeclarationLoc, loc)
	}
}

// Reference implements frontend.EventSink (spec.md §4.5).
func (d *Driver) Reference(ref frontend.Reference) {
	if d.cancelled() {
		d.file.Incomplete = true
		return
	}
	if ref.Referent == nil || ref.Referent.USR() == "" {
		// An anonymous type referent is dropped like an anonymous type
		// decl; any other empty referent is CallbackDegenerate.
		if ref.Role != frontend.RoleTypeRef {
			d.file.Stats.SkippedEmptyUSR++
			d.file.Diagnostics = append(d.file.Diagnostics, &CallbackDegenerateError{Reason: "empty USR on reference referent"})
		}
		return
	}

	switch ref.Role {
	case frontend.RoleCall:
		d.referenceCall(ref)
	case frontend.RoleTypeRef:
		d.referenceTypeRef(ref)
	case frontend.RoleRead, frontend.RoleWrite:
		d.referenceVar(ref)
	default:
		// RoleUnspecified, RoleBaseClass, RoleOverride and
		// RoleDeclaration are all attributed as part of EnterDecl, not
		// as a separate Reference event (spec.md §4.5: base clauses,
		// overrides and member declarations are structural, observed
		// once, when the owning decl itself is observed).
	}
}

func (d *Driver) referenceCall(ref frontend.Reference) {
	calleeID, ok := d.internFunc(ref.Referent)
	if !ok {
		return
	}
	loc := d.locOf(ref.Path, ref.Line, ref.Column, true)

	var referrerID FuncID
	if ref.Referrer != nil {
		id, ok := d.internFunc(ref.Referrer)
		if !ok {
			return
		}
		referrerID = id
	} else {
		referrerID = d.implicitInitFunc(ref.Path)
	}

	referrer := d.file.Func(referrerID)
	callee := d.file.Func(calleeID)

	referrer.Def.Callees = appendFuncRefDedup(referrer.Def.Callees, FuncRef{ID: calleeID, Loc: loc})
	callee.Callers = appendFuncRefDedup(callee.Callers, FuncRef{ID: referrerID, Loc: loc})
	callee.Uses = addUsage(callee.Uses, loc, true)
}

func (d *Driver) referenceTypeRef(ref frontend.Reference) {
	typeID, ok := d.internType(ref.Referent)
	if !ok {
		return
	}
	loc := d.locOf(ref.Path, ref.Line, ref.Column, ref.Interesting)
	t := d.file.Type(typeID)
	t.Uses = addUsage(t.Uses, loc, true)
}

func (d *Driver) referenceVar(ref frontend.Reference) {
	varID, ok := d.internVar(ref.Referent)
	if !ok {
		return
	}
	loc := d.locOf(ref.Path, ref.Line, ref.Column, ref.Interesting)
	v := d.file.Var(varID)
	v.Uses = addUsage(v.Uses, loc, true)
}

// Parse is the only top-level entry point downstream consumers use
// (spec.md §6): it runs fe over filename/compileArgs and returns the
// resulting frozen snapshot, or a wrapped error describing which
// parser stage failed (spec.md §7, ParseFatal).
func Parse(ctx context.Context, filename string, compileArgs []string, fe frontend.Frontend) (*IndexedFile, error) {
	file := NewIndexedFile()
	// Reserve the file id for the translation unit itself first, so it
	// is never 0 even if the frontend reports no locations at all
	// (spec.md §8 scenario 1: "file registry contains the input path
	// at id 1").
	file.Files.Resolve(normalizePath(filename))

	driver := NewDriver(ctx, file)
	if err := fe.IndexTranslationUnit(ctx, filename, compileArgs, driver); err != nil {
		return nil, NewParseFatalError(filename, err)
	}
	if ctx != nil {
		select {
		case <-ctx.Done():
			file.Incomplete = true
		default:
		}
	}
	return file, nil
}
