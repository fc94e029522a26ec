package ccindex

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadada1995/ccls/internal/fileset"
	"github.com/dadada1995/ccls/internal/frontend"
)

// fakeCursor is a minimal frontend.Cursor for scripting event
// sequences in tests, standing in for the tree-sitter-backed cursor a
// real frontend would hand back.
type fakeCursor struct {
	usr            string
	short, qual    string
	path           string
	line, col      int
	systemHeader   bool
}

func cur(usr, name, path string, line, col int) *fakeCursor {
	return &fakeCursor{usr: usr, short: name, qual: name, path: path, line: line, col: col}
}

func (c *fakeCursor) USR() string                { return c.usr }
func (c *fakeCursor) Names() (string, string)     { return c.short, c.qual }
func (c *fakeCursor) Location() (string, int, int) { return c.path, c.line, c.col }
func (c *fakeCursor) IsFromSystemHeader() bool    { return c.systemHeader }

// scriptFrontend replays a fixed list of callbacks against whatever
// sink Parse hands it, exactly once, in order — the deterministic
// "external black box" Parse expects (spec.md §6).
type scriptFrontend struct {
	run func(sink frontend.EventSink)
	err error
}

func (s *scriptFrontend) IndexTranslationUnit(ctx context.Context, filename string, compileArgs []string, sink frontend.EventSink) error {
	if s.err != nil {
		return s.err
	}
	s.run(sink)
	return nil
}

func parseScript(t *testing.T, run func(sink frontend.EventSink)) *IndexedFile {
	t.Helper()
	f, err := Parse(context.Background(), "a.cc", nil, &scriptFrontend{run: run})
	require.NoError(t, err)
	return f
}

// P1: interning is injective — the same USR always resolves to the
// same id, distinct USRs never collide.
func TestInterningIsInjective(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Foo", "Foo", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Foo", "Foo", "a.cc", 1, 1), Kind: frontend.DeclType})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Bar", "Bar", "a.cc", 2, 1), Kind: frontend.DeclType, IsDefinition: true})
	})
	foo, ok := f.TypeByUSR("c:@S@Foo")
	require.True(t, ok)
	bar, ok := f.TypeByUSR("c:@S@Bar")
	require.True(t, ok)
	assert.NotEqual(t, foo, bar)

	again, ok := f.TypeByUSR("c:@S@Foo")
	require.True(t, ok)
	assert.Equal(t, foo, again)
}

// P2: ids are dense, starting at 0, in first-seen order.
func TestIDsAreDenseAndOrdered(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@first", "first", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@second", "second", "a.cc", 2, 1), Kind: frontend.DeclFunc, IsDefinition: true})
	})
	first, _ := f.FuncByUSR("c:@F@first")
	second, _ := f.FuncByUSR("c:@F@second")
	assert.Equal(t, FuncID(0), first)
	assert.Equal(t, FuncID(1), second)
	assert.Len(t, f.Funcs(), 2)
}

// P3: base/derived and caller/callee edges are always symmetric.
func TestInheritanceEdgesAreSymmetric(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Base", "Base", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{
			Cursor:       cur("c:@S@Derived", "Derived", "a.cc", 5, 1),
			Kind:         frontend.DeclType,
			IsDefinition: true,
			Bases: []frontend.BaseRef{
				{Cursor: cur("c:@S@Base", "Base", "a.cc", 1, 1), Path: "a.cc", Line: 5, Column: 20},
			},
		})
	})
	base, _ := f.TypeByUSR("c:@S@Base")
	derived, _ := f.TypeByUSR("c:@S@Derived")

	assert.Equal(t, []TypeID{base}, f.Type(derived).Def.Parents)
	assert.Equal(t, []TypeID{derived}, f.Type(base).Derived)
}

func TestOverrideEdgesAreSymmetric(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@Base@draw", "draw", "a.cc", 2, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{
			Cursor:       cur("c:@F@Derived@draw", "draw", "a.cc", 8, 1),
			Kind:         frontend.DeclFunc,
			IsDefinition: true,
			Overrides:    cur("c:@F@Base@draw", "draw", "a.cc", 2, 1),
		})
	})
	base, _ := f.FuncByUSR("c:@F@Base@draw")
	derived, _ := f.FuncByUSR("c:@F@Derived@draw")

	gotBase, ok := f.Func(derived).Def.Base.Get()
	require.True(t, ok)
	assert.Equal(t, base, gotBase)
	assert.Equal(t, []FuncID{derived}, f.Func(base).Derived)
}

func TestCallEdgesAreSymmetric(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@caller", "caller", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@callee", "callee", "a.cc", 5, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.Reference(frontend.Reference{
			Referent: cur("c:@F@callee", "callee", "a.cc", 5, 1),
			Referrer: cur("c:@F@caller", "caller", "a.cc", 1, 1),
			Path:     "a.cc", Line: 2, Column: 5,
			Role: frontend.RoleCall,
		})
	})
	caller, _ := f.FuncByUSR("c:@F@caller")
	callee, _ := f.FuncByUSR("c:@F@callee")

	require.Len(t, f.Func(caller).Def.Callees, 1)
	require.Len(t, f.Func(callee).Callers, 1)
	assert.Equal(t, callee, f.Func(caller).Def.Callees[0].ID)
	assert.Equal(t, caller, f.Func(callee).Callers[0].ID)
	assert.Equal(t, f.Func(caller).Def.Callees[0].Loc, f.Func(callee).Callers[0].Loc)
}

// P4: usage dedup merges locations that agree ignoring interesting,
// OR-ing the bit in rather than appending a duplicate entry.
func TestUsageDedupMergesInterestingBit(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Point", "Point", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.Reference(frontend.Reference{Referent: cur("c:@S@Point", "Point", "a.cc", 1, 1), Path: "a.cc", Line: 10, Column: 3, Role: frontend.RoleTypeRef, Interesting: false})
		sink.Reference(frontend.Reference{Referent: cur("c:@S@Point", "Point", "a.cc", 1, 1), Path: "a.cc", Line: 10, Column: 3, Role: frontend.RoleTypeRef, Interesting: true})
	})
	id, _ := f.TypeByUSR("c:@S@Point")
	uses := f.Type(id).Uses
	require.Len(t, uses, 1)
	assert.True(t, uses[0].Interesting())
}

func TestCallSitesAtDistinctLocationsBothSurvive(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@callee", "callee", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@caller", "caller", "a.cc", 2, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.Reference(frontend.Reference{
			Referent: cur("c:@F@callee", "callee", "a.cc", 1, 1),
			Referrer: cur("c:@F@caller", "caller", "a.cc", 2, 1),
			Path: "a.cc", Line: 3, Column: 1, Role: frontend.RoleCall,
		})
		sink.Reference(frontend.Reference{
			Referent: cur("c:@F@callee", "callee", "a.cc", 1, 1),
			Referrer: cur("c:@F@caller", "caller", "a.cc", 2, 1),
			Path: "a.cc", Line: 4, Column: 1, Role: frontend.RoleCall,
		})
	})
	callee, _ := f.FuncByUSR("c:@F@callee")
	assert.Len(t, f.Func(callee).Callers, 2)
}

// P7: a reference to an entity not yet declared interns it on first
// sight; the later decl fills in the same record rather than creating
// a second one.
func TestForwardReferenceTolerance(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@caller", "caller", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.Reference(frontend.Reference{
			Referent: cur("c:@F@notYetSeen", "notYetSeen", "a.cc", 99, 1),
			Referrer: cur("c:@F@caller", "caller", "a.cc", 1, 1),
			Path: "a.cc", Line: 2, Column: 1, Role: frontend.RoleCall,
		})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@notYetSeen", "notYetSeen", "a.cc", 99, 1), Kind: frontend.DeclFunc, IsDefinition: true})
	})
	id, ok := f.FuncByUSR("c:@F@notYetSeen")
	require.True(t, ok)
	fn := f.Func(id)
	assert.Equal(t, "notYetSeen", fn.Def.ShortName)
	loc, ok := fn.Def.DefinitionLoc.Get()
	require.True(t, ok)
	assert.Equal(t, uint32(99), loc.Line())
	assert.Len(t, f.Funcs(), 2)
}

// Calls with no enclosing function (global initializers) are
// attributed to the file's synthesized implicit-init function rather
// than dropped.
func TestGlobalInitializerCallsAttributedToImplicitInit(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@callee", "callee", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.Reference(frontend.Reference{
			Referent: cur("c:@F@callee", "callee", "a.cc", 1, 1),
			Referrer: nil,
			Path: "a.cc", Line: 2, Column: 1, Role: frontend.RoleCall,
		})
	})
	callee, _ := f.FuncByUSR("c:@F@callee")
	require.Len(t, f.Func(callee).Callers, 1)
	assert.Contains(t, f.Funcs()[f.Func(callee).Callers[0].ID].Def.USR, "$implicit-init$")
}

// Entities with an empty USR are dropped (Type) or counted as
// CallbackDegenerate (Func/Var) rather than crashing the pass.
func TestEmptyUSRFuncDeclIsCounted(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("", "anon", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
	})
	assert.Equal(t, uint64(1), f.Stats.SkippedEmptyUSR)
	assert.Len(t, f.Funcs(), 0)
}

// A second, distinct definition location for the same entity is
// counted rather than overwriting the first (invariant 4).
func TestDuplicateDefinitionIsCountedNotOverwritten(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@f", "f", "a.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@F@f", "f", "b.cc", 1, 1), Kind: frontend.DeclFunc, IsDefinition: true})
	})
	assert.Equal(t, uint64(1), f.Stats.DuplicateDefinitions)
	id, _ := f.FuncByUSR("c:@F@f")
	loc, ok := f.Func(id).Def.DefinitionLoc.Get()
	require.True(t, ok)
	path, _ := f.Files.PathOf(fileset.FileID(loc.FileID()))
	assert.Equal(t, "a.cc", path)
}

// P6: textual stability — two runs declaring the same entities, with
// no cross-references between them, observed in a different order,
// render identical text.
func TestTextualStabilityAcrossInterningOrder(t *testing.T) {
	order1 := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@B", "B", "a.cc", 2, 1), Kind: frontend.DeclType, IsDefinition: true})
	})
	order2 := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@B", "B", "a.cc", 2, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
	})
	assert.Equal(t, order1.ToText(), order2.ToText())
}

func TestDiffIsEmptyForIdenticalSnapshots(t *testing.T) {
	build := func() *IndexedFile {
		return parseScript(t, func(sink frontend.EventSink) {
			sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		})
	}
	diff, err := Diff(build(), build(), "before", "after")
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestDiffByUSRDetectsAddedEntity(t *testing.T) {
	before := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
	})
	after := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@B", "B", "a.cc", 2, 1), Kind: frontend.DeclType, IsDefinition: true})
	})
	d := DiffByUSR(before, after)
	assert.Equal(t, []string{"c:@S@B"}, d.AddedTypes)
	assert.Empty(t, d.RemovedTypes)
}

func TestEncodeDecodeRoundtripsThroughCodec(t *testing.T) {
	f := parseScript(t, func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@Base", "Base", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
		sink.EnterDecl(frontend.Decl{
			Cursor: cur("c:@S@Derived", "Derived", "a.cc", 5, 1), Kind: frontend.DeclType, IsDefinition: true,
			Bases: []frontend.BaseRef{{Cursor: cur("c:@S@Base", "Base", "a.cc", 1, 1), Path: "a.cc", Line: 5, Column: 20}},
		})
	})

	var buf strings.Builder
	require.NoError(t, f.Encode(&buf))
	decoded, err := Decode(strings.NewReader(buf.String()))
	require.NoError(t, err)

	assert.Equal(t, f.ToText(), decoded.ToText())
}

func TestCancellationMarksFileIncomplete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f, err := Parse(ctx, "a.cc", nil, &scriptFrontend{run: func(sink frontend.EventSink) {
		sink.EnterDecl(frontend.Decl{Cursor: cur("c:@S@A", "A", "a.cc", 1, 1), Kind: frontend.DeclType, IsDefinition: true})
	}})
	require.NoError(t, err)
	assert.True(t, f.Incomplete)
}
