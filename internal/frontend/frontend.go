// Package frontend defines the contract between the core indexer and
// the C/C++ parsing frontend it treats as an external black box
// (spec.md §1, §6). The core never imports a concrete parser; it only
// depends on this package's types.
package frontend

import "context"

// DeclKind distinguishes the three entity kinds a decl event can
// report (spec.md §3.3).
type DeclKind int

const (
	DeclType DeclKind = iota
	DeclFunc
	DeclVar
)

// Role classifies a Reference event (spec.md §4.5).
type Role int

const (
	RoleUnspecified Role = iota
	RoleRead
	RoleWrite
	RoleCall
	RoleTypeRef
	RoleBaseClass
	RoleOverride
	RoleDeclaration
)

// TypeTag distinguishes the C/C++ type-declaration shapes spec.md §4.5
// calls out by name ("Type decl (tag, typedef, using)").
type TypeTag int

const (
	TagStruct TypeTag = iota
	TagClass
	TagUnion
	TagEnum
	TagTypedef
	TagUsing
)

// Cursor is an opaque handle the frontend hands back to the core so the
// core can ask for more information about the same AST node (its USR,
// its location, etc.) without the core knowing anything about the
// underlying parser's node representation. A nil Cursor means "no
// referent" (e.g. a call to a function the frontend could not
// resolve).
type Cursor interface {
	// USR returns the stable identifier for the entity this cursor
	// denotes. May be empty for anonymous entities (spec.md §4.5 "Edge
	// cases"); the core must drop those rather than intern them.
	USR() string

	// Names returns the short and fully qualified name for the
	// cursor's entity.
	Names() (short, qualified string)

	// Location returns the file path, 1-based line and 1-based column
	// the cursor resolves to. A zero line/column means unknown.
	Location() (path string, line, column int)

	// IsFromSystemHeader reports whether the cursor's declaration sits
	// inside a system header.
	IsFromSystemHeader() bool
}

// Decl is one EnterDecl event (spec.md §4.5): a type, function or
// variable declaration or definition.
type Decl struct {
	Cursor       Cursor
	Kind         DeclKind
	IsDefinition bool

	// TypeTag is only meaningful when Kind == DeclType.
	TypeTag TypeTag

	// AliasOf is set for DeclType events with TypeTag in
	// {TagTypedef, TagUsing}: the cursor for the underlying type.
	AliasOf Cursor

	// Bases lists the base classes referenced by a struct/class decl,
	// each paired with the source location of that base-clause entry.
	Bases []BaseRef

	// DeclaringType is set when Kind is DeclFunc or DeclVar and the
	// entity is a member: the cursor for the enclosing type.
	DeclaringType Cursor

	// Overrides is set when Kind == DeclFunc and this function
	// overrides another: the cursor for the overridden function.
	Overrides Cursor

	// VariableType is set when Kind == DeclVar: the cursor for the
	// variable's declared type.
	VariableType Cursor

	// EnclosingFunc is set when this decl is a local variable declared
	// inside a function body: the cursor for that function.
	EnclosingFunc Cursor
}

// BaseRef pairs a base-class cursor with the location of the
// base-clause entry that named it.
type BaseRef struct {
	Cursor Cursor
	Path   string
	Line   int
	Column int
}

// Reference is one Reference event (spec.md §4.5): a use of an
// already-interned (or about-to-be-interned) entity.
type Reference struct {
	// Referent is the entity being referenced.
	Referent Cursor

	// Referrer is the enclosing function, if this reference occurs
	// inside a function body (used for call-edge attribution). Nil for
	// references at namespace/global scope.
	Referrer Cursor

	Path   string
	Line   int
	Column int
	Role   Role

	// Interesting distinguishes a semantically meaningful use (read,
	// write, explicit expression-level type use) from a passive,
	// bookkeeping one (parameter type, return type, member type).
	// Ignored for RoleCall, which is always interesting. The frontend,
	// not the core, is in the position to know which case applies
	// (spec.md §4.5, "Type reference"/"Variable reference").
	Interesting bool
}

// EventSink receives decl/reference events from a Frontend while it
// walks one translation unit, in deterministic program order.
type EventSink interface {
	EnterDecl(d Decl)
	Reference(r Reference)
}

// Frontend walks one translation unit and reports every declaration
// and reference it observes to sink, in program order. Implementations
// must finish all of one event's callbacks before starting the next
// (spec.md §5: "no callback may observe a partially updated record").
type Frontend interface {
	IndexTranslationUnit(ctx context.Context, filename string, compileArgs []string, sink EventSink) error
}
