// Adapted from the teacher's internal/index/types.go: the teacher
// correlates per-file SemanticDB occurrences into fileInfo/defInfo/
// refResultInfo maps keyed by symbol string. This file plays the same
// role for the USR-keyed cross-reference graph: one record per kind,
// split into a DefinitionBlock (replaceable exactly once) and an
// AuxiliaryBlock (accumulated edges and usages), per spec.md §3.3.
package ccindex

import "github.com/dadada1995/ccls/internal/location"

// TypeDefinition is the structural part of a Type entity: everything
// set from the declaration/definition event, replaced in place at most
// once when the true definition is seen (spec.md invariant 4).
type TypeDefinition struct {
	ID            TypeID
	USR           string
	ShortName     string
	QualifiedName string
	DefinitionLoc OptionalLocation
	AliasOf       OptionalTypeID
	Parents       []TypeID
	NestedTypes   []TypeID
	MemberFuncs   []FuncID
	MemberVars    []VarID
}

// IndexedType is one Type entity: its DefinitionBlock plus the
// accumulated inverse/usage edges that only ever grow as more events
// are observed (spec.md §3.3, "Type").
type IndexedType struct {
	Def TypeDefinition

	// Derived is the inverse of Def.Parents: t.Derived contains d iff
	// d.Def.Parents contains t (spec invariant 5).
	Derived []TypeID

	// Uses holds every location referencing this type. Mutate only via
	// addUsage — direct appends break invariant 7.
	Uses []location.Location

	IsSystemDef bool
}

// FuncDefinition is the structural part of a Function entity.
type FuncDefinition struct {
	ID            FuncID
	USR           string
	ShortName     string
	QualifiedName string
	DefinitionLoc OptionalLocation
	DeclaringType OptionalTypeID
	Base          OptionalFuncID
	Locals        []VarID
	Callees       []FuncRef
}

// IndexedFunc is one Function entity.
type IndexedFunc struct {
	Def FuncDefinition

	// Declarations holds every forward-declaration location seen for
	// this function (there may be several; spec.md scenario 6).
	Declarations []location.Location

	// Derived is the inverse of Def.Base: direct overriders of this
	// function.
	Derived []FuncID

	// Callers is the inverse of Def.Callees, carrying the same location
	// on both sides of the pair (spec invariant 5).
	Callers []FuncRef

	// Uses holds every location referencing this function, including
	// but not limited to call sites (see Callers for the subset that
	// are interesting calls). Mutate only via addUsage.
	Uses []location.Location

	IsSystemDef bool
}

// VarDefinition is the structural part of a Variable entity.
type VarDefinition struct {
	ID             VarID
	USR            string
	ShortName      string
	QualifiedName  string
	DeclarationLoc OptionalLocation
	DefinitionLoc  OptionalLocation
	VariableType   OptionalTypeID
	DeclaringType  OptionalTypeID
}

// IndexedVar is one Variable entity.
type IndexedVar struct {
	Def VarDefinition

	// Uses holds every location referencing this variable. Mutate only
	// via addUsage.
	Uses []location.Location

	IsSystemDef bool
}
