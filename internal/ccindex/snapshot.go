package ccindex

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dadada1995/ccls/internal/location"
)

// ToText renders the canonical textual form of the snapshot described
// by spec.md §8 (P6: textual stability — two IndexedFiles built from
// the same event sequence, possibly with entities interned in a
// different order, render identical text). Entities are listed by USR
// in lexical order rather than by id, so the order of entity lines does
// not depend on interning order; location lists are sorted by
// location.Less. Cross-references (parents, derived, alias_of,
// callees, callers, base, declaring_type, variable_type) are printed
// as dense ids, so their text does depend on interning order.
func (f *IndexedFile) ToText() string {
	var sb strings.Builder
	w := newTextWriter(&sb)
	f.writeText(w)
	_ = w.flush()
	return sb.String()
}

// WriteText streams the same canonical form directly to w without
// buffering the whole dump as a string first.
func (f *IndexedFile) WriteText(w io.Writer) error {
	tw := newTextWriter(w)
	f.writeText(tw)
	return tw.flush()
}

func (f *IndexedFile) writeText(w *textWriter) {
	w.writeLine(fmt.Sprintf("files=%d incomplete=%t", f.Files.Len(), f.Incomplete))

	for _, usr := range sortedUSRs(f.types, func(t IndexedType) string { return t.Def.USR }) {
		id, _ := f.TypeByUSR(usr)
		w.writeLine(formatType(f.Type(id)))
	}
	for _, usr := range sortedUSRs(f.funcs, func(fn IndexedFunc) string { return fn.Def.USR }) {
		id, _ := f.FuncByUSR(usr)
		w.writeLine(formatFunc(f.Func(id)))
	}
	for _, usr := range sortedUSRs(f.vars, func(v IndexedVar) string { return v.Def.USR }) {
		id, _ := f.VarByUSR(usr)
		w.writeLine(formatVar(f.Var(id)))
	}
}

func sortedUSRs[T any](entities []T, usrOf func(T) string) []string {
	usrs := make([]string, 0, len(entities))
	for _, e := range entities {
		usrs = append(usrs, usrOf(e))
	}
	sort.Strings(usrs)
	return usrs
}

func formatType(t *IndexedType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s name=%s def=%s parents=%s derived=%s uses=%s",
		t.Def.USR, t.Def.QualifiedName,
		optionalLocationText(t.Def.DefinitionLoc),
		typeIDsText(t.Def.Parents), typeIDsText(t.Derived),
		locationsText(t.Uses))
	if alias, ok := t.Def.AliasOf.Get(); ok {
		fmt.Fprintf(&b, " alias_of=%d", alias)
	}
	return b.String()
}

func formatFunc(fn *IndexedFunc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s name=%s def=%s decls=%s callees=%s callers=%s uses=%s",
		fn.Def.USR, fn.Def.QualifiedName,
		optionalLocationText(fn.Def.DefinitionLoc),
		locationsText(fn.Declarations),
		funcRefsText(fn.Def.Callees), funcRefsText(fn.Callers),
		locationsText(fn.Uses))
	if base, ok := fn.Def.Base.Get(); ok {
		fmt.Fprintf(&b, " base=%d", base)
	}
	if declType, ok := fn.Def.DeclaringType.Get(); ok {
		fmt.Fprintf(&b, " declaring_type=%d", declType)
	}
	return b.String()
}

func formatVar(v *IndexedVar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "var %s name=%s decl=%s def=%s uses=%s",
		v.Def.USR, v.Def.QualifiedName,
		optionalLocationText(v.Def.DeclarationLoc),
		optionalLocationText(v.Def.DefinitionLoc),
		locationsText(v.Uses))
	if vt, ok := v.Def.VariableType.Get(); ok {
		fmt.Fprintf(&b, " variable_type=%d", vt)
	}
	if declType, ok := v.Def.DeclaringType.Get(); ok {
		fmt.Fprintf(&b, " declaring_type=%d", declType)
	}
	return b.String()
}

func optionalLocationText(opt OptionalLocation) string {
	loc, ok := opt.Get()
	if !ok {
		return "-"
	}
	return location.ToText(loc)
}

func locationsText(locs []location.Location) string {
	if len(locs) == 0 {
		return "[]"
	}
	sorted := append([]location.Location(nil), locs...)
	sort.Slice(sorted, func(i, j int) bool { return location.Less(sorted[i], sorted[j]) })
	parts := make([]string, len(sorted))
	for i, l := range sorted {
		parts[i] = location.ToText(l)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func typeIDsText(ids []TypeID) string {
	if len(ids) == 0 {
		return "[]"
	}
	sorted := append([]TypeID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func funcRefsText(refs []FuncRef) string {
	if len(refs) == 0 {
		return "[]"
	}
	sorted := append([]FuncRef(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ID != sorted[j].ID {
			return sorted[i].ID < sorted[j].ID
		}
		return location.Less(sorted[i].Loc, sorted[j].Loc)
	})
	parts := make([]string, len(sorted))
	for i, r := range sorted {
		parts[i] = fmt.Sprintf("%d@%s", r.ID, location.ToText(r.Loc))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
