// Diff renders a unified diff between two snapshots' canonical text
// forms via github.com/pmezard/go-difflib, the same library
// sourcegraph-lsif-semanticdb's test suite depends on for comparing
// golden fixtures. Useful for spec.md §8's textual-stability property:
// re-running a translation unit through an unchanged frontend should
// produce an empty diff.
package ccindex

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of before.ToText() against
// after.ToText(). An empty string means the two snapshots are
// textually identical.
func Diff(before, after *IndexedFile, fromLabel, toLabel string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before.ToText()),
		B:        difflib.SplitLines(after.ToText()),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// USRDiff summarizes which entities were added, removed or changed
// between two snapshots of the same translation unit, independent of
// assigned ids (entities are identified by USR, the stable key — spec
// invariant 1).
type USRDiff struct {
	AddedTypes, RemovedTypes, ChangedTypes []string
	AddedFuncs, RemovedFuncs, ChangedFuncs []string
	AddedVars, RemovedVars, ChangedVars    []string
}

// DiffByUSR compares before and after entity-by-entity via their
// canonical text rendering, keyed by USR rather than dense id.
func DiffByUSR(before, after *IndexedFile) USRDiff {
	var d USRDiff
	d.AddedTypes, d.RemovedTypes, d.ChangedTypes = diffKind(
		typeUSRText(before), typeUSRText(after))
	d.AddedFuncs, d.RemovedFuncs, d.ChangedFuncs = diffKind(
		funcUSRText(before), funcUSRText(after))
	d.AddedVars, d.RemovedVars, d.ChangedVars = diffKind(
		varUSRText(before), varUSRText(after))
	return d
}

func typeUSRText(f *IndexedFile) map[string]string {
	m := make(map[string]string, len(f.types))
	for i := range f.types {
		m[f.types[i].Def.USR] = formatType(&f.types[i])
	}
	return m
}

func funcUSRText(f *IndexedFile) map[string]string {
	m := make(map[string]string, len(f.funcs))
	for i := range f.funcs {
		m[f.funcs[i].Def.USR] = formatFunc(&f.funcs[i])
	}
	return m
}

func varUSRText(f *IndexedFile) map[string]string {
	m := make(map[string]string, len(f.vars))
	for i := range f.vars {
		m[f.vars[i].Def.USR] = formatVar(&f.vars[i])
	}
	return m
}

func diffKind(before, after map[string]string) (added, removed, changed []string) {
	for usr, text := range after {
		prev, existed := before[usr]
		if !existed {
			added = append(added, usr)
		} else if prev != text {
			changed = append(changed, usr)
		}
	}
	for usr := range before {
		if _, stillThere := after[usr]; !stillThere {
			removed = append(removed, usr)
		}
	}
	return
}
