// A real ccls frontend derives USRs from clang's AST (overload sets,
// template arguments, namespaces fully resolved). Built on tree-sitter
// alone we cannot resolve overloads or namespaces, so usr.go
// synthesizes a best-effort stable key instead: a qualified-name-based
// identifier, scoped by kind so a type and a function that happen to
// share a name never collide. This is intentionally coarser than a
// real USR — documented as a known limitation in SPEC_FULL.md §10 — but still
// satisfies the core contract Driver relies on: the same name, in the
// same kind, in the same translation unit, always yields the same
// USR (spec invariant 1).
package tsfrontend

const (
	usrKindType = "t"
	usrKindFunc = "f"
	usrKindVar  = "v"
)

func synthesizeUSR(kind, qualifiedName string) string {
	if qualifiedName == "" {
		return ""
	}
	return "ts:" + kind + ":" + qualifiedName
}
