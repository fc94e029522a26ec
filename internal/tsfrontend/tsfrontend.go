// Package tsfrontend is the default frontend.Frontend: a tree-sitter
// based walker over one C/C++ translation unit. It is deliberately the
// same "parse with a grammar, walk/query the tree, emit tags" shape as
// phobologic-repoguide's internal/parse package, generalized from
// repoguide's flat definition/reference tags to the full Decl/
// Reference event pair ccindex.Driver expects.
//
// Unlike a real clang-based frontend, tsfrontend cannot resolve
// overloads, namespaces or virtual dispatch — see usr.go for the
// consequences of that on USR synthesis, and SPEC_FULL.md §10 for the
// tradeoff this represents against the spec's nominal frontend.
package tsfrontend

import (
	"context"
	"os"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dadada1995/ccls/internal/frontend"
)

// Frontend implements frontend.Frontend using tree-sitter's C and C++
// grammars. compileArgs is accepted for interface compatibility but
// unused: tree-sitter parses C/C++ syntactically, without running the
// preprocessor, so macros and include paths make no difference to it.
type Frontend struct{}

// New returns a ready-to-use tree-sitter Frontend.
func New() *Frontend { return &Frontend{} }

func (f *Frontend) IndexTranslationUnit(ctx context.Context, filename string, compileArgs []string, sink frontend.EventSink) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	lang := languageForPath(filename)
	parser := lang.newParser()
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	w := &walker{
		ctx:    ctx,
		path:   filename,
		src:    src,
		sink:   sink,
		byName: make(map[string]*tsCursor),
	}
	w.walk(tree.RootNode())
	return nil
}

// walker recurses over the parse tree, tracking the enclosing type and
// function so member/local declarations and call referrers can be
// attributed correctly, the same bookkeeping ccls's own indexer keeps
// on a scope stack while visiting clang's AST.
type walker struct {
	ctx  context.Context
	path string
	src  []byte
	sink frontend.EventSink

	typeStack []*tsCursor
	funcStack []*tsCursor

	// byName memoizes one *tsCursor per synthesized USR so repeated
	// references to the same name within a translation unit share one
	// Cursor value, keeping USR() stable across call sites.
	byName map[string]*tsCursor
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) locationOf(n *sitter.Node) (line, column int) {
	p := n.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}

func (w *walker) cursorFor(kind, qualifiedName, shortName string, n *sitter.Node) *tsCursor {
	usr := synthesizeUSR(kind, qualifiedName)
	if usr == "" {
		return nil
	}
	if c, ok := w.byName[usr]; ok {
		return c
	}
	line, col := 0, 0
	if n != nil {
		line, col = w.locationOf(n)
	}
	c := &tsCursor{usr: usr, short: shortName, qualified: qualifiedName, path: w.path, line: line, column: col}
	w.byName[usr] = c
	return c
}

func (w *walker) currentType() *tsCursor {
	if len(w.typeStack) == 0 {
		return nil
	}
	return w.typeStack[len(w.typeStack)-1]
}

func (w *walker) currentFunc() *tsCursor {
	if len(w.funcStack) == 0 {
		return nil
	}
	return w.funcStack[len(w.funcStack)-1]
}

func (w *walker) qualify(name string) string {
	if t := w.currentType(); t != nil {
		return t.qualified + "::" + name
	}
	return name
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	if w.ctx != nil {
		select {
		case <-w.ctx.Done():
			return
		default:
		}
	}

	switch n.Type() {
	case "struct_specifier", "class_specifier", "union_specifier", "enum_specifier":
		w.visitTypeSpecifier(n)
		return
	case "function_definition":
		w.visitFunctionDefinition(n)
		return
	case "declaration", "field_declaration":
		w.visitDeclaration(n)
	case "call_expression":
		w.visitCallExpression(n)
	case "type_definition":
		w.visitTypedef(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}
}

func (w *walker) visitTypeSpecifier(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	shortName := w.text(nameNode)
	if shortName == "" {
		// Anonymous struct/union/enum: no USR, dropped per spec.md
		// §4.5 "Edge cases" — still recurse into its body for any
		// named members.
		w.walkChildren(n)
		return
	}

	tag := frontend.TagStruct
	switch n.Type() {
	case "class_specifier":
		tag = frontend.TagClass
	case "union_specifier":
		tag = frontend.TagUnion
	case "enum_specifier":
		tag = frontend.TagEnum
	}

	qualified := w.qualify(shortName)
	cursor := w.cursorFor(usrKindType, qualified, shortName, n)
	if cursor == nil {
		return
	}

	hasBody := n.ChildByFieldName("body") != nil
	decl := frontend.Decl{
		Cursor:       cursor,
		Kind:         frontend.DeclType,
		IsDefinition: hasBody,
		TypeTag:      tag,
	}

	if baseClause := n.ChildByFieldName("base_class_clause"); baseClause != nil {
		for i := 0; i < int(baseClause.NamedChildCount()); i++ {
			baseNode := baseClause.NamedChild(i)
			baseName := w.text(baseNode)
			if baseName == "" {
				continue
			}
			baseCursor := w.cursorFor(usrKindType, baseName, baseName, baseNode)
			line, col := w.locationOf(baseNode)
			decl.Bases = append(decl.Bases, frontend.BaseRef{Cursor: baseCursor, Path: w.path, Line: line, Column: col})
		}
	}

	w.sink.EnterDecl(decl)

	w.typeStack = append(w.typeStack, cursor)
	if body := n.ChildByFieldName("body"); body != nil {
		w.walkChildren(body)
	}
	w.typeStack = w.typeStack[:len(w.typeStack)-1]
}

func (w *walker) visitTypedef(n *sitter.Node) {
	declarator := n.ChildByFieldName("declarator")
	shortName := w.text(declarator)
	if shortName == "" {
		return
	}
	typeNode := n.ChildByFieldName("type")
	underlying := w.text(typeNode)

	qualified := w.qualify(shortName)
	cursor := w.cursorFor(usrKindType, qualified, shortName, n)
	if cursor == nil {
		return
	}
	var aliasOf frontend.Cursor
	if underlying != "" {
		aliasOf = w.cursorFor(usrKindType, underlying, underlying, typeNode)
	}
	w.sink.EnterDecl(frontend.Decl{
		Cursor:       cursor,
		Kind:         frontend.DeclType,
		IsDefinition: true,
		TypeTag:      frontend.TagTypedef,
		AliasOf:      aliasOf,
	})
}

func (w *walker) visitFunctionDefinition(n *sitter.Node) {
	declarator := n.ChildByFieldName("declarator")
	fnDeclarator, nameNode := unwrapFunctionDeclarator(declarator)
	shortName := w.text(nameNode)
	if shortName == "" {
		w.walkChildren(n)
		return
	}

	declaringType := w.currentType()
	qualifiedName := shortName
	if enclosing := declaringTypeFromQualified(shortName); enclosing != "" {
		// name already written as Class::method in the declarator text
		qualifiedName = shortName
	} else if declaringType != nil {
		qualifiedName = declaringType.qualified + "::" + shortName
	}

	cursor := w.cursorFor(usrKindFunc, qualifiedName, shortName, n)
	if cursor == nil {
		return
	}

	decl := frontend.Decl{
		Cursor:       cursor,
		Kind:         frontend.DeclFunc,
		IsDefinition: true,
	}
	if declaringType != nil {
		decl.DeclaringType = declaringType
	}
	w.sink.EnterDecl(decl)

	w.funcStack = append(w.funcStack, cursor)
	if params := fieldOf(fnDeclarator, "parameters"); params != nil {
		w.walkChildren(params)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		w.walkChildren(body)
	}
	w.funcStack = w.funcStack[:len(w.funcStack)-1]
}

// visitDeclaration handles both free/local variable declarations and,
// when inside a class body, member variable declarations
// (field_declaration). A declaration whose declarator is itself a
// function_declarator with no body is a function prototype, not a
// variable.
func (w *walker) visitDeclaration(n *sitter.Node) {
	typeNode := n.ChildByFieldName("type")
	typeName := w.text(typeNode)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "function_declarator":
			w.visitFunctionPrototype(child, typeName)
		case "identifier", "field_identifier":
			w.visitVariableDeclarator(child, typeNode, typeName)
		case "init_declarator":
			if decl := child.ChildByFieldName("declarator"); decl != nil {
				w.visitVariableDeclarator(decl, typeNode, typeName)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				w.walk(value)
			}
		case "pointer_declarator", "reference_declarator":
			if inner := innermostIdentifier(child); inner != nil {
				w.visitVariableDeclarator(inner, typeNode, typeName)
			}
		}
	}
}

func (w *walker) visitFunctionPrototype(declarator *sitter.Node, returnType string) {
	nameNode := declarator.ChildByFieldName("declarator")
	shortName := w.text(nameNode)
	if shortName == "" {
		return
	}
	declaringType := w.currentType()
	qualifiedName := shortName
	if declaringType != nil {
		qualifiedName = declaringType.qualified + "::" + shortName
	}
	cursor := w.cursorFor(usrKindFunc, qualifiedName, shortName, declarator)
	if cursor == nil {
		return
	}
	decl := frontend.Decl{Cursor: cursor, Kind: frontend.DeclFunc, IsDefinition: false}
	if declaringType != nil {
		decl.DeclaringType = declaringType
	}
	w.sink.EnterDecl(decl)
}

func (w *walker) visitVariableDeclarator(nameNode, typeNode *sitter.Node, typeName string) {
	shortName := w.text(nameNode)
	if shortName == "" {
		return
	}
	declaringType := w.currentType()
	enclosingFunc := w.currentFunc()

	qualifiedName := shortName
	if declaringType != nil && enclosingFunc == nil {
		qualifiedName = declaringType.qualified + "::" + shortName
	} else if enclosingFunc != nil {
		qualifiedName = enclosingFunc.qualified + "::" + shortName + pointSuffix(nameNode)
	}

	cursor := w.cursorFor(usrKindVar, qualifiedName, shortName, nameNode)
	if cursor == nil {
		return
	}
	decl := frontend.Decl{Cursor: cursor, Kind: frontend.DeclVar, IsDefinition: enclosingFunc != nil || declaringType == nil}
	if declaringType != nil && enclosingFunc == nil {
		decl.DeclaringType = declaringType
	}
	if enclosingFunc != nil {
		decl.EnclosingFunc = enclosingFunc
	}
	if typeName != "" {
		decl.VariableType = w.cursorFor(usrKindType, typeName, typeName, typeNode)
	}
	w.sink.EnterDecl(decl)
}

func (w *walker) visitCallExpression(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	name := calleeName(fnNode, w.src)
	if name == "" {
		w.walkChildren(n)
		return
	}

	referent := w.cursorFor(usrKindFunc, name, name, fnNode)
	if referent == nil {
		return
	}
	line, col := w.locationOf(n)
	ref := frontend.Reference{
		Referent: referent,
		Path:     w.path,
		Line:     line,
		Column:   col,
		Role:     frontend.RoleCall,
	}
	if caller := w.currentFunc(); caller != nil {
		ref.Referrer = caller
	}
	w.sink.Reference(ref)

	if args := n.ChildByFieldName("arguments"); args != nil {
		w.walkChildren(args)
	}
}

func (w *walker) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}
}

// unwrapFunctionDeclarator descends through pointer_declarator layers
// (e.g. a function returning a pointer) to find the function_declarator
// and its name node.
func unwrapFunctionDeclarator(n *sitter.Node) (fnDeclarator, nameNode *sitter.Node) {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			name := n.ChildByFieldName("declarator")
			return n, name
		case "pointer_declarator", "reference_declarator":
			n = n.ChildByFieldName("declarator")
		default:
			return nil, nil
		}
	}
	return nil, nil
}

func fieldOf(n *sitter.Node, field string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(field)
}

func innermostIdentifier(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "identifier", "field_identifier":
			return n
		default:
			next := n.ChildByFieldName("declarator")
			if next == nil {
				return nil
			}
			n = next
		}
	}
	return nil
}

// calleeName extracts a best-effort callee name from a call
// expression's function node: a bare identifier, or the final member
// of a field/qualified access (obj.method(), obj->method(),
// ns::fn()).
func calleeName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "field_expression":
		if field := n.ChildByFieldName("field"); field != nil {
			return field.Content(src)
		}
	case "qualified_identifier":
		if name := n.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	}
	return ""
}

// declaringTypeFromQualified returns the qualifier before the first
// "::" when name already spells out an explicit Class::member
// qualification, or "" when it does not, so visitFunctionDefinition
// does not double-qualify an out-of-line member definition.
func declaringTypeFromQualified(name string) string {
	for i := 0; i+1 < len(name); i++ {
		if name[i] == ':' && name[i+1] == ':' {
			return name[:i]
		}
	}
	return ""
}

// pointSuffix disambiguates same-named locals declared in different
// blocks of the same function by their source position, since plain
// name qualification alone would collide.
func pointSuffix(n *sitter.Node) string {
	p := n.StartPoint()
	return "@" + strconv.Itoa(int(p.Row)) + ":" + strconv.Itoa(int(p.Column))
}
