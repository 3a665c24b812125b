package python

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// StatementKind tags the import statement variants the extractor understands.
type StatementKind int

const (
	// KindAbsoluteImport is `import a.b, c as d`.
	KindAbsoluteImport StatementKind = iota + 1
	// KindFromImport is `from <dots><module> import <names>`, including level 0.
	KindFromImport
)

func (k StatementKind) String() string {
	switch k {
	case KindAbsoluteImport:
		return "import"
	case KindFromImport:
		return "from-import"
	default:
		return "unknown"
	}
}

// Statement is one import statement lowered from the syntax tree.
//
// For KindAbsoluteImport only Names is set. For KindFromImport, Level is the
// number of leading dots, Module the optional dotted module after the dots and
// Names the imported names (aliases dropped, "*" for wildcard imports).
type Statement struct {
	Kind   StatementKind
	Level  int
	Module string
	Names  []string
	Line   int
}

// ParseError reports a source file that could not be parsed.
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid syntax at line %d, column %d: %s", e.Line, e.Column, e.Reason)
	}
	return e.Reason
}

// ParseFileStatements reads a Python file from disk and returns its import statements.
func ParseFileStatements(filePath string) ([]Statement, error) {
	sourceCode, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseStatements(sourceCode)
}

// ParseStatements parses Python source code and extracts its import statements.
// Sources that are not valid UTF-8 or whose tree contains syntax errors yield a *ParseError.
func ParseStatements(sourceCode []byte) ([]Statement, error) {
	if !utf8.Valid(sourceCode) {
		return nil, &ParseError{Reason: "source is not valid UTF-8"}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Python code: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}
	if legacy := firstNode(root, isLegacyStatement); legacy != nil {
		return nil, nodeError(legacy, fmt.Sprintf("Python 2 %s is not supported", strings.ReplaceAll(legacy.Type(), "_", " ")))
	}

	return extractStatementsFromTree(root, sourceCode), nil
}

// syntaxError locates the first ERROR or MISSING node below n.
func syntaxError(n *sitter.Node) *ParseError {
	found := firstNode(n, func(node *sitter.Node) bool {
		return node.Type() == "ERROR" || node.IsMissing()
	})
	if found == nil {
		return &ParseError{Reason: "syntax error"}
	}

	reason := "unexpected token"
	if found.IsMissing() {
		reason = fmt.Sprintf("missing %q", found.Type())
	}
	return nodeError(found, reason)
}

// isLegacyStatement matches statements the grammar accepts only for Python 2 sources.
func isLegacyStatement(node *sitter.Node) bool {
	switch node.Type() {
	case "print_statement", "exec_statement":
		return true
	}
	return false
}

// firstNode returns the first node below n, in source order, that match accepts.
func firstNode(n *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	var found *sitter.Node

	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil || found != nil {
			return
		}
		if match(node) {
			found = node
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return found
}

func nodeError(n *sitter.Node, reason string) *ParseError {
	point := n.StartPoint()
	return &ParseError{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Reason: reason,
	}
}

// extractStatementsFromTree walks the whole tree so imports nested in
// functions, classes and conditionals are found as well.
func extractStatementsFromTree(rootNode *sitter.Node, sourceCode []byte) []Statement {
	var statements []Statement

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		switch n.Type() {
		case "import_statement":
			if stmt, ok := importStatement(n, sourceCode); ok {
				statements = append(statements, stmt)
			}
			return
		case "import_from_statement", "future_import_statement":
			if stmt, ok := fromImportStatement(n, sourceCode); ok {
				statements = append(statements, stmt)
			}
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return statements
}

func importStatement(node *sitter.Node, sourceCode []byte) (Statement, bool) {
	stmt := Statement{
		Kind: KindAbsoluteImport,
		Line: int(node.StartPoint().Row) + 1,
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if name := importedName(node.NamedChild(i), sourceCode); name != "" {
			stmt.Names = append(stmt.Names, name)
		}
	}
	return stmt, len(stmt.Names) > 0
}

func fromImportStatement(node *sitter.Node, sourceCode []byte) (Statement, bool) {
	stmt := Statement{
		Kind: KindFromImport,
		Line: int(node.StartPoint().Row) + 1,
	}

	if node.Type() == "future_import_statement" {
		stmt.Module = "__future__"
	}

	seenImportKeyword := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		if child.Type() == "import" {
			seenImportKeyword = true
			continue
		}

		if !seenImportKeyword {
			switch child.Type() {
			case "relative_import":
				stmt.Level, stmt.Module = relativeImport(child, sourceCode)
			case "dotted_name":
				stmt.Module = compact(child.Content(sourceCode))
			}
			continue
		}

		if child.Type() == "wildcard_import" {
			stmt.Names = append(stmt.Names, "*")
			continue
		}
		if name := importedName(child, sourceCode); name != "" {
			stmt.Names = append(stmt.Names, name)
		}
	}

	if stmt.Level == 0 && stmt.Module == "" {
		return Statement{}, false
	}
	return stmt, true
}

// relativeImport splits `..pkg.mod` into its level and module parts.
func relativeImport(node *sitter.Node, sourceCode []byte) (int, string) {
	level := 0
	module := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "import_prefix":
			level += strings.Count(child.Content(sourceCode), ".")
		case "dotted_name":
			module = compact(child.Content(sourceCode))
		}
	}
	return level, module
}

// importedName returns the original name of an imported item, ignoring any alias.
func importedName(node *sitter.Node, sourceCode []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "dotted_name", "identifier":
		return compact(node.Content(sourceCode))
	case "aliased_import":
		if name := node.ChildByFieldName("name"); name != nil {
			return compact(name.Content(sourceCode))
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "dotted_name" || child.Type() == "identifier" {
				return compact(child.Content(sourceCode))
			}
		}
	}
	return ""
}

// compact removes whitespace and line continuations inside dotted names.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\\' {
			return -1
		}
		return r
	}, s)
}
