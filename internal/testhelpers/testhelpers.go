// Package testhelpers holds fixtures shared by the formatter and command tests.
package testhelpers

import (
	"testing"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// DotGoldie returns a goldie instance for DOT output.
func DotGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.dot"))
}

// MermaidGoldie returns a goldie instance for Mermaid output.
func MermaidGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.mmd"))
}

// SampleAnalysis builds a small analysis rooted at /project:
//
//	pkg.a        imports pkg.b and os (external)
//	tests.test_a imports pkg.a
//	pkg.broken   failed to parse
func SampleAnalysis(t *testing.T) *depgraph.Analysis {
	t.Helper()

	index := depgraph.ModuleIndex{
		"pkg.a":        "/project/pkg/a.py",
		"pkg.b":        "/project/pkg/b.py",
		"tests.test_a": "/project/tests/test_a.py",
	}
	g := depgraph.NewImportGraph()
	require.NoError(t, g.AddImports("pkg.a", []string{"os", "pkg.b"}, index, true))
	require.NoError(t, g.AddImports("pkg.b", nil, index, true))
	require.NoError(t, g.AddImports("tests.test_a", []string{"pkg.a"}, index, true))

	return &depgraph.Analysis{
		Root:            "/project",
		FilesDiscovered: 4,
		Modules:         index,
		Graph:           g,
		Warnings: []depgraph.Warning{
			{Path: "/project/pkg/broken.py", Message: "invalid syntax at line 1, column 5: unexpected token"},
		},
	}
}
