package dot

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/visualdep/depgraph"
)

// DOTFormatter formats import graphs as undirected Graphviz DOT.
type DOTFormatter struct{}

// Format converts the import graph to Graphviz DOT format.
func (f *DOTFormatter) Format(a *depgraph.Analysis, opts formatters.RenderOptions) (string, error) {
	nodes, err := a.Graph.Nodes()
	if err != nil {
		return "", err
	}
	edges, err := a.Graph.Edges()
	if err != nil {
		return "", err
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})

	var sb strings.Builder
	sb.WriteString("graph imports {\n")
	sb.WriteString("  node [shape=box, style=filled, fillcolor=white];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	for _, n := range nodes {
		switch {
		case n.Kind == depgraph.NodeExternal:
			sb.WriteString(fmt.Sprintf("  %q [style=\"filled,dashed\", fillcolor=lightgrey];\n", n.ID))
		case n.IsTest:
			// Test modules are always light green
			sb.WriteString(fmt.Sprintf("  %q [fillcolor=lightgreen];\n", n.ID))
		default:
			sb.WriteString(fmt.Sprintf("  %q;\n", n.ID))
		}
	}
	if len(nodes) > 0 {
		sb.WriteString("\n")
	}

	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("  %q -- %q;\n", e.Source, e.Target))
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *DOTFormatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
