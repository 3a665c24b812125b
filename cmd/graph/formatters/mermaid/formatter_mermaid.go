package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/visualdep/depgraph"
)

// Formatter formats import graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the import graph to Mermaid.js flowchart format.
func (f *Formatter) Format(a *depgraph.Analysis, opts formatters.RenderOptions) (string, error) {
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

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't have dots or special characters.
	nodeIDs := make(map[string]string, len(nodes))
	var externalNodes, testNodes []string
	for i, n := range nodes {
		nodeID := fmt.Sprintf("n%d", i)
		nodeIDs[n.ID] = nodeID

		label := strings.ReplaceAll(n.ID, "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID, label))

		if n.Kind == depgraph.NodeExternal {
			externalNodes = append(externalNodes, nodeID)
		} else if n.IsTest {
			testNodes = append(testNodes, nodeID)
		}
	}

	if len(edges) > 0 {
		sb.WriteString("\n")
		for _, e := range edges {
			sb.WriteString(fmt.Sprintf("    %s --- %s\n", nodeIDs[e.Source], nodeIDs[e.Target]))
		}
	}

	if len(externalNodes) > 0 || len(testNodes) > 0 {
		sb.WriteString("\n")
		if len(externalNodes) > 0 {
			sb.WriteString("    classDef external fill:#D3D3D3,stroke:#999999,color:#000000,stroke-dasharray: 5 5\n")
		}
		if len(testNodes) > 0 {
			sb.WriteString("    classDef testFile fill:#90EE90,stroke:#228B22,color:#000000\n")
		}
		if len(externalNodes) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s external\n", strings.Join(externalNodes, ",")))
		}
		if len(testNodes) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s testFile\n", strings.Join(testNodes, ",")))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		// Fallback: just return the code URL-encoded
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
