package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
)

// JSONFormatter formats an analysis as JSON.
type JSONFormatter struct{}

type jsonDocument struct {
	Root       string                `json:"root"`
	Modules    depgraph.ModuleIndex  `json:"modules"`
	Nodes      []depgraph.Node       `json:"nodes"`
	Edges      []depgraph.Edge       `json:"edges"`
	TopShared  []depgraph.RankedNode `json:"top_shared,omitempty"`
	Warnings   []depgraph.Warning    `json:"warnings,omitempty"`
	Collisions []depgraph.Collision  `json:"collisions,omitempty"`
}

// Format converts the analysis to JSON: the module mapping, tagged nodes, edges,
// warnings and, when present in opts, the shared-module ranking.
func (f *JSONFormatter) Format(a *depgraph.Analysis, opts RenderOptions) (string, error) {
	nodes, err := a.Graph.Nodes()
	if err != nil {
		return "", err
	}
	edges, err := a.Graph.Edges()
	if err != nil {
		return "", err
	}

	doc := jsonDocument{
		Root:       a.Root,
		Modules:    a.Modules,
		Nodes:      nodes,
		Edges:      edges,
		TopShared:  opts.TopShared,
		Warnings:   a.Warnings,
		Collisions: a.Collisions,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateURL returns false as JSON format does not support URL generation.
func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
