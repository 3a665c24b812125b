package depgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/visualdep/depgraph/languages/python"
	graphlib "github.com/dominikbraun/graph"
)

// NodeKind classifies a graph node as part of the analyzed tree or not.
type NodeKind string

const (
	NodeInternal NodeKind = "internal"
	NodeExternal NodeKind = "external"
)

const (
	attrKind = "kind"
	attrFile = "file"
)

// Node is a module in the finished graph.
type Node struct {
	ID     string   `json:"id"`
	Kind   NodeKind `json:"kind"`
	File   string   `json:"file,omitempty"`
	Degree int      `json:"degree"`
	IsTest bool     `json:"is_test,omitempty"`
}

// Edge is an unordered module pair, stored with Source <= Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ImportGraph is an undirected module dependency graph. Only modules touching
// at least one edge are nodes; adding an edge that already exists, in either
// direction, has no effect. A module importing itself gets a self-loop.
//
// ImportGraph is not safe for concurrent use; callers merge per-file results
// from a single goroutine.
type ImportGraph struct {
	g     graphlib.Graph[string, string]
	order []string
}

// NewImportGraph returns an empty graph.
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		g: graphlib.New(graphlib.StringHash),
	}
}

// AddImports records module's import targets. A target becomes an edge when it
// is a key of index, or, with includeExternal, under its raw name as an
// external node.
func (ig *ImportGraph) AddImports(module string, targets []string, index ModuleIndex, includeExternal bool) error {
	for _, target := range targets {
		internal := index.Contains(target)
		if !internal && !includeExternal {
			continue
		}
		if err := ig.addNode(module, NodeInternal, index[module]); err != nil {
			return err
		}
		if internal {
			err := ig.addNode(target, NodeInternal, index[target])
			if err != nil {
				return err
			}
		} else if err := ig.addNode(target, NodeExternal, ""); err != nil {
			return err
		}

		err := ig.g.AddEdge(module, target)
		if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add edge %s -- %s: %w", module, target, err)
		}
	}
	return nil
}

func (ig *ImportGraph) addNode(id string, kind NodeKind, file string) error {
	options := []func(*graphlib.VertexProperties){graphlib.VertexAttribute(attrKind, string(kind))}
	if file != "" {
		options = append(options, graphlib.VertexAttribute(attrFile, file))
	}

	err := ig.g.AddVertex(id, options...)
	if errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add node %s: %w", id, err)
	}
	ig.order = append(ig.order, id)
	return nil
}

// Nodes returns every node in order of first appearance, with its degree. A
// self-loop adds two to the degree of its node.
func (ig *ImportGraph) Nodes() ([]Node, error) {
	adjacency, err := ig.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjacency: %w", err)
	}

	nodes := make([]Node, 0, len(ig.order))
	for _, id := range ig.order {
		_, props, err := ig.g.VertexWithProperties(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read node %s: %w", id, err)
		}
		kind := NodeKind(props.Attributes[attrKind])
		nodes = append(nodes, Node{
			ID:     id,
			Kind:   kind,
			File:   props.Attributes[attrFile],
			Degree: degree(adjacency[id], id),
			IsTest: kind == NodeInternal && python.IsTestModule(id),
		})
	}
	return nodes, nil
}

func degree(neighbors map[string]graphlib.Edge[string], id string) int {
	d := len(neighbors)
	if _, loop := neighbors[id]; loop {
		d++
	}
	return d
}

// Edges returns every edge with Source <= Target, sorted.
func (ig *ImportGraph) Edges() ([]Edge, error) {
	raw, err := ig.g.Edges()
	if err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	edges := make([]Edge, 0, len(raw))
	for _, e := range raw {
		source, target := e.Source, e.Target
		if target < source {
			source, target = target, source
		}
		edges = append(edges, Edge{Source: source, Target: target})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges, nil
}

// Order returns the number of nodes.
func (ig *ImportGraph) Order() int {
	return len(ig.order)
}

// Size returns the number of edges, self-loops included.
func (ig *ImportGraph) Size() (int, error) {
	edges, err := ig.g.Edges()
	if err != nil {
		return 0, fmt.Errorf("failed to read edges: %w", err)
	}
	return len(edges), nil
}

// HasEdge reports whether a and b are connected, in either direction.
func (ig *ImportGraph) HasEdge(a, b string) bool {
	_, err := ig.g.Edge(a, b)
	return err == nil
}
