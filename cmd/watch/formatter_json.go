package watch

import (
	"encoding/json"
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/LegacyCodeHQ/visualdep/layout"
)

type snapshotFormatter struct {
	dim  int
	seed int64
	top  int
}

// Format converts an analysis to the JSON snapshot streamed to the viewer.
func (f snapshotFormatter) Format(a *depgraph.Analysis, id int64, now time.Time) (string, error) {
	nodes, err := a.Graph.Nodes()
	if err != nil {
		return "", err
	}
	edges, err := a.Graph.Edges()
	if err != nil {
		return "", err
	}
	top, err := depgraph.TopShared(a.Graph, f.top)
	if err != nil {
		return "", err
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	pairs := make([][2]string, len(edges))
	for i, e := range edges {
		pairs[i] = [2]string{e.Source, e.Target}
	}
	positions, err := layout.Spring(ids, pairs, f.dim, f.seed)
	if err != nil {
		return "", err
	}

	snapshot := graphSnapshot{
		ID:         id,
		Timestamp:  now,
		Root:       a.Root,
		Dimensions: f.dim,
		Nodes:      make([]snapshotNode, 0, len(nodes)),
		Edges:      edges,
		TopShared:  top,
		Warnings:   a.Warnings,
	}
	for _, n := range nodes {
		snapshot.Nodes = append(snapshot.Nodes, snapshotNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Degree:   n.Degree,
			IsTest:   n.IsTest,
			Position: positions[n.ID],
		})
	}
	if snapshot.Warnings == nil {
		snapshot.Warnings = []depgraph.Warning{}
	}

	jsonBytes, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}
