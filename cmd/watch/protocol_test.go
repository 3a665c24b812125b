package watch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolConstants_AreStable(t *testing.T) {
	assert.Equal(t, "/", routeIndex)
	assert.Equal(t, "/events", routeEvents)
	assert.Equal(t, "graph", sseEventGraph)
}

func TestGraphSnapshot_JSONContract(t *testing.T) {
	ts := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	snapshot := graphSnapshot{
		ID:         1,
		Timestamp:  ts,
		Root:       "/project",
		Dimensions: 2,
		Nodes: []snapshotNode{
			{ID: "pkg.a", Kind: depgraph.NodeInternal, Degree: 1, Position: []float64{0.5, -0.5}},
		},
		Edges:     []depgraph.Edge{{Source: "pkg.a", Target: "pkg.b"}},
		TopShared: []depgraph.RankedNode{{Module: "pkg.a", Degree: 1}},
		Warnings:  []depgraph.Warning{},
	}

	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"id", "timestamp", "root", "dimensions", "nodes", "edges", "topShared", "warnings"} {
		assert.Contains(t, doc, key)
	}

	nodes, ok := doc["nodes"].([]any)
	require.True(t, ok)
	require.Len(t, nodes, 1)

	first, ok := nodes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pkg.a", first["id"])
	assert.Equal(t, "internal", first["kind"])
	assert.Equal(t, []any{0.5, -0.5}, first["position"])
	assert.NotContains(t, first, "isTest")

	edges, ok := doc["edges"].([]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"source": "pkg.a", "target": "pkg.b"}, edges[0])
}
