package watch

import (
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
)

const (
	routeIndex  = "/"
	routeEvents = "/events"
)

const sseEventGraph = "graph"

// graphSnapshot is one rebuilt graph as streamed to the viewer.
type graphSnapshot struct {
	ID         int64                 `json:"id"`
	Timestamp  time.Time             `json:"timestamp"`
	Root       string                `json:"root"`
	Dimensions int                   `json:"dimensions"`
	Nodes      []snapshotNode        `json:"nodes"`
	Edges      []depgraph.Edge       `json:"edges"`
	TopShared  []depgraph.RankedNode `json:"topShared"`
	Warnings   []depgraph.Warning    `json:"warnings"`
}

// snapshotNode is a graph node with its laid-out position.
type snapshotNode struct {
	ID       string            `json:"id"`
	Kind     depgraph.NodeKind `json:"kind"`
	Degree   int               `json:"degree"`
	IsTest   bool              `json:"isTest,omitempty"`
	Position []float64         `json:"position"`
}
