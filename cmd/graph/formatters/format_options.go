package formatters

import "github.com/LegacyCodeHQ/visualdep/depgraph"

// RenderOptions contains optional parameters for rendering an analysis.
type RenderOptions struct {
	// Label is an optional title or label for the graph
	Label string
	// Dimensions selects a 2D or 3D layout for graphical formats
	Dimensions int
	// Seed makes the layout reproducible
	Seed int64
	// TopShared is the ranked shared-module list, when requested
	TopShared []depgraph.RankedNode
}
