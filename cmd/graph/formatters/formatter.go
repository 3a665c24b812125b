package formatters

import "github.com/LegacyCodeHQ/visualdep/depgraph"

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts an analysis to a formatted string representation.
	Format(a *depgraph.Analysis, opts RenderOptions) (string, error)
	// GenerateURL returns a shareable visualization URL for output, if the format supports one.
	GenerateURL(output string) (string, bool)
}
