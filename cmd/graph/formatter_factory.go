package graph

import (
	"fmt"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters/html"
	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters/mermaid"
)

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (formatters.Formatter, error) {
	f, ok := formatters.ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}

	switch f {
	case formatters.OutputFormatHTML:
		return &html.Formatter{}, nil
	case formatters.OutputFormatDOT:
		return &dot.DOTFormatter{}, nil
	case formatters.OutputFormatMermaid:
		return &mermaid.Formatter{}, nil
	case formatters.OutputFormatJSON:
		return &formatters.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}
}
