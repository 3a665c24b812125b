package formatters

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatHTML    OutputFormat = "html"
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatMermaid OutputFormat = "mermaid"
	OutputFormatJSON    OutputFormat = "json"
)

var allFormats = []OutputFormat{
	OutputFormatHTML,
	OutputFormatDOT,
	OutputFormatMermaid,
	OutputFormatJSON,
}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat converts a user-supplied format name to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range allFormats {
		if f == normalized {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats lists the format names for help and error messages.
func SupportedFormats() string {
	names := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
