package depgraph

import "fmt"

// FatalIOError reports that the analysis root could not be read.
// Nothing is analyzed when it occurs.
type FatalIOError struct {
	Root string
	Err  error
}

func (e *FatalIOError) Error() string {
	return fmt.Sprintf("cannot read root directory %s: %v", e.Root, e.Err)
}

func (e *FatalIOError) Unwrap() error {
	return e.Err
}

// Warning is a recoverable per-file problem, such as a file that failed to parse.
// The file contributes no imports; the rest of the run is unaffected.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("could not parse %s: %s", w.Path, w.Message)
}
