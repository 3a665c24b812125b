package graph

import (
	"fmt"
	"path/filepath"
)

// RawPath is a user-provided path from CLI arguments.
type RawPath string

// AbsolutePath is a normalized absolute filesystem path.
type AbsolutePath string

func (p AbsolutePath) String() string {
	return string(p)
}

// PathResolver resolves raw user paths relative to a configured base directory.
type PathResolver struct {
	baseDir AbsolutePath
}

// NewPathResolver returns a resolver for baseDir, defaulting to the working directory.
func NewPathResolver(baseDir string) (PathResolver, error) {
	if baseDir == "" {
		baseDir = "."
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return PathResolver{}, fmt.Errorf("failed to resolve base path: %w", err)
	}

	absBaseDir = resolveSymlinks(absBaseDir)
	return PathResolver{
		baseDir: AbsolutePath(filepath.Clean(absBaseDir)),
	}, nil
}

// Resolve makes path absolute. Symlinks are resolved when the target exists so
// module file paths match what the directory walk reports.
func (r PathResolver) Resolve(path RawPath) (AbsolutePath, error) {
	pathStr := string(path)
	if pathStr == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if filepath.IsAbs(pathStr) {
		return AbsolutePath(resolveSymlinks(filepath.Clean(pathStr))), nil
	}

	absPath := filepath.Clean(filepath.Join(r.baseDir.String(), pathStr))
	return AbsolutePath(resolveSymlinks(absPath)), nil
}

// ResolveRoot resolves the directory argument of a command against the working directory.
func ResolveRoot(dir string) (AbsolutePath, error) {
	if dir == "" {
		dir = "."
	}
	resolver, err := NewPathResolver("")
	if err != nil {
		return "", err
	}
	return resolver.Resolve(RawPath(dir))
}

func resolveSymlinks(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
