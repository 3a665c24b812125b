package depgraph

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExtension is the source-file extension analyzed when none is configured.
const DefaultExtension = ".py"

// SkippedDirs are tool and environment directories skipped when DiscoverOptions.SkipIgnoredDirs is set.
var SkippedDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	".nox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	"node_modules":  true,
	".eggs":         true,
}

// DiscoverOptions controls which files DiscoverFiles yields.
type DiscoverOptions struct {
	// Extension filters file names by suffix. Defaults to DefaultExtension.
	Extension string
	// SkipIgnoredDirs prunes the directories listed in SkippedDirs.
	SkipIgnoredDirs bool
	// RespectGitignore prunes paths matched by .gitignore files found under the root.
	RespectGitignore bool
}

// DiscoverFiles walks root recursively and returns the absolute path of every
// file whose name ends with the configured extension, in lexical walk order.
// Any read failure, including on the root itself, is returned as a *FatalIOError.
func DiscoverFiles(root string, opts DiscoverOptions) ([]string, error) {
	ext := NormalizeExtension(opts.Extension)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &FatalIOError{Root: root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &FatalIOError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FatalIOError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	var ignores *gitIgnoreCache
	if opts.RespectGitignore {
		ignores = newGitIgnoreCache(absRoot)
	}

	var files []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if opts.SkipIgnoredDirs && SkippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			if ignores != nil {
				if ignores.shouldIgnore(path) {
					return filepath.SkipDir
				}
				ignores.tryLoad(path)
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		if ignores != nil && ignores.shouldIgnore(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, &FatalIOError{Root: root, Err: walkErr}
	}

	return files, nil
}

// NormalizeExtension returns ext with a leading dot, or DefaultExtension when empty.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// gitIgnoreCache holds the compiled .gitignore of every visited directory that has one.
type gitIgnoreCache struct {
	root  string
	cache map[string]*ignore.GitIgnore
}

func newGitIgnoreCache(root string) *gitIgnoreCache {
	c := &gitIgnoreCache{
		root:  root,
		cache: make(map[string]*ignore.GitIgnore),
	}
	c.tryLoad(root)
	return c
}

func (c *gitIgnoreCache) tryLoad(dir string) {
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
		c.cache[dir] = gi
	}
}

// shouldIgnore checks absPath against every .gitignore between its parent and the root.
func (c *gitIgnoreCache) shouldIgnore(absPath string) bool {
	if len(c.cache) == 0 {
		return false
	}

	dir := filepath.Dir(absPath)
	for {
		if gi, ok := c.cache[dir]; ok {
			rel, err := filepath.Rel(dir, absPath)
			if err == nil && gi.MatchesPath(filepath.ToSlash(rel)) {
				return true
			}
		}

		if dir == c.root {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
