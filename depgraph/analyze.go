package depgraph

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/LegacyCodeHQ/visualdep/depgraph/languages/python"
	"github.com/LegacyCodeHQ/visualdep/vcs"
	"golang.org/x/sync/errgroup"
)

// Options configures one analysis run.
type Options struct {
	// Root is the directory to analyze.
	Root string
	// Extension selects source files. Defaults to DefaultExtension.
	Extension string
	// IncludeExternal adds imports of modules outside the tree as external nodes.
	IncludeExternal bool
	// Workers bounds parallel extraction. Defaults to GOMAXPROCS.
	Workers int
	// SkipIgnoredDirs prunes tool directories such as .git and __pycache__.
	SkipIgnoredDirs bool
	// RespectGitignore prunes paths matched by .gitignore files.
	RespectGitignore bool
	// ContentReader reads discovered files. Defaults to the filesystem.
	ContentReader vcs.ContentReader
	// Cache, when set, reuses parsed statements of unchanged files across runs.
	Cache *ImportCache
	// Logger receives debug diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Analysis is the immutable result of a run.
type Analysis struct {
	Root            string
	FilesDiscovered int
	Modules         ModuleIndex
	Graph           *ImportGraph
	Warnings        []Warning
	Collisions      []Collision
}

// Empty reports whether no relationships were found. It is a valid outcome, not a failure.
func (a *Analysis) Empty() bool {
	return a == nil || a.Graph == nil || a.Graph.Order() == 0
}

type fileImports struct {
	targets []string
	dropped int
	warning *Warning
}

// Analyze discovers the files under opts.Root, names their modules, extracts
// their imports in parallel and merges them into an ImportGraph.
//
// A root that cannot be read aborts the run with a *FatalIOError. Files that
// cannot be read or parsed become Warnings and contribute no imports.
func Analyze(ctx context.Context, opts Options) (*Analysis, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reader := opts.ContentReader
	if reader == nil {
		reader = vcs.FilesystemContentReader()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ext := NormalizeExtension(opts.Extension)

	files, err := DiscoverFiles(opts.Root, DiscoverOptions{
		Extension:        ext,
		SkipIgnoredDirs:  opts.SkipIgnoredDirs,
		RespectGitignore: opts.RespectGitignore,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered source files", "root", opts.Root, "count", len(files))

	index, collisions := BuildModuleIndex(opts.Root, files, ext)
	for _, c := range collisions {
		logger.Debug("module name collision", "module", c.Module, "kept", c.Kept, "dropped", c.Dropped)
	}

	modules := index.Modules()
	results := make([]fileImports, len(modules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, module := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = extractFileImports(module, index[module], reader, opts.Cache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	graph := NewImportGraph()
	var warnings []Warning
	for i, module := range modules {
		result := results[i]
		if result.warning != nil {
			warnings = append(warnings, *result.warning)
			continue
		}
		if result.dropped > 0 {
			logger.Debug("dropped relative imports above the package root", "module", module, "count", result.dropped)
		}
		if err := graph.AddImports(module, result.targets, index, opts.IncludeExternal); err != nil {
			return nil, fmt.Errorf("failed to build graph for %s: %w", module, err)
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Path < warnings[j].Path
	})

	return &Analysis{
		Root:            opts.Root,
		FilesDiscovered: len(files),
		Modules:         index,
		Graph:           graph,
		Warnings:        warnings,
		Collisions:      collisions,
	}, nil
}

func extractFileImports(module, filePath string, reader vcs.ContentReader, cache *ImportCache) fileImports {
	content, err := reader(filePath)
	if err != nil {
		return fileImports{warning: &Warning{Path: filePath, Message: err.Error()}}
	}

	statements, err := cache.Statements(filePath, content)
	if err != nil {
		return fileImports{warning: &Warning{Path: filePath, Message: err.Error()}}
	}

	targets, dropped := python.ExtractImports(module, statements)
	return fileImports{targets: targets, dropped: dropped}
}
