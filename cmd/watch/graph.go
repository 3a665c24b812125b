package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
)

// graphBuilder re-runs the analysis of one root. Parsed statements are kept in
// an LRU cache so a rebuild only parses files whose content changed.
type graphBuilder struct {
	root      string
	opts      *watchOptions
	cache     *depgraph.ImportCache
	formatter snapshotFormatter
	nextID    atomic.Int64
	now       func() time.Time
}

func newGraphBuilder(root string, opts *watchOptions) (*graphBuilder, error) {
	cache, err := depgraph.NewImportCache(opts.cacheSize)
	if err != nil {
		return nil, err
	}
	return &graphBuilder{
		root:      root,
		opts:      opts,
		cache:     cache,
		formatter: snapshotFormatter{dim: opts.dim, seed: opts.seed, top: opts.top},
		now:       time.Now,
	}, nil
}

// build analyzes the root and returns the JSON snapshot with its warnings.
func (g *graphBuilder) build(ctx context.Context) (string, []depgraph.Warning, error) {
	analysis, err := depgraph.Analyze(ctx, depgraph.Options{
		Root:             g.root,
		Extension:        g.opts.ext,
		IncludeExternal:  g.opts.includeExternal,
		SkipIgnoredDirs:  g.opts.skipIgnored,
		RespectGitignore: g.opts.gitignore,
		Cache:            g.cache,
		Logger:           slog.Default(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to analyze %s: %w", g.root, err)
	}

	snapshot, err := g.formatter.Format(analysis, g.nextID.Add(1), g.now())
	if err != nil {
		return "", nil, fmt.Errorf("failed to format graph: %w", err)
	}
	return snapshot, analysis.Warnings, nil
}
