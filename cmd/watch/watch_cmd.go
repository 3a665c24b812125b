package watch

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph"
	"github.com/LegacyCodeHQ/visualdep/config"
	"github.com/LegacyCodeHQ/visualdep/depgraph"

	"github.com/spf13/cobra"
)

type watchOptions struct {
	port            int
	ext             string
	includeExternal bool
	dim             int
	seed            int64
	top             int
	gitignore       bool
	skipIgnored     bool
	cacheSize       int
}

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	defaults := config.Default()
	opts := &watchOptions{
		port:        4900,
		ext:         defaults.Extension,
		dim:         defaults.Dim,
		seed:        defaults.Seed,
		top:         defaults.Top,
		skipIgnored: true,
		cacheSize:   depgraph.DefaultImportCacheSize,
	}

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch for file changes and serve a live import graph",
		Long:  `Watch a directory for Python file changes, rebuild the import graph, and serve a live-updating visualization at localhost.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runWatch(cmd, dir, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")
	cmd.Flags().StringVar(&opts.ext, "ext", opts.ext, "Source file extension to analyze")
	cmd.Flags().BoolVar(&opts.includeExternal, "include-external", false, "Include external dependencies in the graph")
	cmd.Flags().IntVar(&opts.dim, "dim", opts.dim, "Dimension of the graph (2 or 3)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "Seed for layout reproducibility")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "Number of shared modules listed in the viewer")
	cmd.Flags().BoolVar(&opts.gitignore, "gitignore", false, "Skip files matched by .gitignore")
	cmd.Flags().BoolVar(&opts.skipIgnored, "skip-ignored", opts.skipIgnored, "Skip tool directories such as .git, __pycache__ and .venv")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", opts.cacheSize, "Number of parsed files kept between rebuilds")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts *watchOptions) error {
	if err := loadConfig(cmd, dir, opts); err != nil {
		return err
	}

	root, err := graph.ResolveRoot(dir)
	if err != nil {
		return err
	}

	builder, err := newGraphBuilder(root.String(), opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	snapshot, warnings, err := builder.build(ctx)
	if err != nil {
		return fmt.Errorf("initial graph build failed: %w", err)
	}
	graph.PrintWarnings(cmd.ErrOrStderr(), warnings)

	b := newBroker()
	b.publish(snapshot)

	srv := newServer(b, opts.port)
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}
	go srv.Serve(ln)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = watchAndRebuild(ctx, root.String(), opts.ext, builder, b, cmd.ErrOrStderr())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	return err
}

// loadConfig fills options the user did not set on the command line from the
// project configuration.
func loadConfig(cmd *cobra.Command, dir string, opts *watchOptions) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("ext") {
		opts.ext = cfg.Extension
	}
	if !flags.Changed("include-external") {
		opts.includeExternal = cfg.IncludeExternal
	}
	if !flags.Changed("dim") {
		opts.dim = cfg.Dim
	}
	if !flags.Changed("seed") {
		opts.seed = cfg.Seed
	}
	if !flags.Changed("top") {
		opts.top = cfg.Top
	}
	if !flags.Changed("gitignore") {
		opts.gitignore = cfg.Gitignore
	}
	if !flags.Changed("skip-ignored") && cfg.SkipIgnored {
		opts.skipIgnored = true
	}

	return config.Config{Dim: opts.dim, Top: opts.top}.Validate()
}
