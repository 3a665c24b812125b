package graph

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/visualdep/config"
	"github.com/LegacyCodeHQ/visualdep/depgraph"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	outputFile      string
	format          string
	dim             int
	seed            int64
	includeExternal bool
	showShared      bool
	top             int
	ext             string
	workers         int
	gitignore       bool
	skipIgnored     bool
	copyToClipboard bool
	generateURL     bool
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	defaults := config.Default()
	opts := &graphOptions{
		format: defaults.Format,
		dim:    defaults.Dim,
		seed:   defaults.Seed,
		top:    defaults.Top,
		ext:    defaults.Extension,
	}

	cmd := &cobra.Command{
		Use:   "graph [directory]",
		Short: "Visualize Python import relationships as a graph.",
		Long: `Analyze every Python file under a directory and render the module import graph.

Modules are named from the directory layout, imports are resolved (including
relative imports) and modules that import each other are connected.

Examples:
  visualdep graph                              # current directory, interactive 3D HTML on stdout
  visualdep graph ./src -o graph.html --dim 2  # 2D HTML saved to a file
  visualdep graph -f dot -u                    # GraphvizOnline URL
  visualdep graph --include-external --show-shared --top 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runGraph(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Write the graph to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().IntVar(&opts.dim, "dim", opts.dim, "Dimension of the HTML graph (2 or 3)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "Seed for layout reproducibility")
	cmd.Flags().BoolVar(&opts.includeExternal, "include-external", false, "Include external dependencies in the graph")
	cmd.Flags().BoolVar(&opts.showShared, "show-shared", false, "Print the top shared modules (by number of connections)")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "Number of shared modules printed by --show-shared")
	cmd.Flags().StringVar(&opts.ext, "ext", opts.ext, "Source file extension to analyze")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of files parsed in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.gitignore, "gitignore", false, "Skip files matched by .gitignore")
	cmd.Flags().BoolVar(&opts.skipIgnored, "skip-ignored", false, "Skip tool directories such as .git, __pycache__ and .venv")
	cmd.Flags().BoolVarP(&opts.copyToClipboard, "clipboard", "b", false, "Automatically copy output to clipboard")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")

	return cmd
}

func runGraph(cmd *cobra.Command, dir string, opts *graphOptions) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := NewFormatter(cfg.Format)
	if err != nil {
		return err
	}

	root, err := ResolveRoot(dir)
	if err != nil {
		return err
	}

	analysis, err := depgraph.Analyze(cmd.Context(), depgraph.Options{
		Root:             root.String(),
		Extension:        cfg.Extension,
		IncludeExternal:  cfg.IncludeExternal,
		Workers:          cfg.Workers,
		SkipIgnoredDirs:  cfg.SkipIgnored,
		RespectGitignore: cfg.Gitignore,
		Logger:           slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", dir, err)
	}

	PrintWarnings(cmd.ErrOrStderr(), analysis.Warnings)

	out := cmd.OutOrStdout()
	if analysis.Empty() {
		fmt.Fprintln(out, "No imports found in the provided directory.")
		return nil
	}

	renderOpts := formatters.RenderOptions{
		Label:      label(dir, cfg.Format, analysis),
		Dimensions: cfg.Dim,
		Seed:       cfg.Seed,
	}
	var shared []depgraph.RankedNode
	if opts.showShared {
		shared, err = depgraph.TopShared(analysis.Graph, cfg.Top)
		if err != nil {
			return fmt.Errorf("failed to rank shared modules: %w", err)
		}
		renderOpts.TopShared = shared
	}

	output, err := formatter.Format(analysis, renderOpts)
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	// Once the graph itself is on stdout, everything else goes to stderr.
	report := out
	switch {
	case opts.outputFile != "":
		if err := os.WriteFile(opts.outputFile, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.outputFile, err)
		}
		fmt.Fprintf(out, "Graph saved to %s\n", opts.outputFile)
	case opts.generateURL:
		if urlStr, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(out, urlStr)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", cfg.Format)
			fmt.Fprintln(out, output)
			report = cmd.ErrOrStderr()
		}
	default:
		fmt.Fprintln(out, output)
		report = cmd.ErrOrStderr()
	}

	if opts.copyToClipboard {
		if err := clipboard.WriteAll(output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(report, "\n✅ Content copied to your clipboard.")
	}

	if opts.showShared {
		PrintShared(report, shared)
	}
	return nil
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, opts *graphOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("dim") {
		cfg.Dim = opts.dim
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("include-external") {
		cfg.IncludeExternal = opts.includeExternal
	}
	if flags.Changed("top") {
		cfg.Top = opts.top
	}
	if flags.Changed("ext") {
		cfg.Extension = opts.ext
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("gitignore") {
		cfg.Gitignore = opts.gitignore
	}
	if flags.Changed("skip-ignored") {
		cfg.SkipIgnored = opts.skipIgnored
	}
}

// label is the graph title: the directory as given for HTML, otherwise the
// project name with its module count.
func label(dir, format string, analysis *depgraph.Analysis) string {
	f, _ := formatters.ParseOutputFormat(format)
	switch f {
	case formatters.OutputFormatHTML:
		return dir
	case formatters.OutputFormatJSON:
		return ""
	}

	count := len(analysis.Modules)
	noun := "modules"
	if count == 1 {
		noun = "module"
	}
	return fmt.Sprintf("%s • %d %s", filepath.Base(analysis.Root), count, noun)
}

// PrintWarnings reports files that could not be read or parsed.
func PrintWarnings(w io.Writer, warnings []depgraph.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// PrintShared prints the shared-module ranking.
func PrintShared(w io.Writer, ranked []depgraph.RankedNode) {
	fmt.Fprintln(w, "Top shared modules/packages (by number of connections):")
	for _, r := range ranked {
		fmt.Fprintf(w, "%s: %d connections\n", r.Module, r.Degree)
	}
}
