package modules

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph"
	"github.com/LegacyCodeHQ/visualdep/config"
	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/spf13/cobra"
)

type modulesOptions struct {
	ext         string
	gitignore   bool
	skipIgnored bool
}

// Cmd represents the modules command.
var Cmd = NewCommand()

// NewCommand returns a new modules command instance.
func NewCommand() *cobra.Command {
	opts := &modulesOptions{
		ext: config.Default().Extension,
	}

	cmd := &cobra.Command{
		Use:   "modules [directory]",
		Short: "List the module name derived for every source file",
		Long: `List every module identifier derived from the directory layout, with the
file it maps to. Files that resolve to an already used module name are reported
on stderr.

Examples:
  visualdep modules
  visualdep modules ./src --skip-ignored`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runModules(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ext, "ext", opts.ext, "Source file extension to analyze")
	cmd.Flags().BoolVar(&opts.gitignore, "gitignore", false, "Skip files matched by .gitignore")
	cmd.Flags().BoolVar(&opts.skipIgnored, "skip-ignored", false, "Skip tool directories such as .git, __pycache__ and .venv")

	return cmd
}

func runModules(cmd *cobra.Command, dir string, opts *modulesOptions) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extension = opts.ext
	}
	if cmd.Flags().Changed("gitignore") {
		cfg.Gitignore = opts.gitignore
	}
	if cmd.Flags().Changed("skip-ignored") {
		cfg.SkipIgnored = opts.skipIgnored
	}

	root, err := graph.ResolveRoot(dir)
	if err != nil {
		return err
	}

	files, err := depgraph.DiscoverFiles(root.String(), depgraph.DiscoverOptions{
		Extension:        cfg.Extension,
		SkipIgnoredDirs:  cfg.SkipIgnored,
		RespectGitignore: cfg.Gitignore,
	})
	if err != nil {
		return err
	}

	index, collisions := depgraph.BuildModuleIndex(root.String(), files, cfg.Extension)
	for _, c := range collisions {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: module %s is defined by both %s and %s; using %s\n",
			c.Module, relative(root.String(), c.Dropped), relative(root.String(), c.Kept), relative(root.String(), c.Kept))
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, module := range index.Modules() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", module, relative(root.String(), index[module])); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
