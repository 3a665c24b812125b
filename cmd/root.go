package cmd

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph"
	"github.com/LegacyCodeHQ/visualdep/cmd/modules"
	"github.com/LegacyCodeHQ/visualdep/cmd/watch"

	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// devCommands is set via build-time ldflags; development builds log at debug level.
var devCommands = "false"

// verbose enables debug logging on stderr
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "visualdep",
	Short: "Visualize Python import relationships as a graph",
	Long: `visualdep analyzes a tree of Python source files, derives module names from
the directory layout, resolves every import and renders the resulting
module dependency graph.

Use 'visualdep --help' to see all available commands, or 'visualdep <command> --help'
for detailed information about a specific command.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd, verbose || isDevelopmentBuild(devCommands))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(graph.Cmd)
	rootCmd.AddCommand(watch.Cmd)
	rootCmd.AddCommand(modules.Cmd)

	// Initialize annotations for version template
	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit

	// Update version field dynamically (in case it was set via ldflags)
	rootCmd.Version = version

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log analysis diagnostics to stderr")
}

func isDevelopmentBuild(flag string) bool {
	enabled, err := strconv.ParseBool(flag)
	return err == nil && enabled
}

// configureLogging routes slog debug records to stderr when enabled. Otherwise
// only warnings and errors are logged.
func configureLogging(cmd *cobra.Command, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
