package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samialtum/resxgen/internal/cli"
	"github.com/samialtum/resxgen/internal/cli/config"
	"github.com/samialtum/resxgen/pkg/generator"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile     string
	profileName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "resxgen -i <projectDir>",
	Short: "Generates strongly-typed accessor source files from .resx resources.",
	Long: `resxgen walks a project directory tree, finds .resx resource files,
and invokes a converter to produce strongly-typed accessor source files
alongside each resource. Output files are only rewritten when their
generated content actually changed, keeping downstream build steps and
file watchers quiet.

It features:
  - Write-only-if-changed output, friendly to incremental builds.
  - Deterministic file ordering for reproducible runs.
  - Ignore patterns via flags or a .resxgenignore file.
  - A converter protocol that keeps resource parsing out of process.
  - An interactive Terminal UI (TUI) for monitoring progress.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, cmd.Flags())
		if err != nil {
			// config.LoadAndValidate logs the specific error to stderr already.
			return err
		}

		// Give the TUI a moment to initialize before hook events arrive.
		if term.IsTerminal(int(os.Stderr.Fd())) && !opts.Verbose && opts.TuiEnabled {
			time.Sleep(100 * time.Millisecond)
		}

		return cli.Run(ctx, opts, logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	// Cobra prints the error and exits non-zero if RunE returns an error.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers flags for the root command.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is to search ., $HOME/.config/resxgen/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	rootCmd.Flags().StringP("input", "i", "", "Project directory to search for resource files (defaults to the current directory)")
	rootCmd.Flags().StringP("namespace", "n", "", "Namespace to pass to the converter for generated accessors")
	rootCmd.Flags().Bool("internal", false, "Generate accessors with internal instead of public visibility")

	rootCmd.Flags().String("match", generator.DefaultMatchPattern, "Glob pattern resource file names must match")
	rootCmd.Flags().StringArray("ignore", []string{}, "Glob patterns for files/directories to ignore (can be specified multiple times)")
	rootCmd.Flags().String("on-error", string(generator.DefaultOnErrorMode), `Behavior on per-file conversion errors ("continue" or "stop")`)
	rootCmd.Flags().Bool("dry-run", generator.DefaultDryRun, "Report what would change without writing any files")
	rootCmd.Flags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")

	rootCmd.Flags().String("output-format", string(generator.DefaultOutputFormat), `Final report format ("text", "json", "yaml")`)
	rootCmd.Flags().String("output-encoding", generator.DefaultOutputEncoding, `Character encoding for generated files (e.g. "utf-8", "utf-16le")`)
	rootCmd.Flags().Bool("bom", generator.DefaultOutputBOM, "Prefix generated files with a byte order mark")

	rootCmd.Flags().StringArray("converter-cmd", []string{}, "Converter command and arguments (can be specified multiple times, first value is the executable)")
	rootCmd.Flags().String("converter-timeout", generator.DefaultConverterTimeoutString, "Per-file converter timeout duration (e.g. '30s', '2m')")
}
