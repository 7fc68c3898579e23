package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srg/bconnect/internal/rename"
	"github.com/srg/bconnect/pkg/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "strip-post-ext -e EXT [FILE]...",
	Short: "Truncate file names after an extension",
	Long: `Renames each FILE to everything up to and including the first occurrence
of EXT, dropping whatever follows it.

Examples:
  # "clip.mkv?token=abc" -> "clip.mkv"
  strip-post-ext -e .mkv clip.mkv?token=abc

  # Show what would be renamed
  strip-post-ext -e .mkv -n *.mkv*

Files without EXT, or already ending in it, are left alone.`,
	RunE:    runStrip,
	Version: version,
}

var (
	ext    string
	dryRun bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ext, "ext", "e", "", `Extension, e.g. ".mkv"`)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print proposed renames without renaming")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("ext")
}

func runStrip(cmd *cobra.Command, args []string) error {
	if ext == "" {
		return fmt.Errorf("--ext must not be empty")
	}

	cfg := config.DefaultConfig()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		level, err := config.ParseLogLevel(lvl)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	logger := cfg.NewLoggerTo(cmd.ErrOrStderr())

	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintln(out, "Please supply at least one file to rename.")
		return nil
	}

	plans := rename.Plan(args, ext)
	logger.WithField("proposed", len(plans)).Debug("Planned renames")

	applier := &rename.Applier{DryRun: dryRun, Out: out, Logger: logger}
	if failed := applier.Apply(plans); failed > 0 {
		logger.WithField("failed", failed).Warn("Some renames failed")
	}
	return nil
}
