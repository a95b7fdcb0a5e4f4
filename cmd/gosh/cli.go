package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type shellFlags struct {
	verbose    bool
	noPrompt   bool
	configPath string
}

func rootCmd() *cobra.Command {
	flags := &shellFlags{}

	c := &cobra.Command{
		Use:          "gosh",
		Short:        "Interactive shell with POSIX-style job control",
		Example:      "gosh -v",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(flags)
		},
	}

	c.CompletionOptions.HiddenDefaultCmd = true

	c.Flags().BoolVarP(
		&flags.verbose,
		"verbose",
		"v",
		false,
		"Emit additional diagnostic output",
	)

	c.Flags().BoolVarP(
		&flags.noPrompt,
		"no-prompt",
		"p",
		false,
		"Do not emit a command prompt (for scripted input)",
	)

	c.Flags().StringVar(
		&flags.configPath,
		"config",
		"",
		"Path to rc file (default ~/.goshrc.yaml)",
	)

	return c
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelDebug},
	))
}
