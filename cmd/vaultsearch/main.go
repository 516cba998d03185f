package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/kk-code-lab/vaultsearch/internal/app"
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
	// ProgramName is injected at build time
	ProgramName = "vaultsearch"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := Execute(ctx, Version, ProgramName, args[1:], app.DefaultRunParams()); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(ctx context.Context, version, programName string, args []string, params app.RunParams) error {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Search a notes vault",
		Long:         "Fuzzy path search, content search and random suggestions over a directory of notes.",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	app.RegisterFlags(rootCmd.PersistentFlags())

	run := func(cmd *cobra.Command, req app.Request) error {
		return app.RunWithDeps(ctx, params, cmd.Flags(), req)
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "paths [QUERY...]",
			Short: "Fuzzy match file names and paths",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, app.Request{Command: app.CommandPaths, Query: strings.Join(args, " ")})
			},
		},
		&cobra.Command{
			Use:   "content QUERY...",
			Short: "Match words in file names and note content",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, app.Request{Command: app.CommandContent, Query: strings.Join(args, " ")})
			},
		},
		&cobra.Command{
			Use:   "sample N",
			Short: "Pick N files at random",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("sample size %q is not a number", args[0])
				}
				return run(cmd, app.Request{Command: app.CommandSample, Count: n})
			},
		},
		&cobra.Command{
			Use:   "view QUERY...",
			Short: "Run a content search and report hits after the settle delay",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, app.Request{Command: app.CommandView, Query: strings.Join(args, " ")})
			},
		},
	)

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
