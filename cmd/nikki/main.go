// Package main provides the entry point for the nikki CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/config"
	"github.com/gorewood/nikki/internal/envfile"
	"github.com/gorewood/nikki/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	err := fang.Execute(ctx, cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the nikki CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nikki",
		Short: "Weekly reports from a Notion diary export",
		Long: `nikki turns a Notion diary export into weekly Markdown reports.

It walks the export for dated pages and pulls out:
  - ✨ ひらめき blocks          -> ideas.md
  - 🧪 習慣ログ 【食事】 blocks -> meals.md
  - each day's text, with optional Toggl hours -> bundle.md

Weeks run Saturday to Friday in the configured time zone (default Asia/Tokyo).
All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'nikki --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over env file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("config", "", "Config file (overrides the global and ./.nikki.yaml files)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostic details to stderr")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always or never")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; variables already set in the environment always win.
//
// Resolution order:
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. <config dir>/env
func loadEnvFiles() {
	_ = envfile.LoadDefaults(config.Dir())
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "report", Title: "Report Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "data", Title: "Data Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Automation Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newExtractCmd(), "report")
	addGroupedCommand(cmd, newIdeasCmd(), "report")
	addGroupedCommand(cmd, newMealsCmd(), "report")
	addGroupedCommand(cmd, newBundleCmd(), "report")
	addGroupedCommand(cmd, newWeeklyCmd(), "report")

	addGroupedCommand(cmd, newTimelogCmd(), "data")

	addGroupedCommand(cmd, newWatchCmd(), "agent")
	addGroupedCommand(cmd, newServeCmd(), "agent")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
