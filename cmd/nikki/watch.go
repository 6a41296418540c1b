package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/nikki/internal/output"
	"github.com/gorewood/nikki/internal/watch"
)

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	var flags weeklyFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the weekly reports whenever the export changes",
		Long: `Run weekly once, then again after every burst of changes to .md or .csv
files under the export and the Toggl directory. Stop with Ctrl-C.

Failed runs are reported and watching continues.

Examples:
  nikki watch --src export --out-dir reports
  nikki watch --toggl-dir ~/Downloads --debounce 2s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, &flags, debounce)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a rerun")

	return cmd
}

func runWatch(cmd *cobra.Command, flags *weeklyFlags, debounce time.Duration) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if flags.outDir != "" {
		s.cfg.OutDir = flags.outDir
	}

	src := flags.in.src
	if src == "" {
		src = s.cfg.Source
	}
	roots := []string{watchRoot(src)}
	if !flags.toggl.none {
		switch {
		case flags.toggl.csv != "":
			roots = append(roots, filepath.Dir(flags.toggl.csv))
		case flags.toggl.dir != "":
			roots = append(roots, flags.toggl.dir)
		case s.cfg.Toggl.CSV != "":
			roots = append(roots, filepath.Dir(s.cfg.Toggl.CSV))
		case s.cfg.Toggl.Dir != "":
			roots = append(roots, s.cfg.Toggl.Dir)
		}
	}

	targets, err := weeklyTargets(s, flags.reports)
	if err != nil {
		return s.fail(output.NewUserErrorWithCause(err.Error(), err))
	}
	var ignore []string
	for _, t := range targets {
		ignore = append(ignore, t.path)
	}

	batch := func(context.Context) error {
		s.now = time.Now()
		return runWeekly(cmd, s, flags)
	}
	// The first run reports its errors but does not stop the watch.
	_ = batch(cmd.Context())

	s.printer.Stderr("watching %s\n", src)
	err = watch.Watch(cmd.Context(), watch.Options{
		Roots:    roots,
		Ignore:   ignore,
		Debounce: debounce,
		Logger:   s.logger,
	}, batch)
	if err != nil {
		return s.fail(err)
	}
	return nil
}

// watchRoot returns the directory to watch for src, which may be a file.
func watchRoot(src string) string {
	if info, err := os.Stat(src); err == nil && !info.IsDir() {
		return filepath.Dir(src)
	}
	return src
}
