package diary

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gorewood/nikki/internal/logging"
	"github.com/gorewood/nikki/internal/notionmd"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Walk reads every .md file under root and returns one entry per date,
// ascending. Root may also be a single .md file.
//
// Undated and unreadable files become warnings. A missing root, a root with
// no .md files, or a root where no file carries a date is fatal.
func Walk(root string, logger *zap.Logger) (*WalkResult, error) {
	logger = logging.OrNop(logger)

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, root)
		}
		return nil, fmt.Errorf("stat source %s: %w", root, err)
	}

	w := &walker{root: root, logger: logger}
	if !info.IsDir() {
		if !isMarkdown(root) {
			return nil, fmt.Errorf("%w: %s is not a .md file", ErrNoDocuments, root)
		}
		w.visit(root)
	} else if err := filepath.WalkDir(root, w.walkFunc); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	if w.result.Stats.Files == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoDocuments, root)
	}
	if len(w.dated) == 0 {
		return nil, fmt.Errorf("%w: none of %d files under %s has a date", ErrNoDatedEntries, w.result.Stats.Files, root)
	}

	w.dedup()
	return &w.result, nil
}

type walker struct {
	root   string
	logger *zap.Logger
	dated  []*Entry
	result WalkResult
}

func (w *walker) walkFunc(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return err
		}
		w.warn("skipping %s: %v", path, err)
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() || !isMarkdown(d.Name()) {
		return nil
	}
	w.visit(path)
	return nil
}

// visit reads one markdown file and records it if a date can be inferred.
func (w *walker) visit(path string) {
	w.result.Stats.Files++

	info, err := os.Stat(path)
	if err != nil {
		w.skip("skipping %s: %v", path, err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.skip("skipping %s: %v", path, err)
		return
	}
	text := string(bytes.TrimPrefix(data, utf8BOM))

	var source notionmd.DateSource
	date, ok := notionmd.FilenameDate(filepath.Base(path))
	if ok {
		source = notionmd.DateFromFilename
	} else {
		date, source, ok = notionmd.DocumentDate(notionmd.SplitLines(text))
	}
	if !ok {
		w.skip("no date in %s", path)
		return
	}

	entry := &Entry{
		Date:       date,
		SourcePath: path,
		RawText:    text,
		ModTime:    info.ModTime(),
		DateSource: source,
		Depth:      w.depth(path),
	}
	w.logger.Debug("dated file",
		zap.String("path", path),
		zap.String("date", entry.Day()),
		zap.String("source", string(source)),
	)
	w.dated = append(w.dated, entry)
	w.result.Stats.Dated++
}

// dedup collapses entries sharing a date and sorts the survivors.
func (w *walker) dedup() {
	byDay := make(map[string]*Entry, len(w.dated))
	for _, entry := range w.dated {
		current, seen := byDay[entry.Day()]
		if !seen {
			byDay[entry.Day()] = entry
			continue
		}
		kept, dropped := current, entry
		if preferred(entry, current) {
			kept, dropped = entry, current
		}
		byDay[entry.Day()] = kept
		w.result.Duplicates = append(w.result.Duplicates, Duplicate{
			Date:    kept.Date,
			Day:     kept.Day(),
			Kept:    kept.SourcePath,
			Dropped: dropped.SourcePath,
		})
		w.logger.Debug("duplicate date",
			zap.String("date", kept.Day()),
			zap.String("kept", kept.SourcePath),
			zap.String("dropped", dropped.SourcePath),
		)
	}
	w.result.Stats.Duplicates = len(w.result.Duplicates)

	entries := make([]*Entry, 0, len(byDay))
	for _, entry := range byDay {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	w.result.Entries = entries
}

func (w *walker) depth(path string) int {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}

func (w *walker) skip(format string, args ...any) {
	w.result.Stats.Skipped++
	w.warn(format, args...)
}

func (w *walker) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	w.result.Warnings = append(w.result.Warnings, msg)
	w.logger.Debug("walk warning", zap.String("detail", msg))
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
