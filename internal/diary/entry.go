// Package diary walks a Notion export and turns its pages into dated
// diary entries, one per calendar day.
package diary

import (
	"errors"
	"time"

	"github.com/gorewood/nikki/internal/notionmd"
)

// Fatal walk errors. Callers map these to user errors.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrNoDocuments    = errors.New("no markdown documents")
	ErrNoDatedEntries = errors.New("no matching documents")
)

// Entry is one diary page resolved to a calendar date.
// Date is a UTC midnight value standing for the calendar day.
type Entry struct {
	Date       time.Time
	SourcePath string
	RawText    string
	ModTime    time.Time
	DateSource notionmd.DateSource
	Depth      int
}

// Day returns the entry date formatted as YYYY-MM-DD.
func (e *Entry) Day() string {
	return e.Date.Format(notionmd.DateLayout)
}

// Duplicate records an entry that lost to another file with the same date.
type Duplicate struct {
	Date    time.Time `json:"-"`
	Day     string    `json:"date"`
	Kept    string    `json:"kept"`
	Dropped string    `json:"dropped"`
}

// Stats summarizes a walk.
type Stats struct {
	Files      int `json:"files"`
	Dated      int `json:"dated"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// WalkResult holds the deduplicated entries of a walk plus everything that
// was skipped along the way.
type WalkResult struct {
	Entries    []*Entry
	Warnings   []string
	Duplicates []Duplicate
	Stats      Stats
}

// preferred reports whether a should be kept over b for the same date:
// later modification time, then deeper path, then the greater path.
func preferred(a, b *Entry) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.SourcePath > b.SourcePath
}
