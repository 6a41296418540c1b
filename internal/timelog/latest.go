package timelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoExports reports a directory without any CSV file.
var ErrNoExports = errors.New("no csv exports")

// Latest returns the most recently modified .csv file directly inside dir.
// Equal modification times resolve to the greater file name.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read toggl dir: %w", err)
	}

	var (
		best     string
		bestInfo os.FileInfo
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if bestInfo == nil ||
			info.ModTime().After(bestInfo.ModTime()) ||
			(info.ModTime().Equal(bestInfo.ModTime()) && e.Name() > bestInfo.Name()) {
			best, bestInfo = filepath.Join(dir, e.Name()), info
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w in %s", ErrNoExports, dir)
	}
	return best, nil
}
