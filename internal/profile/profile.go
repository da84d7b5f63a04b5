// Package profile manages the persistent browser profile directories that
// keep each target site authenticated across runs. A profile directory is
// precious state: losing it forces the operator through interactive login
// again, so the only destructive operation is the corrupted-profile wipe
// performed when the browser driver refuses to launch.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is one persistent browser profile directory.
type Dir struct {
	Path string
}

// New returns a Dir for path.
func New(path string) Dir {
	return Dir{Path: path}
}

// Ensure creates the directory (and parents) if absent.
func (d Dir) Ensure() error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	return nil
}

// Exists reports whether the profile directory is present on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.Path)
	return err == nil && info.IsDir()
}

// Wipe removes the profile directory wholesale. Used only for
// corrupted-profile recovery after a driver launch failure; callers must
// ensure it runs at most once per launch attempt.
func (d Dir) Wipe() error {
	if err := os.RemoveAll(d.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("wiping profile directory: %w", err)
	}
	return nil
}

// Size returns the total size in bytes of the profile directory, for the
// status display. Unreadable entries are skipped.
func (d Dir) Size() int64 {
	var total int64
	_ = filepath.WalkDir(d.Path, func(path string, de os.DirEntry, err error) error {
		if err != nil || de.IsDir() {
			return nil
		}
		if info, err := de.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
