// Package dedup persists the set of contact keys already processed today.
// The on-disk format is list_checked.txt: line 1 is a DD/MM/YYYY date stamp,
// every following line is one contact key. The whole file is the unit of
// daily rollover — a stale date stamp resets the file to just today.
package dedup

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DateLayout is the day-first stamp written as the first line of the store.
const DateLayout = "02/01/2006"

// Store is the persisted daily dedup set. It is owned by a single writer
// (the order poller); no locking is needed per the single-writer contract.
type Store struct {
	path    string
	entries []string // entries[0] is always the date stamp
}

// Open loads the store at path, creating or rolling it over as needed:
//   - absent or unreadable file: rewritten as [today]
//   - first line != today: rewritten as [today]
//
// The now argument supplies the current time; pass time.Now.
func Open(path string, now func() time.Time) (*Store, error) {
	today := now().Format(DateLayout)
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			// Treat unreadable the same as absent: reseed. The store is a
			// best-effort daily cache, not a system of record.
			_ = os.Remove(path)
		}
		if err := s.reset(today); err != nil {
			return nil, err
		}
		return s, nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			s.entries = append(s.entries, line)
		}
	}
	if len(s.entries) == 0 || s.entries[0] != today {
		if err := s.reset(today); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// reset replaces both memory and file with just the date stamp.
func (s *Store) reset(today string) error {
	s.entries = []string{today}
	if err := os.WriteFile(s.path, []byte(today+"\n"), 0o644); err != nil {
		return fmt.Errorf("resetting dedup store: %w", err)
	}
	return nil
}

// Today returns the date stamp the store is keyed by.
func (s *Store) Today() string {
	return s.entries[0]
}

// Count returns the number of contact keys recorded today.
func (s *Store) Count() int {
	return len(s.entries) - 1
}

// Contains reports whether key was already recorded today. The date stamp
// itself is a member on purpose: a row that somehow yields today's date as a
// key must never be contacted.
func (s *Store) Contains(key string) bool {
	for _, e := range s.entries {
		if e == key {
			return true
		}
	}
	return false
}

// Append records key in memory and appends it to the file. Entries are
// never removed for the lifetime of the day. Append does not deduplicate;
// callers gate on Contains first.
func (s *Store) Append(key string) error {
	s.entries = append(s.entries, key)
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("appending to dedup store: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(key + "\n"); err != nil {
		return fmt.Errorf("appending to dedup store: %w", err)
	}
	return nil
}
