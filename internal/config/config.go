// Package config loads, migrates and persists the operator settings file.
// Settings are an immutable snapshot per automation run: applying edits
// requires stopping and restarting the run, never mutating a live one.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings holds every operator-editable parameter. JSON keys are the
// on-disk contract of settings.json and must not change.
type Settings struct {
	MsgTitle      string `json:"msg_title"`
	AutomaticMsg  string `json:"automatic_msg"` // "\n"-joined message lines
	ForceVisible  bool   `json:"force_visible"`
	WaitTime      string `json:"wait_time"` // string-encoded integer seconds
	LogOn         bool   `json:"log_on"`
	CheckMessages bool   `json:"check_messages"`
}

// rawSettings mirrors Settings plus retired keys recognized on load.
type rawSettings struct {
	MsgTitle      *string `json:"msg_title"`
	AutomaticMsg  *string `json:"automatic_msg"`
	ForceVisible  *bool   `json:"force_visible"`
	WaitTime      *string `json:"wait_time"`
	LogOn         *bool   `json:"log_on"`
	CheckMessages *bool   `json:"check_messages"`
	Browser       *bool   `json:"browser"` // legacy name for force_visible
}

// Defaults returns the built-in settings used when no file exists.
func Defaults() Settings {
	return Settings{
		MsgTitle:      "",
		AutomaticMsg:  "",
		ForceVisible:  false,
		WaitTime:      "10",
		LogOn:         false,
		CheckMessages: true,
	}
}

// WaitSeconds decodes the string-encoded polling delay. Malformed or
// negative values fall back to the default delay.
func (s Settings) WaitSeconds() int {
	n, err := strconv.Atoi(s.WaitTime)
	if err != nil || n < 0 {
		n, _ = strconv.Atoi(Defaults().WaitTime)
	}
	return n
}

// MessageLines splits the configured message body into the lines sent
// one by one. Empty bodies yield no lines.
func (s Settings) MessageLines() []string {
	if s.AutomaticMsg == "" {
		return nil
	}
	lines := strings.Split(s.AutomaticMsg, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// ParseError is returned through Load's backup path when the settings file
// exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse settings file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the settings file at path, applying defaults and migrations:
//
//   - absent file: defaults are returned and a fresh file is written
//   - malformed file: the broken file is copied to path+".backup", then
//     defaults are returned and a fresh file is written
//   - legacy key "browser": migrated to force_visible unless force_visible
//     is itself present; the legacy key is dropped on the rewrite
//   - missing keys: filled from defaults
//
// The file on disk is rewritten after a successful load so migrations and
// new keys are persisted immediately.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("reading settings: %w", err)
		}
		s := Defaults()
		if err := Save(path, s); err != nil {
			return Settings{}, err
		}
		return s, nil
	}

	var raw rawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		// Preserve the broken file for inspection, then start fresh.
		_ = os.WriteFile(path+".backup", data, 0o644)
		s := Defaults()
		if err := Save(path, s); err != nil {
			return Settings{}, err
		}
		return s, &ParseError{Path: path, Err: err}
	}

	s := Defaults()
	if raw.MsgTitle != nil {
		s.MsgTitle = *raw.MsgTitle
	}
	if raw.AutomaticMsg != nil {
		s.AutomaticMsg = *raw.AutomaticMsg
	}
	if raw.ForceVisible != nil {
		s.ForceVisible = *raw.ForceVisible
	} else if raw.Browser != nil {
		s.ForceVisible = *raw.Browser
	}
	if raw.WaitTime != nil {
		s.WaitTime = *raw.WaitTime
	}
	if raw.LogOn != nil {
		s.LogOn = *raw.LogOn
	}
	if raw.CheckMessages != nil {
		s.CheckMessages = *raw.CheckMessages
	}

	if err := Save(path, s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save marshals s and writes it atomically via a temp file + os.Rename.
func Save(path string, s Settings) (err error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "settings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
