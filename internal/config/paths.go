package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates every file and directory the automation touches. It is
// built once at startup and passed down; no component reaches for ambient
// path globals.
type Paths struct {
	Root             string // application data root
	WhatsAppProfile  string // persistent browser profile, messaging site
	WhatsmenuProfile string // persistent browser profile, orders site
	SettingsFile     string // settings.json
	DedupFile        string // list_checked.txt
	LogFile          string // log.txt
}

// DefaultRoot returns the XDG data directory for the application:
// $XDG_DATA_HOME/zaporder or ~/.local/share/zaporder.
func DefaultRoot() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "zaporder"), nil
}

// NewPaths lays out every path under root and ensures the root exists.
func NewPaths(root string) (Paths, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating data directory: %w", err)
	}
	return Paths{
		Root:             root,
		WhatsAppProfile:  filepath.Join(root, "profile_whatsapp", "wpp"),
		WhatsmenuProfile: filepath.Join(root, "profile_whatsmenu", "whatsmenu"),
		SettingsFile:     filepath.Join(root, "settings.json"),
		DedupFile:        filepath.Join(root, "list_checked.txt"),
		LogFile:          filepath.Join(root, "log.txt"),
	}, nil
}
