// Package driver abstracts the browser-automation engine behind small
// interfaces. The automation engine depends only on these interfaces; the
// playwright-backed implementation lives in this package and fakes live in
// drivertest. Remote pages are a black box reached exclusively through
// locate/act primitives.
package driver

import "time"

// Strategy names how a selector expression is interpreted.
type Strategy string

const (
	CSS   Strategy = "css"
	XPath Strategy = "xpath"
	ID    Strategy = "id"
	Class Strategy = "class"
)

// Candidate is one strategy+expression pair for locating a UI element.
// Multiple candidates form an ordered fallback chain; resolution order is
// significant and is the sole tie-break.
type Candidate struct {
	Strategy Strategy
	Expr     string
}

// Element is one located DOM element.
type Element interface {
	Text() (string, error)
	Click() error
	Clear() error
	Type(text string) error
	Press(key string) error
}

// Page is one live browser page bound to a persistent profile.
type Page interface {
	Navigate(url string) error
	// Find waits up to timeout for the first element matching c.
	Find(c Candidate, timeout time.Duration) (Element, error)
	// FindAll waits up to timeout for at least one match, then returns all.
	FindAll(c Candidate, timeout time.Duration) ([]Element, error)
	Refresh() error
	Close() error
}

// LaunchOptions configures a session launch.
type LaunchOptions struct {
	ProfileDir string   // persistent user-data directory
	Headless   bool     // headless unless interactive login is required
	Args       []string // extra browser arguments, e.g. --disable-print-preview
}

// Launcher starts browser sessions. One launch yields one Page owning one
// underlying browser; pages are never shared between sessions.
type Launcher interface {
	Launch(opts LaunchOptions) (Page, error)
}
