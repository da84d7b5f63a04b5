package driver

import "errors"

// Failure taxonomy for locate-and-act operations. Callers branch with
// errors.Is; implementations wrap these with context.
var (
	// ErrUnavailable: the browser driver could not start. Fatal to the
	// launch attempt; the session layer wipes the profile and propagates.
	ErrUnavailable = errors.New("browser driver unavailable")

	// ErrNotFound: a selector fallback chain was exhausted, or a bounded
	// wait timed out. Recoverable; callers skip the step and log.
	ErrNotFound = errors.New("element not found")

	// ErrBlocked: a click was intercepted by an overlay. Recoverable once
	// via an alternate locator, then treated as ErrNotFound.
	ErrBlocked = errors.New("element click intercepted")

	// ErrStale: the DOM no longer matches expectations. Recovered by
	// re-navigating to the site root and re-polling for the ready marker.
	ErrStale = errors.New("page state stale")
)
