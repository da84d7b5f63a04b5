package driver

import (
	"fmt"
	"time"
)

// Resolve attempts each candidate in order with a bounded per-candidate
// wait and returns the first element that resolves. Earlier candidates are
// the current semantic selectors; later ones are legacy or positional
// fallbacks kept for resilience against partial site changes. After a hit
// no further candidate is tried. When every candidate fails, Resolve
// returns ErrNotFound; callers decide whether that is recoverable.
func Resolve(p Page, chain []Candidate, perWait time.Duration) (Element, error) {
	for _, c := range chain {
		el, err := p.Find(c, perWait)
		if err == nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("resolving %d candidates: %w", len(chain), ErrNotFound)
}

// ResolveAll is Resolve for element sets: the first candidate yielding a
// non-empty match wins.
func ResolveAll(p Page, chain []Candidate, perWait time.Duration) ([]Element, error) {
	for _, c := range chain {
		els, err := p.FindAll(c, perWait)
		if err == nil && len(els) > 0 {
			return els, nil
		}
	}
	return nil, fmt.Errorf("resolving %d candidates: %w", len(chain), ErrNotFound)
}
