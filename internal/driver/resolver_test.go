package driver

import (
	"errors"
	"testing"
	"time"
)

// stubPage records which candidates were attempted and answers from a fixed
// table. It lives here rather than drivertest to keep the resolver test
// free of import cycles.
type stubPage struct {
	matches   map[string]Element // keyed by Candidate.Expr
	attempted []string
}

type stubElement struct{ text string }

func (e *stubElement) Text() (string, error) { return e.text, nil }
func (e *stubElement) Click() error          { return nil }
func (e *stubElement) Clear() error          { return nil }
func (e *stubElement) Type(string) error     { return nil }
func (e *stubElement) Press(string) error    { return nil }

func (p *stubPage) Navigate(string) error { return nil }
func (p *stubPage) Refresh() error        { return nil }
func (p *stubPage) Close() error          { return nil }

func (p *stubPage) Find(c Candidate, _ time.Duration) (Element, error) {
	p.attempted = append(p.attempted, c.Expr)
	if el, ok := p.matches[c.Expr]; ok {
		return el, nil
	}
	return nil, ErrNotFound
}

func (p *stubPage) FindAll(c Candidate, d time.Duration) ([]Element, error) {
	el, err := p.Find(c, d)
	if err != nil {
		return nil, err
	}
	return []Element{el}, nil
}

func TestResolveReturnsFirstMatchAndStops(t *testing.T) {
	want := &stubElement{text: "C"}
	page := &stubPage{matches: map[string]Element{"c": want}}
	chain := []Candidate{
		{XPath, "a"},
		{XPath, "b"},
		{CSS, "c"},
		{CSS, "d"},
	}

	el, err := Resolve(page, chain, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != Element(want) {
		t.Error("Resolve returned the wrong element")
	}
	if len(page.attempted) != 3 {
		t.Errorf("attempted %v, want exactly [a b c]", page.attempted)
	}
}

func TestResolveEarlyCandidateWins(t *testing.T) {
	first := &stubElement{text: "A"}
	page := &stubPage{matches: map[string]Element{"a": first, "b": &stubElement{text: "B"}}}
	chain := []Candidate{{CSS, "a"}, {CSS, "b"}}

	el, err := Resolve(page, chain, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != Element(first) {
		t.Error("ordering violated: later candidate beat an earlier match")
	}
	if len(page.attempted) != 1 {
		t.Errorf("attempted %v, want only [a]", page.attempted)
	}
}

func TestResolveExhaustedReturnsNotFound(t *testing.T) {
	page := &stubPage{}
	chain := []Candidate{{XPath, "a"}, {XPath, "b"}, {CSS, "c"}}

	_, err := Resolve(page, chain, time.Second)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(page.attempted) != 3 {
		t.Errorf("attempted %v, want all three candidates tried", page.attempted)
	}
}

func TestResolveAll(t *testing.T) {
	page := &stubPage{matches: map[string]Element{"rows": &stubElement{text: "row"}}}
	chain := []Candidate{{CSS, "missing"}, {CSS, "rows"}}

	els, err := ResolveAll(page, chain, time.Second)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(els) != 1 {
		t.Errorf("got %d elements, want 1", len(els))
	}
}
