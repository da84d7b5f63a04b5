// Package drivertest provides scriptable in-memory fakes of the driver
// interfaces for testing the automation engine without a live browser.
package drivertest

import (
	"sync"
	"time"

	"github.com/vcampelo/zaporder/internal/driver"
)

// Element is a fake driver.Element recording every interaction.
type Element struct {
	TextValue string

	mu        sync.Mutex
	clickErrs []error // consumed one per Click; nil entry means success
	Clicks    int
	Typed     []string
	Pressed   []string
	Cleared   int
}

// NewElement returns an element rendering text.
func NewElement(text string) *Element {
	return &Element{TextValue: text}
}

// FailClicks queues errors returned by successive Click calls. A nil entry
// yields success. Once the queue drains, clicks succeed.
func (e *Element) FailClicks(errs ...error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickErrs = append(e.clickErrs, errs...)
	return e
}

func (e *Element) Text() (string, error) { return e.TextValue, nil }

func (e *Element) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clicks++
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		return err
	}
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Cleared++
	return nil
}

func (e *Element) Type(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Typed = append(e.Typed, text)
	return nil
}

func (e *Element) Press(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Pressed = append(e.Pressed, key)
	return nil
}

// Page is a fake driver.Page answering finds from a selector table keyed by
// Candidate.Expr.
type Page struct {
	mu        sync.Mutex
	elements  map[string][]*Element
	Navigated []string
	Refreshes int
	Closed    bool
	Attempted []string // every candidate expression tried, in order
}

// NewPage returns an empty fake page.
func NewPage() *Page {
	return &Page{elements: make(map[string][]*Element)}
}

// Set installs the elements answered for expr.
func (p *Page) Set(expr string, els ...*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[expr] = els
}

// Remove drops expr from the table, simulating a vanished element.
func (p *Page) Remove(expr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, expr)
}

func (p *Page) Navigate(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Navigated = append(p.Navigated, url)
	return nil
}

func (p *Page) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Refreshes++
	return nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

func (p *Page) Find(c driver.Candidate, _ time.Duration) (driver.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Attempted = append(p.Attempted, c.Expr)
	if els, ok := p.elements[c.Expr]; ok && len(els) > 0 {
		return els[0], nil
	}
	return nil, driver.ErrNotFound
}

func (p *Page) FindAll(c driver.Candidate, _ time.Duration) ([]driver.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Attempted = append(p.Attempted, c.Expr)
	els, ok := p.elements[c.Expr]
	if !ok || len(els) == 0 {
		return nil, driver.ErrNotFound
	}
	out := make([]driver.Element, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out, nil
}

// Launcher is a fake driver.Launcher handing out scripted pages.
type Launcher struct {
	mu       sync.Mutex
	pages    []*Page
	errs     []error
	Launches []driver.LaunchOptions
}

// NewLauncher returns a Launcher whose successive Launch calls yield the
// given pages. When pages run out the last one is reused.
func NewLauncher(pages ...*Page) *Launcher {
	return &Launcher{pages: pages}
}

// FailLaunches queues errors returned by successive Launch calls before any
// page is handed out. A nil entry yields success.
func (l *Launcher) FailLaunches(errs ...error) *Launcher {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, errs...)
	return l
}

func (l *Launcher) Launch(opts driver.LaunchOptions) (driver.Page, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Launches = append(l.Launches, opts)
	if len(l.errs) > 0 {
		err := l.errs[0]
		l.errs = l.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(l.pages) == 0 {
		return NewPage(), nil
	}
	page := l.pages[0]
	if len(l.pages) > 1 {
		l.pages = l.pages[1:]
	}
	return page, nil
}
