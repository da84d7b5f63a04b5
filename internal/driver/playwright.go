package driver

import (
	"fmt"
	"strings"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// Playwright is the production Launcher backed by playwright-go. One
// instance drives any number of sessions; each Launch yields an isolated
// persistent-profile browser.
type Playwright struct {
	pw *pw.Playwright
}

// NewPlaywright starts the playwright runtime. A failure here means the
// driver itself is unusable, reported as ErrUnavailable.
func NewPlaywright() (*Playwright, error) {
	runtime, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w: %v", ErrUnavailable, err)
	}
	return &Playwright{pw: runtime}, nil
}

// Launch starts a Chromium session against a persistent profile directory.
// Launch failures are ErrUnavailable: the session layer treats the profile
// as corrupted and wipes it.
func (p *Playwright) Launch(opts LaunchOptions) (Page, error) {
	args := append([]string{"--start-maximized"}, opts.Args...)
	ctx, err := p.pw.Chromium.LaunchPersistentContext(opts.ProfileDir,
		pw.BrowserTypeLaunchPersistentContextOptions{
			Headless:   pw.Bool(opts.Headless),
			Args:       args,
			NoViewport: pw.Bool(true),
		})
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w: %v", ErrUnavailable, err)
	}

	var page pw.Page
	if pages := ctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = ctx.NewPage()
		if err != nil {
			_ = ctx.Close()
			return nil, fmt.Errorf("opening page: %w: %v", ErrUnavailable, err)
		}
	}
	return &pwPage{ctx: ctx, page: page}, nil
}

// Stop shuts down the playwright runtime. Call after all pages are closed.
func (p *Playwright) Stop() error {
	return p.pw.Stop()
}

type pwPage struct {
	ctx  pw.BrowserContext
	page pw.Page
}

func (p *pwPage) Navigate(url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return classify(err)
	}
	return nil
}

func (p *pwPage) Refresh() error {
	if _, err := p.page.Reload(); err != nil {
		return classify(err)
	}
	return nil
}

func (p *pwPage) Find(c Candidate, timeout time.Duration) (Element, error) {
	loc := p.page.Locator(toSelector(c)).First()
	err := loc.WaitFor(pw.LocatorWaitForOptions{
		Timeout: pw.Float(float64(timeout.Milliseconds())),
		State:   pw.WaitForSelectorStateAttached,
	})
	if err != nil {
		return nil, classify(err)
	}
	return &pwElement{loc: loc}, nil
}

func (p *pwPage) FindAll(c Candidate, timeout time.Duration) ([]Element, error) {
	sel := toSelector(c)
	err := p.page.Locator(sel).First().WaitFor(pw.LocatorWaitForOptions{
		Timeout: pw.Float(float64(timeout.Milliseconds())),
		State:   pw.WaitForSelectorStateAttached,
	})
	if err != nil {
		return nil, classify(err)
	}
	locs, err := p.page.Locator(sel).All()
	if err != nil {
		return nil, classify(err)
	}
	els := make([]Element, 0, len(locs))
	for _, l := range locs {
		els = append(els, &pwElement{loc: l})
	}
	return els, nil
}

func (p *pwPage) Close() error {
	return p.ctx.Close()
}

type pwElement struct {
	loc pw.Locator
}

func (e *pwElement) Text() (string, error) {
	text, err := e.loc.InnerText()
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

func (e *pwElement) Click() error {
	return classify(e.loc.Click())
}

func (e *pwElement) Clear() error {
	return classify(e.loc.Clear())
}

func (e *pwElement) Type(text string) error {
	return classify(e.loc.PressSequentially(text))
}

func (e *pwElement) Press(key string) error {
	return classify(e.loc.Press(key))
}

// toSelector renders a Candidate in playwright's selector syntax.
func toSelector(c Candidate) string {
	switch c.Strategy {
	case XPath:
		return "xpath=" + c.Expr
	case ID:
		return "#" + c.Expr
	case Class:
		return "." + c.Expr
	default:
		return c.Expr
	}
}

// classify folds playwright failures into the driver taxonomy. Timeouts and
// detached targets read as ErrNotFound; intercepted clicks as ErrBlocked.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "intercepts pointer events"):
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	case strings.Contains(msg, "Timeout") || strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(msg, "Target closed") || strings.Contains(msg, "detached"):
		return fmt.Errorf("%w: %v", ErrStale, err)
	default:
		return err
	}
}
