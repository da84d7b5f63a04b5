package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/profile"
)

// ErrStopped is returned when a stop signal interrupts a launch or login wait.
var ErrStopped = errors.New("session stopped")

// Controller drives one browser session for one target site to Ready,
// preferring headless operation and escalating to a visible browser only
// when interactive login is required.
type Controller struct {
	site         Site
	prof         profile.Dir
	launcher     driver.Launcher
	log          *logx.Logger
	forceVisible bool
	notify       func(string) // operator notices; may be nil

	detectWait time.Duration // bounded wait for the ready marker probe
	loginWait  time.Duration // per-iteration wait during interactive login
	loginPoll  time.Duration // cadence between login poll iterations

	mu      sync.Mutex
	state   State
	page    driver.Page
	visible bool
	stopped atomic.Bool
}

// New returns a Controller for site using the given persistent profile
// directory. notify receives operator-facing messages (the manual-login
// banner); pass nil to discard them.
func New(site Site, prof profile.Dir, launcher driver.Launcher, log *logx.Logger, forceVisible bool, notify func(string)) *Controller {
	return &Controller{
		site:         site,
		prof:         prof,
		launcher:     launcher,
		log:          log,
		forceVisible: forceVisible,
		notify:       notify,
		detectWait:   5 * time.Second,
		loginWait:    10 * time.Second,
		loginPoll:    time.Second,
		state:        NotStarted,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsReady reports whether the session reached the logged-in, page-loaded
// state. Callers must check this rather than assume success after Launch.
func (c *Controller) IsReady() bool {
	return c.State() == Ready
}

// Page returns the live page, or nil before Ready.
func (c *Controller) Page() driver.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Target returns the site this controller is bound to.
func (c *Controller) Target() Target {
	return c.site.Target
}

// Stopping reports whether a stop signal was raised; wait loops in the
// messaging and polling layers consult this between iterations.
func (c *Controller) Stopping() bool {
	return c.stopped.Load()
}

// Launch brings the session to Ready. It starts headless unless the
// operator forced visible operation, probes the login state, and escalates
// to a visible browser for interactive login when needed. On a driver
// launch failure the profile directory is wiped (assumed corrupted) —
// destructive, at most once per Launch call — and the failure propagates.
func (c *Controller) Launch(ctx context.Context) error {
	if c.stopped.Load() {
		return ErrStopped
	}

	visible := c.forceVisible
	wiped := false
	c.setState(Launching)

	page, err := c.launchBrowser(visible, &wiped)
	if err != nil {
		c.setState(Failed)
		return err
	}

	if err := page.Navigate(c.site.URL); err != nil {
		_ = page.Close()
		c.setState(Failed)
		return fmt.Errorf("%s: opening site: %w", c.site.Target, err)
	}

	c.setState(DetectingLogin)
	switch c.detectLogin(page) {
	case LoggedIn:
		c.log.Success("already logged in", string(c.site.Target))
		if !c.adopt(page, visible) {
			return ErrStopped
		}
		return nil
	default:
		// NeedsLogin and Indeterminate both require a human.
	}

	if !visible {
		// Headless cannot show a QR code or a login form. Tear down and
		// relaunch visibly against the same profile.
		c.log.Success("login needed - switching to visible mode", string(c.site.Target))
		c.announceLogin()
		_ = page.Close()

		c.setState(AwaitingManualLogin)
		if c.stopped.Load() {
			c.setState(Stopped)
			return ErrStopped
		}

		c.setState(Launching)
		visible = true
		page, err = c.launchBrowser(visible, &wiped)
		if err != nil {
			c.setState(Failed)
			return err
		}
		if err := page.Navigate(c.site.URL); err != nil {
			_ = page.Close()
			c.setState(Failed)
			return fmt.Errorf("%s: opening site: %w", c.site.Target, err)
		}
	}

	if err := c.interactiveLogin(ctx, page); err != nil {
		_ = page.Close()
		if errors.Is(err, ErrStopped) {
			c.setState(Stopped)
		} else {
			c.setState(Failed)
		}
		return err
	}

	c.log.Success("logged in successfully", string(c.site.Target))
	if !c.adopt(page, visible) {
		return ErrStopped
	}
	return nil
}

// launchBrowser starts the browser once, wiping the profile directory on a
// driver failure. The wiped flag guarantees at most one wipe per Launch.
func (c *Controller) launchBrowser(visible bool, wiped *bool) (driver.Page, error) {
	page, err := c.launcher.Launch(driver.LaunchOptions{
		ProfileDir: c.prof.Path,
		Headless:   !visible,
		Args:       c.site.Args,
	})
	if err != nil {
		c.log.Error(fmt.Sprintf("driver launch failed: %v", err), string(c.site.Target))
		if !*wiped {
			*wiped = true
			if werr := c.prof.Wipe(); werr != nil {
				c.log.Error(fmt.Sprintf("profile wipe failed: %v", werr), string(c.site.Target))
			}
		}
		return nil, fmt.Errorf("%s: %w", c.site.Target, err)
	}
	return page, nil
}

// detectLogin probes the page with a short bounded wait. The ready marker
// wins; otherwise a credentials marker yields NeedsLogin; neither yields
// Indeterminate, which callers treat as NeedsLogin.
func (c *Controller) detectLogin(page driver.Page) LoginStatus {
	if _, err := driver.Resolve(page, c.site.ReadyMarkers, c.detectWait); err == nil {
		return LoggedIn
	}
	if _, err := driver.Resolve(page, c.site.LoginMarkers, time.Second); err == nil {
		c.log.Success("credentials marker detected - login needed", string(c.site.Target))
		return NeedsLogin
	}
	c.log.Success("login status unclear - assuming login needed", string(c.site.Target))
	return Indeterminate
}

// interactiveLogin blocks until the operator completes login in the visible
// browser: the ready marker is polled at a fixed cadence, exiting early if
// the stop signal is raised or ctx is cancelled.
func (c *Controller) interactiveLogin(ctx context.Context, page driver.Page) error {
	for {
		if c.stopped.Load() {
			return ErrStopped
		}
		if err := ctx.Err(); err != nil {
			return ErrStopped
		}
		if _, err := driver.Resolve(page, c.site.ReadyMarkers, c.loginWait); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrStopped
		case <-time.After(c.loginPoll):
		}
	}
}

// announceLogin surfaces the manual-login banner to the operator.
func (c *Controller) announceLogin() {
	if c.notify == nil {
		return
	}
	c.notify(fmt.Sprintf(
		"LOGIN NECESSÁRIO - %s: o navegador será aberto para você fazer login. "+
			"Faça o login normalmente; a automação continua assim que a página carregar.",
		c.site.Target))
}

// adopt installs the ready page under the lock. A Stop that completed
// while the launch was in flight wins the race: the page is closed instead
// of adopted, since Stop already ran its own close step against a nil page.
func (c *Controller) adopt(page driver.Page, visible bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped.Load() {
		_ = page.Close()
		c.state = Stopped
		return false
	}
	c.page = page
	c.visible = visible
	c.state = Ready
	return true
}

// Stop raises the stop flag and releases the browser. Idempotent and safe
// to call from a different goroutine than the one running Launch or the
// polling loop; an in-flight bounded wait may finish its own timeout before
// observing the flag.
func (c *Controller) Stop() {
	if c.stopped.Swap(true) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page != nil {
		_ = c.page.Close()
		c.page = nil
	}
	if c.state != Failed {
		c.state = Stopped
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}
