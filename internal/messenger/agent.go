// Package messenger composes and sends the templated confirmation into the
// active chat of the messaging site, and checks whether a matching
// automated message was already sent today in the open conversation.
package messenger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/phone"
	"github.com/vcampelo/zaporder/internal/session"
)

// Content markers for the dedup-by-content check. The chat UI groups
// messages under day separators whose text contains todayMarker; an
// automated confirmation carries orderCodeMarker plus either the platform
// domain or the configured message title.
const (
	todayMarker     = "HOJE"
	orderCodeMarker = "Código do pedido"
	platformDomain  = "www.whatsmenu.com.br"
)

const logSource = "Whatsapp"

// Agent drives the open messaging session for one contact at a time. The
// per-contact flow is strictly sequential: ChatSearch → ChatOpen →
// {MessageCheck} → Send → Done, with one intercepted-click excursion via an
// alternate locator and a timeout excursion through Recover.
type Agent struct {
	page driver.Page
	site session.Site
	cfg  config.Settings
	log  *logx.Logger
	stop func() bool // cooperative stop check; may be nil

	lines []string

	findWait    time.Duration // bounded wait per locate step
	readyWait   time.Duration // longer wait when verifying the site is loaded
	pause       time.Duration // fixed interval between message lines
	recoverPoll time.Duration // cadence between ready-marker polls in recover
}

// New returns an Agent driving page, which must belong to a Ready
// messaging session. stop is consulted between steps; pass nil when no
// cooperative stop is needed.
func New(page driver.Page, site session.Site, cfg config.Settings, log *logx.Logger, stop func() bool) *Agent {
	return &Agent{
		page:      page,
		site:      site,
		cfg:       cfg,
		log:       log,
		stop:      stop,
		lines:     cfg.MessageLines(),
		findWait:    10 * time.Second,
		readyWait:   15 * time.Second,
		pause:       time.Second,
		recoverPoll: time.Second,
	}
}

func (a *Agent) stopping() bool {
	return a.stop != nil && a.stop()
}

// Notify opens the contact's chat and sends the templated message unless a
// matching automated message already exists today. Every step failure is
// caught and logged; callers record the contact as attempted regardless of
// the outcome, favoring at-most-one-attempt-per-day over guaranteed
// delivery.
func (a *Agent) Notify(c phone.Contact) error {
	if a.stopping() {
		a.log.Error("interface not active - stopping operations", logSource)
		return session.ErrStopped
	}
	if err := a.verifyLoaded(); err != nil {
		a.log.Error("messaging site not properly loaded", logSource)
		return err
	}

	if err := a.openChat(c); err != nil {
		return err
	}
	a.sleep(a.pause)

	if a.cfg.CheckMessages {
		if a.hasExistingMessageToday() {
			a.log.Success(c.Raw+" confirmation already sent today", logSource)
			return nil
		}
		a.log.Success(c.Raw+" no existing confirmation - sending", logSource)
	} else {
		a.log.Success(c.Raw+" message check disabled", logSource)
	}

	if err := a.send(); err != nil {
		return err
	}
	a.log.Success(c.Raw+" message sent", logSource)
	return nil
}

// verifyLoaded confirms the ready marker is still present and the site is
// not back on the credentials screen.
func (a *Agent) verifyLoaded() error {
	if _, err := driver.Resolve(a.page, a.site.ReadyMarkers, a.readyWait); err != nil {
		return fmt.Errorf("ready marker missing: %w", err)
	}
	if _, err := driver.Resolve(a.page, a.site.LoginMarkers, time.Second); err == nil {
		return fmt.Errorf("credentials screen showing: %w", driver.ErrStale)
	}
	return nil
}

// openChat locates the new-conversation control, searches for the contact
// and opens the matching chat row. An intercepted click on the row is
// retried once through the positional fallback locator; a missing row
// falls back to the back button, and failing that the whole page is
// recovered via re-navigation.
func (a *Agent) openChat(c phone.Contact) error {
	newChat, err := driver.Resolve(a.page, newChatCandidates, a.findWait)
	if err != nil {
		a.log.Error(c.Raw+" new chat control not found", logSource)
		return err
	}
	if err := newChat.Click(); err != nil {
		a.log.Error(fmt.Sprintf("%s new chat click: %v", c.Raw, err), logSource)
		return err
	}
	a.log.Success(c.Raw+" new chat clicked", logSource)

	search, err := driver.Resolve(a.page, searchBoxCandidates, a.findWait)
	if err != nil {
		a.log.Error(c.Raw+" search box not found", logSource)
		return err
	}
	if err := search.Type(c.Formatted); err != nil {
		a.log.Error(fmt.Sprintf("%s search box type: %v", c.Raw, err), logSource)
		return err
	}
	a.log.Success(c.Raw+" search box filled", logSource)

	row, err := a.page.Find(chatRowCandidate(c.Formatted), a.findWait)
	if err != nil {
		return a.abandonSearch(c, err)
	}
	a.sleep(a.pause)

	if err := row.Click(); err != nil {
		if !errors.Is(err, driver.ErrBlocked) {
			return a.abandonSearch(c, err)
		}
		// An overlay intercepted the click. Retry once via the
		// position-based locator for the same logical row.
		alt, altErr := a.page.Find(altChatRowCandidate, a.findWait)
		if altErr != nil {
			return a.abandonSearch(c, altErr)
		}
		a.sleep(a.pause)
		if altErr := alt.Click(); altErr != nil {
			return a.abandonSearch(c, altErr)
		}
	}
	a.log.Success(c.Raw+" chat opened", logSource)
	return nil
}

// abandonSearch backs out of a failed chat search: the back button when it
// resolves, otherwise a full recovery via re-navigation. The original
// failure is returned either way.
func (a *Agent) abandonSearch(c phone.Contact, cause error) error {
	a.log.Error(fmt.Sprintf("%s chat row: %v", c.Raw, cause), logSource)
	back, err := driver.Resolve(a.page, backButtonCandidates, a.findWait)
	if err == nil {
		if err := back.Click(); err == nil {
			return cause
		}
	}
	a.log.Error("back button unavailable - recovering page", logSource)
	a.recover()
	return cause
}

// recover re-navigates to the site root and polls for the ready marker
// until it appears or a stop is signalled.
func (a *Agent) recover() {
	if err := a.page.Navigate(a.site.URL); err != nil {
		a.log.Error(fmt.Sprintf("recovery navigation: %v", err), logSource)
		return
	}
	for {
		if a.stopping() {
			return
		}
		if _, err := driver.Resolve(a.page, a.site.ReadyMarkers, a.findWait); err == nil {
			a.log.Success("logged in successfully", logSource)
			return
		}
		a.sleep(a.recoverPoll)
	}
}

// hasExistingMessageToday scans the open chat's bubbles and reports whether
// today's messages already contain an automated confirmation. Only the
// contiguous tail of text from the first today-marker occurrence counts;
// the confirmation must carry the order-code phrase plus either the
// platform domain or the configured message title.
func (a *Agent) hasExistingMessageToday() bool {
	bubbles, err := driver.ResolveAll(a.page, messageBubbleCandidates, a.findWait)
	if err != nil {
		a.log.Error("timeout waiting for messages", logSource)
		return false
	}
	a.log.Success(fmt.Sprintf("found %d messages to check", len(bubbles)), logSource)

	for _, bubble := range bubbles {
		text, err := bubble.Text()
		if err != nil {
			continue
		}
		idx := strings.Index(text, todayMarker)
		if idx < 0 {
			continue
		}
		today := text[idx:]
		if !strings.Contains(today, orderCodeMarker) {
			continue
		}
		if strings.Contains(today, platformDomain) ||
			(a.cfg.MsgTitle != "" && strings.Contains(today, a.cfg.MsgTitle)) {
			a.log.Success("order code message found today", logSource)
			return true
		}
	}
	a.log.Success("no order code message found today", logSource)
	return false
}

// send types the configured message lines into the input box one by one:
// locate, click, clear, type, Enter, fixed pause. No batching.
func (a *Agent) send() error {
	for i, line := range a.lines {
		box, err := driver.Resolve(a.page, inputBoxCandidates, a.findWait)
		if err != nil {
			a.log.Error("could not find message input box", logSource)
			return err
		}
		if err := box.Click(); err != nil {
			a.log.Error(fmt.Sprintf("message box click: %v", err), logSource)
			return err
		}
		if err := box.Clear(); err != nil {
			a.log.Error(fmt.Sprintf("message box clear: %v", err), logSource)
			return err
		}
		if err := box.Type(line); err != nil {
			a.log.Error(fmt.Sprintf("message line %d type: %v", i+1, err), logSource)
			return err
		}
		if err := box.Press("Enter"); err != nil {
			a.log.Error(fmt.Sprintf("message line %d submit: %v", i+1, err), logSource)
			return err
		}
		a.sleep(a.pause)
	}
	return nil
}

func (a *Agent) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
