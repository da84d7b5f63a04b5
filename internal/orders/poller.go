// Package orders polls the merchant back-office dashboard for order rows,
// extracts contact identifiers, and dispatches each new contact to the
// messaging agent exactly once per day.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vcampelo/zaporder/internal/dedup"
	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/phone"
)

const logSource = "Whatsmenu"

// rowCandidates locate the dashboard's order rows.
var rowCandidates = []driver.Candidate{
	{Strategy: driver.CSS, Expr: "#main > section > div"},
	{Strategy: driver.CSS, Expr: "main section > div"},
}

// Notifier sends the confirmation flow for one contact. Implemented by
// messenger.Agent.
type Notifier interface {
	Notify(c phone.Contact) error
}

// Poller scans the dashboard on a fixed cadence, deduplicates contacts
// against the daily store and rate-limits outbound attempts. Contacts are
// processed strictly one at a time; the poller is the dedup file's only
// writer.
type Poller struct {
	page  driver.Page
	store *dedup.Store
	agent Notifier
	log   *logx.Logger

	delay    time.Duration // operator-configured wait before each contact
	tick     time.Duration // dashboard scan cadence
	findWait time.Duration // bounded wait for the row set
}

// New returns a Poller reading rows from page, which must belong to a
// Ready orders session. delaySeconds is the configured wait_time.
func New(page driver.Page, store *dedup.Store, agent Notifier, delaySeconds int, log *logx.Logger) *Poller {
	return &Poller{
		page:     page,
		store:    store,
		agent:    agent,
		log:      log,
		delay:    time.Duration(delaySeconds) * time.Second,
		tick:     time.Second,
		findWait: 6 * time.Second,
	}
}

// Run loops until ctx is cancelled or the dashboard scan fails
// unrecoverably (it returns rather than retrying forever). Each new
// contact key is recorded in the store once an attempt starts, whether or
// not the send succeeds.
func (p *Poller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.tick):
		}

		rows, err := driver.ResolveAll(p.page, rowCandidates, p.findWait)
		if err != nil {
			p.log.Error(fmt.Sprintf("dashboard scan failed: %v", err), logSource)
			return err
		}

		for _, row := range rows {
			text, err := row.Text()
			if err != nil {
				continue
			}
			if done := p.scanRow(ctx, text); done {
				return nil
			}
		}
	}
}

// scanRow extracts contact keys from one row's text and processes any new
// ones. Returns true when ctx was cancelled mid-row.
func (p *Poller) scanRow(ctx context.Context, text string) bool {
	for _, line := range strings.Split(text, "\n") {
		key := phone.ExtractKey(line)
		if key == "" || p.store.Contains(key) {
			continue
		}
		if !sleepCtx(ctx, p.delay) {
			return true
		}
		p.process(phone.NewContact(key))
		if ctx.Err() != nil {
			return true
		}
	}
	return false
}

// process runs one contact attempt. Recording into the store is
// unconditional once the attempt starts: at most one attempt per contact
// per day beats guaranteed delivery, because the content-based dedup check
// would otherwise mask silent duplicate sends.
func (p *Poller) process(c phone.Contact) {
	defer func() {
		if err := p.store.Append(c.Raw); err != nil {
			p.log.Error(fmt.Sprintf("%s dedup record failed: %v", c.Raw, err), logSource)
		}
	}()

	if err := p.agent.Notify(c); err != nil {
		p.log.Error(fmt.Sprintf("%s notify failed: %v", c.Raw, err), logSource)
		return
	}
	p.log.Success(c.Raw+" processed", logSource)
}

// sleepCtx waits d unless ctx is cancelled first; reports whether the full
// wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

