// Package runner owns one automation run: it brings both browser sessions
// to Ready on a background worker goroutine, starts the dashboard poll
// loop, and reports status transitions to the control panel. The foreground
// never blocks on browser work.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/dedup"
	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/messenger"
	"github.com/vcampelo/zaporder/internal/orders"
	"github.com/vcampelo/zaporder/internal/profile"
	"github.com/vcampelo/zaporder/internal/session"
)

// Status is the operator-visible run state.
type Status int

const (
	StatusOff Status = iota
	StatusStarting
	StatusOn
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOff:
		return "OFF"
	case StatusStarting:
		return "STARTING"
	case StatusOn:
		return "ON"
	case StatusError:
		return "ERROR"
	default:
		return "?"
	}
}

// Event is one status transition or operator notice emitted by a run.
type Event struct {
	Status  Status
	Message string // optional operator-facing text
}

// Runner executes one automation run per Start/Stop cycle. Settings are an
// immutable snapshot taken at Start; edits apply only to the next run.
type Runner struct {
	cfg      config.Settings
	paths    config.Paths
	log      *logx.Logger
	launcher driver.Launcher
	emit     func(Event) // never called after Stop returns

	// settle pauses mirror the original operator workflow: the sessions
	// come up staggered, not back to back.
	startSettle   time.Duration
	betweenSettle time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	msgCtl  *session.Controller
	ordCtl  *session.Controller
	done    chan struct{}
}

// New returns a Runner. emit receives every status transition; it must be
// cheap and non-blocking (the control panel forwards into its own queue).
func New(cfg config.Settings, paths config.Paths, log *logx.Logger, launcher driver.Launcher, emit func(Event)) *Runner {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Runner{
		cfg:           cfg,
		paths:         paths,
		log:           log,
		launcher:      launcher,
		emit:          emit,
		startSettle:   3 * time.Second,
		betweenSettle: 7 * time.Second,
	}
}

// Running reports whether a run is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches the worker goroutine. It is an error to start a runner
// that is already running.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("automation already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	notify := func(msg string) { r.emit(Event{Status: StatusStarting, Message: msg}) }

	r.msgCtl = session.New(session.MessagingSite(),
		profile.New(r.paths.WhatsAppProfile), r.launcher, r.log, r.cfg.ForceVisible, notify)
	r.ordCtl = session.New(session.OrdersSite(),
		profile.New(r.paths.WhatsmenuProfile), r.launcher, r.log, r.cfg.ForceVisible, notify)

	r.cancel = cancel
	r.running = true
	r.done = make(chan struct{})

	go r.run(ctx, r.msgCtl, r.ordCtl, r.done)
	return nil
}

// Stop signals the run to end, closes both sessions and waits for the
// worker to drain. Idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel, msgCtl, ordCtl, done := r.cancel, r.msgCtl, r.ordCtl, r.done
	r.mu.Unlock()

	cancel()
	msgCtl.Stop()
	ordCtl.Stop()
	<-done

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.emit(Event{Status: StatusOff})
}

// run is the worker: messaging session first, then the orders session,
// then the poll loop. A launch failure halts this run only and surfaces
// ERROR; the operator restarts by toggling.
func (r *Runner) run(ctx context.Context, msgCtl, ordCtl *session.Controller, done chan struct{}) {
	defer close(done)

	runID := uuid.New().String()
	r.log.Success("run "+runID+" starting", "Runner")
	r.emit(Event{Status: StatusStarting})

	if !sleepCtx(ctx, r.startSettle) {
		return
	}
	if err := msgCtl.Launch(ctx); err != nil {
		r.fail(runID, "start chat canceled", err)
		return
	}
	r.log.Success("WhatsApp started successfully", "Runner")

	if !sleepCtx(ctx, r.betweenSettle) {
		return
	}

	// The dedup store belongs to the orders session: it is created before
	// the dashboard comes up and rolled over here if the date is stale.
	store, err := dedup.Open(r.paths.DedupFile, time.Now)
	if err != nil {
		r.fail(runID, "dedup store unavailable", err)
		return
	}

	r.log.Success("Whatsmenu starting", "Runner")
	if err := ordCtl.Launch(ctx); err != nil {
		r.fail(runID, "start whatsmenu canceled", err)
		return
	}

	if !msgCtl.IsReady() || !ordCtl.IsReady() {
		// Stopped mid-launch; not an error state.
		return
	}

	agent := messenger.New(msgCtl.Page(), session.MessagingSite(), r.cfg, r.log, msgCtl.Stopping)
	poller := orders.New(ordCtl.Page(), store, agent, r.cfg.WaitSeconds(), r.log)

	r.emit(Event{Status: StatusOn})
	if err := poller.Run(ctx); err != nil {
		r.log.Error(fmt.Sprintf("run %s poll loop ended: %v", runID, err), "Runner")
		r.emit(Event{Status: StatusError, Message: "painel de pedidos inacessível - reinicie a automação"})
		return
	}
	r.log.Success("run "+runID+" finished", "Runner")
}

func (r *Runner) fail(runID, what string, err error) {
	if errors.Is(err, session.ErrStopped) {
		return
	}
	r.log.Error(fmt.Sprintf("run %s %s: %v", runID, what, err), "Runner")
	r.emit(Event{Status: StatusError, Message: fmt.Sprintf("%s: %v", what, err)})
}

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
