package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vcampelo/zaporder/internal/config"
	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/runner"
	"github.com/vcampelo/zaporder/internal/tui"
)

var plainRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the control panel and drive the automation",
	RunE: func(cmd *cobra.Command, args []string) error {
		launcher, err := driver.NewPlaywright()
		if err != nil {
			return err
		}
		defer launcher.Stop()

		events := make(chan runner.Event, 16)
		emit := func(ev runner.Event) {
			select {
			case events <- ev:
			default: // a stalled panel must never block the worker
			}
		}
		ctl := &panelControl{paths: paths, launcher: launcher, emit: emit}

		if plainRun || !term.IsTerminal(os.Stdin.Fd()) {
			return runPlain(cmd, ctl, events)
		}

		watch, closeWatch := watchSettings(paths.SettingsFile)
		defer closeWatch()

		model := tui.New(ctl, settings, paths.SettingsFile, events, watch)
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return err
		}
		ctl.Stop()
		return nil
	},
}

// runPlain starts the automation immediately and blocks until SIGINT or
// SIGTERM, printing status transitions as plain lines.
func runPlain(cmd *cobra.Command, ctl *panelControl, events chan runner.Event) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Message != "" {
				cmd.Printf("%s: %s\n", ev.Status, ev.Message)
			} else {
				cmd.Printf("%s\n", ev.Status)
			}
		}
	}()

	if err := ctl.Start(); err != nil {
		return err
	}
	cmd.Println("automation running; Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)

	ctl.Stop()
	close(events)
	<-done
	return nil
}

// panelControl adapts the runner to the panel's toggle. Every Start builds
// a fresh Runner from the settings currently on disk, so edits apply on the
// next toggle without restarting the process.
type panelControl struct {
	paths    config.Paths
	launcher driver.Launcher
	emit     func(runner.Event)

	mu sync.Mutex
	r  *runner.Runner
}

func (c *panelControl) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.r != nil && c.r.Running() {
		return fmt.Errorf("automation already running")
	}

	cfg, err := config.Load(c.paths.SettingsFile)
	if err != nil {
		var perr *config.ParseError
		if !errors.As(err, &perr) {
			return err
		}
	}

	log := logx.New(c.paths.LogFile, cfg.LogOn)
	c.r = runner.New(cfg, c.paths, log, c.launcher, c.emit)
	return c.r.Start()
}

func (c *panelControl) Stop() {
	c.mu.Lock()
	r := c.r
	c.mu.Unlock()
	if r != nil {
		r.Stop()
	}
}

func (c *panelControl) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.r != nil && c.r.Running()
}

// watchSettings watches the settings file for writes and renames (Save goes
// through a temp file + rename) and signals each change. The watcher sits
// on the parent directory because editors and atomic saves replace the
// inode.
func watchSettings(path string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		close(ch)
		return ch, func() {}
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		close(ch)
		return ch, func() {}
	}

	name := filepath.Base(path)
	go func() {
		defer close(ch)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, func() { w.Close() }
}

func init() {
	runCmd.Flags().BoolVar(&plainRun, "plain", false, "plain text output instead of the control panel")
	rootCmd.AddCommand(runCmd)
}
