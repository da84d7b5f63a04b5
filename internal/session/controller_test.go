package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vcampelo/zaporder/internal/driver"
	"github.com/vcampelo/zaporder/internal/driver/drivertest"
	"github.com/vcampelo/zaporder/internal/logx"
	"github.com/vcampelo/zaporder/internal/profile"
)

func testController(t *testing.T, launcher driver.Launcher, forceVisible bool, notify func(string)) *Controller {
	t.Helper()
	prof := profile.New(filepath.Join(t.TempDir(), "wpp"))
	if err := prof.Ensure(); err != nil {
		t.Fatal(err)
	}
	c := New(MessagingSite(), prof, launcher, logx.Nop(), forceVisible, notify)
	c.detectWait = time.Millisecond
	c.loginWait = time.Millisecond
	c.loginPoll = time.Millisecond
	return c
}

func readyPage() *drivertest.Page {
	p := drivertest.NewPage()
	p.Set("side", drivertest.NewElement("chats"))
	return p
}

func TestLaunchHeadlessAlreadyLoggedIn(t *testing.T) {
	page := readyPage()
	launcher := drivertest.NewLauncher(page)
	c := testController(t, launcher, false, nil)

	if err := c.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !c.IsReady() {
		t.Fatalf("state = %v, want ready", c.State())
	}
	if len(launcher.Launches) != 1 {
		t.Fatalf("launches = %d, want 1", len(launcher.Launches))
	}
	if !launcher.Launches[0].Headless {
		t.Error("first launch must be headless")
	}
	if len(page.Navigated) != 1 || page.Navigated[0] != MessagingSite().URL {
		t.Errorf("navigated = %v", page.Navigated)
	}
	if c.Page() == nil {
		t.Error("Page() nil after Ready")
	}
}

func TestLaunchEscalatesToVisibleOnNeedsLogin(t *testing.T) {
	// Headless page shows the QR marker; the visible relaunch is ready.
	qrPage := drivertest.NewPage()
	qrPage.Set(`//*[@data-testid="qr-code"]`, drivertest.NewElement("qr"))
	visiblePage := readyPage()

	launcher := drivertest.NewLauncher(qrPage, visiblePage)
	var notices []string
	c := testController(t, launcher, false, func(msg string) { notices = append(notices, msg) })

	if err := c.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !c.IsReady() {
		t.Fatalf("state = %v, want ready", c.State())
	}
	if len(launcher.Launches) != 2 {
		t.Fatalf("launches = %d, want 2 (headless then visible)", len(launcher.Launches))
	}
	if !launcher.Launches[0].Headless || launcher.Launches[1].Headless {
		t.Errorf("launch modes = %+v, want headless then visible", launcher.Launches)
	}
	if !qrPage.Closed {
		t.Error("headless page not torn down before escalation")
	}
	if len(notices) != 1 {
		t.Errorf("operator notices = %d, want 1", len(notices))
	}
}

func TestLaunchIndeterminateTreatedAsNeedsLogin(t *testing.T) {
	blank := drivertest.NewPage() // neither ready nor login marker
	visiblePage := readyPage()
	launcher := drivertest.NewLauncher(blank, visiblePage)
	c := testController(t, launcher, false, nil)

	if err := c.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(launcher.Launches) != 2 {
		t.Fatalf("launches = %d, want escalation on indeterminate status", len(launcher.Launches))
	}
}

func TestLaunchForceVisibleSkipsHeadless(t *testing.T) {
	launcher := drivertest.NewLauncher(readyPage())
	c := testController(t, launcher, true, nil)

	if err := c.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(launcher.Launches) != 1 {
		t.Fatalf("launches = %d, want 1", len(launcher.Launches))
	}
	if launcher.Launches[0].Headless {
		t.Error("force_visible run must not launch headless")
	}
}

func TestLaunchDriverFailureWipesProfileOnce(t *testing.T) {
	launcher := drivertest.NewLauncher().
		FailLaunches(fmt.Errorf("chrome refused: %w", driver.ErrUnavailable))
	prof := profile.New(filepath.Join(t.TempDir(), "wpp"))
	if err := prof.Ensure(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(prof.Path, "Cookies"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(MessagingSite(), prof, launcher, logx.Nop(), false, nil)
	c.detectWait = time.Millisecond

	err := c.Launch(context.Background())
	if !errors.Is(err, driver.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if c.State() != Failed {
		t.Errorf("state = %v, want failed", c.State())
	}
	if prof.Exists() {
		t.Error("corrupted profile directory not wiped")
	}
}

func TestStopDuringInteractiveLogin(t *testing.T) {
	// Visible page never shows the ready marker; Stop must break the wait.
	stuck := drivertest.NewPage()
	launcher := drivertest.NewLauncher(stuck)
	c := testController(t, launcher, true, nil)

	done := make(chan error, 1)
	go func() { done <- c.Launch(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	c.Stop()

	select {
	case err := <-done:
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("Launch err = %v, want ErrStopped", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Launch did not observe the stop signal")
	}
	if c.State() != Stopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
}

func TestStopIsIdempotentAndClosesPage(t *testing.T) {
	page := readyPage()
	launcher := drivertest.NewLauncher(page)
	c := testController(t, launcher, false, nil)
	if err := c.Launch(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.Stop()
	c.Stop()

	if !page.Closed {
		t.Error("page not closed on Stop")
	}
	if c.State() != Stopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
	if c.Page() != nil {
		t.Error("Page() should be nil after Stop")
	}
}

// raceLauncher stops the controller between the browser launch and page
// adoption, modeling a Stop that completes while Launch is in flight.
type raceLauncher struct {
	inner *drivertest.Launcher
	ctl   *Controller
}

func (l *raceLauncher) Launch(opts driver.LaunchOptions) (driver.Page, error) {
	page, err := l.inner.Launch(opts)
	l.ctl.Stop()
	return page, err
}

func TestStopWinningLaunchRaceClosesPage(t *testing.T) {
	page := readyPage()
	launcher := &raceLauncher{inner: drivertest.NewLauncher(page)}
	c := testController(t, launcher, false, nil)
	launcher.ctl = c

	err := c.Launch(context.Background())
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("Launch err = %v, want ErrStopped", err)
	}
	if !page.Closed {
		t.Error("page leaked: not closed when Stop won the race")
	}
	if c.State() != Stopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
	if c.Page() != nil {
		t.Error("Page() must be nil after a raced Stop")
	}
}

func TestLaunchAfterStopRefuses(t *testing.T) {
	c := testController(t, drivertest.NewLauncher(readyPage()), false, nil)
	c.Stop()
	if err := c.Launch(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("err = %v, want ErrStopped", err)
	}
}
