// Package session owns one controlled browser's lifecycle for one target
// site: launch, login-state detection, headless-to-visible escalation, and
// shutdown. A session is never handed to the messaging or polling layers
// before reaching the Ready state.
package session

import "github.com/vcampelo/zaporder/internal/driver"

// Target names the site a session is bound to.
type Target string

const (
	TargetMessaging Target = "Whatsapp"
	TargetOrders    Target = "Whatsmenu"
)

// State is the session lifecycle state machine:
//
//	NotStarted → Launching → DetectingLogin →
//	    {AwaitingManualLogin → Launching(visible)} → Ready → Stopped
//
// Failed absorbs from any non-terminal state.
type State int

const (
	NotStarted State = iota
	Launching
	DetectingLogin
	AwaitingManualLogin
	Ready
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Launching:
		return "launching"
	case DetectingLogin:
		return "detecting login"
	case AwaitingManualLogin:
		return "awaiting manual login"
	case Ready:
		return "ready"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoginStatus is the outcome of a login probe.
type LoginStatus int

const (
	LoggedIn LoginStatus = iota
	NeedsLogin
	// Indeterminate means neither the ready marker nor the credentials
	// marker resolved. Treated as NeedsLogin: requiring human interaction
	// is safer than silently operating logged-out.
	Indeterminate
)

// Site describes one target site: where to navigate and which markers prove
// it is loaded-and-authenticated versus asking for credentials.
type Site struct {
	Target Target
	URL    string
	Args   []string // extra browser arguments for this site

	// ReadyMarkers prove the site is loaded and authenticated.
	ReadyMarkers []driver.Candidate
	// LoginMarkers indicate the site is asking for credentials
	// (QR code, login form).
	LoginMarkers []driver.Candidate
}

// MessagingSite returns the WhatsApp Web site definition.
func MessagingSite() Site {
	return Site{
		Target: TargetMessaging,
		URL:    "https://web.whatsapp.com/",
		ReadyMarkers: []driver.Candidate{
			{Strategy: driver.ID, Expr: "side"},
		},
		LoginMarkers: []driver.Candidate{
			{Strategy: driver.XPath, Expr: `//*[@data-testid="qr-code"]`},
			{Strategy: driver.CSS, Expr: `canvas[aria-label]`},
		},
	}
}

// OrdersSite returns the Whatsmenu dashboard site definition. The URL
// lands on the login page with a callback straight into the requests
// dashboard.
func OrdersSite() Site {
	return Site{
		Target: TargetOrders,
		URL: "https://next.whatsmenu.com.br/auth/login?callbackUrl=https%3A" +
			"%2F%2Fnext.whatsmenu.com.br%2Fdashboard%2Frequest",
		Args: []string{"--disable-print-preview"},
		ReadyMarkers: []driver.Candidate{
			{Strategy: driver.CSS, Expr: "#main > section > div"},
		},
		LoginMarkers: []driver.Candidate{
			{Strategy: driver.XPath, Expr: "//form[@class]"},
			{Strategy: driver.CSS, Expr: `input[type="email"]`},
		},
	}
}
