package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/probe/internal/browser"
	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/internal/session"
	"github.com/naveenspark/probe/pkg/client"
)

// Session is what the UI needs from the session manager.
type Session interface {
	Snapshot() session.Snapshot
	Logout()
	CatchUp() bool
}

// copyResultMsg reports a clipboard write.
type copyResultMsg struct {
	what string
	err  error
}

// openResultMsg reports a browser launch.
type openResultMsg struct {
	url string
	err error
}

// Option configures an App.
type Option func(*App)

// WithEvents feeds session events into the panel.
func WithEvents(ch <-chan session.Event) Option {
	return func(a *App) { a.events = ch }
}

// WithResponseObserver is called for every completed console request.
func WithResponseObserver(fn func(service string, resp *client.Response)) Option {
	return func(a *App) { a.observe = fn }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.copy = fn }
}

// WithBrowser replaces the browser launcher.
func WithBrowser(fn func(string) error) Option {
	return func(a *App) { a.open = fn }
}

// App is the root Bubbletea model.
type App struct {
	session  Session
	runner   Runner
	events   <-chan session.Event
	observe  func(string, *client.Response)
	copy     func(string) error
	open     func(string) error
	services []serviceModel
	tab      int
	panel    sessionPanel
	status   string
	helpOpen bool
	helpIdx  int
	help     []helpItem
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates the console over every service in cat.
func NewApp(cat *catalog.Catalog, sess Session, r Runner, opts ...Option) App {
	a := App{
		session: sess,
		runner:  r,
		copy:    clipboard.WriteAll,
		open:    browser.Open,
		help:    helpItemsFor(cat.Services),
	}
	for _, svc := range cat.Services {
		a.services = append(a.services, newServiceModel(svc))
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.panel.snap = sess.Snapshot()
	a.panel.now = time.Now()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), countdownTickCmd(), waitForEvent(a.events))
}

func (a App) current() *serviceModel {
	if a.tab < 0 || a.tab >= len(a.services) {
		return nil
	}
	return &a.services[a.tab]
}

func (a App) isEditing() bool {
	if s := a.current(); s != nil {
		return s.editing
	}
	return false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case countdownTickMsg:
		// A token past its refresh point here means the timer slept
		// through a suspend.
		a.session.CatchUp()
		a.panel.now = time.Time(msg)
		a.panel = a.panel.sync(a.session.Snapshot())
		return a, countdownTickCmd()

	case sessionEventMsg:
		a.panel = a.panel.update(session.Event(msg))
		if live := a.session.Snapshot(); live.Authenticated() {
			a.panel = a.panel.sync(live)
		}
		return a, waitForEvent(a.events)

	case responseMsg:
		for i := range a.services {
			if a.services[i].svc.ID == msg.service {
				a.services[i] = a.services[i].receive(msg)
			}
		}
		if a.observe != nil && msg.resp != nil {
			a.observe(msg.service, msg.resp)
		}
		a.panel = a.panel.sync(a.session.Snapshot())
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			a.status = msg.what + " copied!"
		}
		return a, nil

	case openResultMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("open failed: %v", msg.err)
		} else {
			a.status = "opened " + msg.url
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpIdx < len(a.help)-1 {
				a.helpIdx++
			}
		case "k", "up":
			if a.helpIdx > 0 {
				a.helpIdx--
			}
		case "enter":
			if a.helpIdx < len(a.help) {
				return a, a.openURL(a.help[a.helpIdx].url)
			}
		}
		return a, nil
	}

	a.status = ""
	live := a.session.Snapshot()
	if s := a.current(); s != nil {
		next, cmd, handled := s.updateKeys(msg, a.runner, live.VerificationToken)
		a.services[a.tab] = next
		if handled || next.editing {
			return a, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.helpOpen = true
		a.helpIdx = 0
	case "c":
		if s := a.current(); s != nil && s.resp != nil {
			return a, a.copyText("response", s.responseText())
		}
		a.status = "nothing to copy"
	case "t":
		if live.AccessToken != "" {
			return a, a.copyText("access token", live.AccessToken)
		}
		a.status = "no access token"
	case "m":
		if live.VerificationToken != "" {
			return a, a.copyText("verification token", live.VerificationToken)
		}
		a.status = "no verification pending"
	case "o":
		return a, a.openSelected()
	case "L":
		a.session.Logout()
		a.panel = a.panel.sync(a.session.Snapshot())
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(a.services) {
				a.tab = idx
			}
		}
	}
	return a, nil
}

func (a App) copyText(what, text string) tea.Cmd {
	write := a.copy
	return func() tea.Msg {
		return copyResultMsg{what: what, err: write(text)}
	}
}

func (a App) openURL(url string) tea.Cmd {
	launch := a.open
	return func() tea.Msg {
		return openResultMsg{url: url, err: launch(url)}
	}
}

// openSelected opens the selected endpoint in the browser. Only GET requests
// make sense there.
func (a *App) openSelected() tea.Cmd {
	s := a.current()
	if s == nil {
		return nil
	}
	ep, ok := s.selected()
	if !ok {
		return nil
	}
	if ep.Method != "GET" {
		a.status = "only GET endpoints open in a browser"
		return nil
	}
	req, err := ep.Build(s.formValues(a.session.Snapshot().VerificationToken))
	if err != nil {
		a.status = err.Error()
		return nil
	}
	return a.openURL(s.svc.BaseURL + req.Path)
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo + "\n" + a.panel.View(a.width)

	// Tab bar: one equal-width column per service
	var tabBar strings.Builder
	if n := len(a.services); n > 0 {
		colWidth := a.width / n
		for i, s := range a.services {
			key := fmt.Sprintf("%d", i+1)
			var label string
			if i == a.tab {
				label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(s.svc.ID)
			} else {
				label = metaStyle.Render(key) + " " + dimStyle.Render(s.svc.ID)
			}
			labelWidth := lipgloss.Width(label)
			leftPad := max((colWidth-labelWidth)/2, 0)
			rightPad := max(colWidth-labelWidth-leftPad, 0)
			tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
	}

	// Chrome: logo(1) + panel(2) + tabs(1) + status(1) + help(1) = 6 lines
	const chrome = 6
	bodyHeight := a.height - chrome

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView(a.help, a.helpIdx)
		help = helpBar([2]string{"j/k", "nav"}, [2]string{"enter", "open"}, [2]string{"esc", "close"})
	case a.current() == nil:
		body = " " + dimStyle.Render("no services in catalog")
		help = helpBar([2]string{"q", "quit"})
	case a.isEditing():
		body = a.current().View(a.width, bodyHeight, a.panel.snap.VerificationToken)
		help = helpBar([2]string{"tab", "next"}, [2]string{"enter", "next/send"}, [2]string{"ctrl+s", "send"}, [2]string{"esc", "done"})
	default:
		body = a.current().View(a.width, bodyHeight, a.panel.snap.VerificationToken)
		help = helpBar([2]string{"1-9", "services"}, [2]string{"j/k", "nav"}, [2]string{"enter", "edit"},
			[2]string{"ctrl+s", "send"}, [2]string{"c/t/m", "copy"}, [2]string{"o", "open"},
			[2]string{"?", "help"}, [2]string{"q", "quit"})
	}

	status := ""
	if a.status != "" {
		status = " " + flashStyle.Render(a.status)
	}

	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, help)
}
