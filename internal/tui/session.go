package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/probe/internal/claims"
	"github.com/naveenspark/probe/internal/session"
)

// countdownTickMsg drives the once-a-second session panel refresh.
type countdownTickMsg time.Time

func countdownTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

// sessionEventMsg carries one manager event into the update loop.
type sessionEventMsg session.Event

// EventSink returns a session listener that forwards events to ch without
// blocking. When ch is full the event is dropped; the panel still catches up
// on the next countdown tick.
func EventSink(ch chan<- session.Event) func(session.Event) {
	return func(ev session.Event) {
		select {
		case ch <- ev:
		default:
		}
	}
}

// waitForEvent reads the next event. A closed channel ends the loop.
func waitForEvent(ch <-chan session.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg(ev)
	}
}

// sessionPanel is the read-only view of the session manager.
type sessionPanel struct {
	snap    session.Snapshot
	now     time.Time
	expired error
	notice  string
}

func (p sessionPanel) update(ev session.Event) sessionPanel {
	p.snap = ev.Session
	switch ev.Kind {
	case session.EventLogin:
		p.expired = nil
		p.notice = "signed in as " + displayName(ev.Session)
	case session.EventRefreshed:
		p.notice = "token refreshed"
	case session.EventTokenReplaced:
		p.notice = "access token replaced"
	case session.EventVerificationChanged:
		if ev.Session.VerificationToken == "" {
			p.notice = "verification complete"
		} else {
			p.notice = "verification pending"
		}
	case session.EventLogout:
		p.expired = nil
		p.notice = "signed out"
	case session.EventExpired:
		p.expired = ev.Err
		if p.expired == nil {
			p.expired = fmt.Errorf("refresh failed")
		}
		p.notice = ""
	}
	return p
}

// sync adopts the live session state. A signed-in live session means any
// expired banner belongs to an older generation.
func (p sessionPanel) sync(live session.Snapshot) sessionPanel {
	p.snap = live
	if live.Authenticated() && p.expired != nil {
		p.expired = nil
		p.notice = ""
	}
	return p
}

func displayName(s session.Snapshot) string {
	if name := s.User.DisplayName(); name != "" {
		return name
	}
	return "unknown user"
}

// View renders two lines: identity with countdown, then banner or claims.
func (p sessionPanel) View(width int) string {
	var first string
	if !p.snap.Authenticated() {
		first = " " + metaStyle.Render("○") + " " + dimStyle.Render("not signed in")
	} else {
		parts := []string{
			presenceDotStyle.Render("●") + " " + selectedStyle.Render(displayName(p.snap)),
			dimStyle.Render("token ") + normalStyle.Render(maskToken(p.snap.AccessToken)),
		}
		if cd, ok := session.Remaining(p.snap, p.now); ok {
			parts = append(parts, dimStyle.Render("expires in ")+accentStyle.Render(cd.String()))
		}
		first = " " + strings.Join(parts, metaStyle.Render("  ·  "))
	}

	var second string
	switch {
	case p.expired != nil:
		second = " " + bannerErrStyle.Render("session expired") + " " + dimStyle.Render(truncStr(p.expired.Error(), max(width-20, 10)))
	case p.snap.VerificationToken != "":
		second = " " + bannerWarnStyle.Render("verify to complete registration") +
			dimStyle.Render("  mfa token ") + goldStyle.Render(p.snap.VerificationToken) +
			metaStyle.Render("  (m to copy)")
	case p.snap.Authenticated():
		if info, ok := claims.Inspect(p.snap.AccessToken); ok {
			second = " " + metaStyle.Render(fmt.Sprintf("jwt sub %s  iat %s  exp %s  gen %s",
				orDash(info.Subject), clockTime(info.IssuedAt), clockTime(info.ExpiresAt), orDash(p.snap.Generation)))
		} else {
			second = " " + metaStyle.Render("gen "+orDash(p.snap.Generation))
		}
	}
	if p.notice != "" && p.expired == nil {
		second += "  " + flashStyle.Render(p.notice)
	}
	return first + "\n" + second
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
