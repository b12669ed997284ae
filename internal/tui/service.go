package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/internal/console"
	"github.com/naveenspark/probe/pkg/client"
)

// Runner sends a catalog request. *console.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, serviceID string, ep catalog.Endpoint, values map[string]string) (*client.Response, error)
}

// responseMsg is the result of a send.
type responseMsg struct {
	service  string
	endpoint int
	resp     *client.Response
	err      error
}

// serviceModel is one tab: an endpoint list, the selected endpoint's form
// and its last response.
type serviceModel struct {
	svc     catalog.Service
	cursor  int
	values  []map[string]string
	editing bool
	field   int
	sending bool

	resp    *client.Response
	respFor int
	err     error
	scroll  int
	height  int
}

func newServiceModel(svc catalog.Service) serviceModel {
	values := make([]map[string]string, len(svc.Endpoints))
	for i := range values {
		values[i] = map[string]string{}
	}
	return serviceModel{svc: svc, values: values, respFor: -1}
}

func (m serviceModel) selected() (catalog.Endpoint, bool) {
	if m.cursor < 0 || m.cursor >= len(m.svc.Endpoints) {
		return catalog.Endpoint{}, false
	}
	return m.svc.Endpoints[m.cursor], true
}

// formValues returns the selected endpoint's values with session-sourced
// inputs filled in when left blank.
func (m serviceModel) formValues(verification string) map[string]string {
	ep, ok := m.selected()
	if !ok {
		return nil
	}
	out := make(map[string]string, len(ep.Inputs))
	for k, v := range m.values[m.cursor] {
		out[k] = v
	}
	for _, in := range ep.Inputs {
		if strings.TrimSpace(out[in.Name]) == "" && in.FromSession == catalog.FromVerification {
			out[in.Name] = verification
		}
	}
	return out
}

func (m serviceModel) send(r Runner, verification string) (serviceModel, tea.Cmd) {
	ep, ok := m.selected()
	if !ok || m.sending {
		return m, nil
	}
	m.sending = true
	m.err = nil
	values := m.formValues(verification)
	svcID, idx := m.svc.ID, m.cursor
	return m, func() tea.Msg {
		resp, err := r.Run(context.Background(), svcID, ep, values)
		return responseMsg{service: svcID, endpoint: idx, resp: resp, err: err}
	}
}

func (m serviceModel) receive(msg responseMsg) serviceModel {
	m.sending = false
	m.resp = msg.resp
	m.err = msg.err
	m.respFor = msg.endpoint
	m.scroll = 0
	return m
}

// updateKeys handles keys for the tab. It reports whether it consumed the
// key so the app can fall back to global bindings.
func (m serviceModel) updateKeys(msg tea.KeyMsg, r Runner, verification string) (serviceModel, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+s" {
		m.editing = false
		mm, cmd := m.send(r, verification)
		return mm, cmd, true
	}

	if m.editing {
		ep, _ := m.selected()
		n := len(ep.Inputs)
		switch key {
		case "esc":
			m.editing = false
		case "tab", "down":
			m.field = (m.field + 1) % n
		case "shift+tab", "up":
			m.field = (m.field - 1 + n) % n
		case "enter":
			if m.field == n-1 {
				m.editing = false
				mm, cmd := m.send(r, verification)
				return mm, cmd, true
			}
			m.field++
		default:
			name := ep.Inputs[m.field].Name
			if msg.Type == tea.KeyRunes && (msg.Paste || len(msg.Runes) > 1) {
				m.values[m.cursor][name] = appendText(m.values[m.cursor][name], string(msg.Runes))
			} else {
				m.values[m.cursor][name] = editRune(m.values[m.cursor][name], key)
			}
		}
		return m, nil, true
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.svc.Endpoints)-1 {
			m.cursor++
			m.field = 0
		}
		return m, nil, true
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.field = 0
		}
		return m, nil, true
	case "J", "pgdown":
		m.scroll += 5
		return m, nil, true
	case "K", "pgup":
		m.scroll -= 5
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil, true
	case "enter":
		ep, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		if len(ep.Inputs) == 0 {
			mm, cmd := m.send(r, verification)
			return mm, cmd, true
		}
		m.editing = true
		return m, nil, true
	}
	return m, nil, false
}

// responseText is the formatted body of the last response, for copying.
func (m serviceModel) responseText() string {
	if m.resp == nil {
		return ""
	}
	return console.FormatJSON(m.resp.Body)
}

func (m serviceModel) View(width, height int, verification string) string {
	var b strings.Builder

	listWidth := 0
	for _, ep := range m.svc.Endpoints {
		if w := len(ep.Method) + 1 + len(ep.Path); w > listWidth {
			listWidth = w
		}
	}

	fmt.Fprintf(&b, " %s %s\n", selectedStyle.Render(m.svc.Name), metaStyle.Render(m.svc.BaseURL))
	for i, ep := range m.svc.Endpoints {
		method := MethodStyle(ep.Method).Render(padRight(ep.Method, 6))
		path := padRight(ep.Path, listWidth-6)
		line := method + " " + normalStyle.Render(path) + "  " + dimStyle.Render(truncStr(ep.Title, max(width-listWidth-8, 8)))
		if i == m.cursor {
			fmt.Fprintf(&b, "%s%s\n", accentStyle.Render(">"), selectedRowBg.Render(line))
		} else {
			fmt.Fprintf(&b, " %s\n", line)
		}
	}

	ep, ok := m.selected()
	if !ok {
		return b.String()
	}

	b.WriteString("\n")
	if ep.Description != "" {
		fmt.Fprintf(&b, " %s\n", dimStyle.Render(ep.Description))
	}
	if ep.Auth != catalog.AuthNone {
		fmt.Fprintf(&b, " %s\n", goldStyle.Render("session: "+string(ep.Auth)))
	}
	b.WriteString(m.formView(ep, verification))

	b.WriteString("\n")
	b.WriteString(m.responseView(width, height-strings.Count(b.String(), "\n")-1))
	return b.String()
}

func (m serviceModel) formView(ep catalog.Endpoint, verification string) string {
	if len(ep.Inputs) == 0 {
		return ""
	}
	var b strings.Builder
	labelWidth := 0
	for _, in := range ep.Inputs {
		if w := len(in.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for i, in := range ep.Inputs {
		value := m.values[m.cursor][in.Name]
		focused := m.editing && i == m.field

		cursor := " "
		style := metaStyle
		if focused {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		label := padRight(in.Label, labelWidth)
		if in.Required {
			label += "*"
		} else {
			label += " "
		}

		var shown string
		switch {
		case value != "" && in.Secret:
			shown = normalStyle.Render(strings.Repeat("•", len([]rune(value))))
		case value != "":
			shown = normalStyle.Render(value)
		case in.FromSession == catalog.FromVerification && verification != "":
			shown = goldStyle.Render(verification) + metaStyle.Render(" (from session)")
		case in.Default != "":
			shown = inputPlaceholderStyle.Render(in.Default)
		default:
			shown = inputPlaceholderStyle.Render(in.Placeholder)
		}
		if focused {
			if value == "" {
				shown = accentStyle.Render("█")
			} else {
				shown += accentStyle.Render("█")
			}
		}
		fmt.Fprintf(&b, " %s %s %s", cursor, style.Render(label), shown)
		if focused && in.Hint != "" {
			b.WriteString("  " + metaStyle.Render(in.Hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m serviceModel) responseView(width, height int) string {
	switch {
	case m.sending:
		return " " + dimStyle.Render("sending...")
	case m.err != nil:
		return " " + bannerErrStyle.Render(m.err.Error())
	case m.resp == nil || m.respFor != m.cursor:
		return " " + sectionHeaderStyle.Render("no response yet")
	}

	r := m.resp
	status := fmt.Sprintf("%d %s", r.Status, r.StatusText)
	header := " " + StatusStyle(r.Status).Render(status) +
		metaStyle.Render(fmt.Sprintf("  %dms  ", r.Duration.Milliseconds())) +
		dimStyle.Render(truncStr(r.URL, max(width-len(status)-16, 10)))

	body, _ := windowLines(console.FormatJSON(r.Body), m.scroll, height-1)
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, line := range splitLines(body) {
		b.WriteString(" " + normalStyle.Render(truncStr(line, max(width-2, 10))) + "\n")
	}
	return b.String()
}
