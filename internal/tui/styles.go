package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/internal/console"
)

// Shimmer animation for the PROBE logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "P R O B E" as a wave of light moving left to
// right, deep teal (#12343a) to bright cyan (#5eead4).
func renderShimmerLogo(frame int) string {
	const text = "PROBE"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0 + math.Sin(t*0.023)*2.0
		b := math.Pow(math.Sin(phase)*0.5+0.5, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(18 + b*(94-18))
		g := clampByte(52 + b*(234-52))
		bl := clampByte(58 + b*(212-58))
		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5eead4"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	bannerWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	bannerErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	presenceDotStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	methodColors = map[string]lipgloss.Color{
		"GET":    lipgloss.Color("#34d474"),
		"POST":   lipgloss.Color("#f0944a"),
		"PUT":    lipgloss.Color("#60a0e0"),
		"PATCH":  lipgloss.Color("#b080d0"),
		"DELETE": lipgloss.Color("#e06060"),
	}

	statusColors = map[string]lipgloss.Color{
		console.StatusSuccess: lipgloss.Color("#34d474"),
		console.StatusWarning: lipgloss.Color("#d4a844"),
		console.StatusError:   lipgloss.Color("#e06060"),
	}
)

// MethodStyle returns a bold style colored for an HTTP method.
func MethodStyle(method string) lipgloss.Style {
	if c, ok := methodColors[method]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// StatusStyle returns the style for a response status, keyed by its class.
func StatusStyle(status int) lipgloss.Style {
	if c, ok := statusColors[console.StatusClass(status)]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpBar(entries ...[2]string) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = helpEntry(e[0], e[1])
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

func helpItemsFor(services []catalog.Service) []helpItem {
	items := make([]helpItem, 0, len(services))
	for _, s := range services {
		items = append(items, helpItem{label: s.Name, desc: s.BaseURL, url: s.BaseURL})
	}
	return items
}

// helpView renders the help overlay: commands, keys and the service links.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5eead4")).
		Bold(true).
		Render("P R O B E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Poke the services. Watch the session.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5eead4"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	keys := []struct{ key, desc string }{
		{"1-9", "switch service"},
		{"j/k", "select endpoint"},
		{"enter", "edit form (send when there is nothing to fill)"},
		{"ctrl+s", "send request"},
		{"J/K", "scroll response"},
		{"c", "copy response"},
		{"t / m", "copy access / verification token"},
		{"o", "open GET endpoint in browser"},
		{"L", "forget the local session"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-10s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Services (enter to open)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = selStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
