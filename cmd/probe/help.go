package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/probe/internal/catalog"
)

func printHelp(w io.Writer) {
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
	commands := []struct{ cmd, desc string }{
		{"probe", "Open the console (interactive TUI)"},
		{"probe services", "List the services and endpoints in the catalog"},
		{"probe check <username>", "Log in, fetch the profile, refresh and log out"},
		{"probe --version", "Show version"},
		{"probe help", "You are here"},
	}
	env := []struct{ key, desc string }{
		{"PROBE_CATALOG", "YAML service catalog (default: built in)"},
		{"PROBE_USER_SERVICE_URL", "Override the user service base URL"},
		{"PROBE_ACCESS_TTL", "Access token lifetime (default 15m)"},
		{"PROBE_REFRESH_LEAD", "Refresh this long before expiry (default 1m)"},
		{"PROBE_HTTP_TIMEOUT", "Per-request timeout (default 30s)"},
		{"PROBE_LOG_LEVEL", "debug, info, warn or error"},
		{"PROBE_LOG_FILE", "Log file (default ~/.probe/probe.log)"},
		{"PROBE_METRICS_ADDR", "Serve /metrics on this address"},
		{"PROBE_PASSWORD", "Password for probe check (default: read stdin)"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  Environment:\n")
	for _, e := range env {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", e.key)), descStyle.Render(e.desc))
	}
	fmt.Fprintln(w)
}

func printServices(w io.Writer, cat *catalog.Catalog) {
	nameStyle := lipgloss.NewStyle().Bold(true)
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	authStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a844"))

	for i, svc := range cat.Services {
		fmt.Fprintf(w, "\n  %d %s  %s\n", i+1, nameStyle.Render(svc.Name), urlStyle.Render(svc.BaseURL))
		for _, ep := range svc.Endpoints {
			line := fmt.Sprintf("    %-7s %-36s %s", ep.Method, ep.Path, ep.Title)
			if ep.Auth != catalog.AuthNone {
				line += "  " + authStyle.Render("["+string(ep.Auth)+"]")
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
}
