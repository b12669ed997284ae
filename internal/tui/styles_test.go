package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/probe/internal/catalog"
)

func TestMethodStyleKnownMethods(t *testing.T) {
	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			rendered := MethodStyle(method).Render(method)
			if !strings.Contains(rendered, method) {
				t.Errorf("MethodStyle(%q).Render = %q, want to contain %q", method, rendered, method)
			}
			if got := MethodStyle(method).GetForeground(); got != methodColors[method] {
				t.Errorf("MethodStyle(%q) foreground = %v, want %v", method, got, methodColors[method])
			}
		})
	}
}

func TestMethodStyleUnknownFallback(t *testing.T) {
	if got := MethodStyle("TRACE").GetForeground(); got != lipgloss.Color("#606878") {
		t.Errorf("MethodStyle fallback foreground = %v", got)
	}
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status int
		want   lipgloss.TerminalColor
	}{
		{200, lipgloss.Color("#34d474")},
		{404, lipgloss.Color("#d4a844")},
		{502, lipgloss.Color("#e06060")},
		{0, lipgloss.Color("#8890a0")},
		{302, lipgloss.Color("#8890a0")},
	}
	for _, tc := range tests {
		if got := StatusStyle(tc.status).GetForeground(); got != tc.want {
			t.Errorf("StatusStyle(%d) foreground = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestShimmerLogoContainsLetters(t *testing.T) {
	for _, frame := range []int{0, 17, 500} {
		logo := renderShimmerLogo(frame)
		for _, ch := range "PROBE" {
			if !strings.ContainsRune(logo, ch) {
				t.Errorf("frame %d: logo missing %q", frame, ch)
			}
		}
	}
}

func TestClampByte(t *testing.T) {
	if clampByte(-4) != 0 || clampByte(300) != 255 || clampByte(12.7) != 12 {
		t.Error("clampByte did not clamp to [0,255]")
	}
}

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpBarJoinsEntries(t *testing.T) {
	bar := helpBar([2]string{"j/k", "nav"}, [2]string{"ctrl+s", "send"})
	for _, want := range []string{"j/k", "nav", "ctrl+s", "send"} {
		if !strings.Contains(bar, want) {
			t.Errorf("helpBar missing %q: %q", want, bar)
		}
	}
}

func TestHelpViewListsServices(t *testing.T) {
	items := helpItemsFor([]catalog.Service{
		{ID: "users", Name: "User Service", BaseURL: "http://localhost:3000"},
		{ID: "news", Name: "News Feed", BaseURL: "http://localhost:5000"},
	})
	if len(items) != 2 || items[1].url != "http://localhost:5000" {
		t.Fatalf("helpItemsFor = %+v", items)
	}

	view := helpView(items, 1)
	for _, want := range []string{"User Service", "http://localhost:3000", "News Feed", "ctrl+s"} {
		if !strings.Contains(view, want) {
			t.Errorf("helpView missing %q", want)
		}
	}
	if !strings.Contains(view, "  > ") {
		t.Error("helpView has no cursor marker")
	}
}
