package tui

import (
	"strings"
	"time"
	"unicode/utf8"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// maskToken keeps the head and tail of a token so two tokens can be told
// apart without printing the whole credential.
func maskToken(tok string) string {
	const head, tail = 10, 6
	if len(tok) <= head+tail+1 {
		return tok
	}
	return tok[:head] + "…" + tok[len(tok)-tail:]
}

// clockTime renders a wall-clock time for claim display.
func clockTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
