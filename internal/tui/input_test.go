package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	long := strings.Repeat("p", maxInputLen)
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"first char of username", "", "a", "a"},
		{"digit in user id", "4", "2", "42"},
		{"at sign in email", "ada", "@", "ada@"},
		{"space key", "Ada", "space", "Ada "},
		{"literal space", "Ada", " ", "Ada "},
		{"backspace", "hunter2", "backspace", "hunter"},
		{"backspace on empty", "", "backspace", ""},
		{"backspace removes accented rune", "josé", "backspace", "jos"},
		{"backspace removes emoji", "gg\U0001f3ae", "backspace", "gg"},
		{"full field rejects rune", long, "x", long},
		{"full field still deletes", long, "backspace", long[:len(long)-1]},
		{"named key ignored", "abc", "shift+enter", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", truncStr(tc.start, 12), tc.key, truncStr(got, 12), truncStr(tc.want, 12))
			}
		})
	}
}

func TestEditRuneIgnoresNavigationKeys(t *testing.T) {
	for _, key := range []string{"enter", "esc", "tab", "shift+tab", "up", "down", "left", "right", "ctrl+s", "ctrl+c", "pgup", "pgdown"} {
		if got := editRune("token", key); got != "token" {
			t.Errorf("editRune(token, %q) = %q, want unchanged", key, got)
		}
	}
}

func TestAppendText(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"
	tests := []struct {
		name  string
		start string
		paste string
		want  string
	}{
		{"pasted token", "", jwt, jwt},
		{"appends to typed text", "Bearer ", jwt, "Bearer " + jwt},
		{"multiline review flattened", "", "great game\nwould play\r\nagain", "great game would play again"},
		{"clamped at limit", strings.Repeat("a", maxInputLen-2), "xyz", strings.Repeat("a", maxInputLen-2) + "xy"},
		{"full field unchanged", strings.Repeat("a", maxInputLen), "xyz", strings.Repeat("a", maxInputLen)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := appendText(tc.start, tc.paste); got != tc.want {
				t.Errorf("appendText = %q, want %q", truncStr(got, 40), truncStr(tc.want, 40))
			}
		})
	}
}

func TestTruncateToHeight(t *testing.T) {
	body := "{\n  \"id\": 1,\n  \"title\": \"Hades\"\n}\n"
	tests := []struct {
		name string
		max  int
		want string
	}{
		{"cut", 2, "{\n  \"id\": 1,\n"},
		{"exact", 4, body},
		{"roomy", 10, body},
		{"zero keeps all", 0, body},
		{"negative keeps all", -1, body},
	}
	for _, tc := range tests {
		if got := truncateToHeight(body, tc.max); got != tc.want {
			t.Errorf("%s: truncateToHeight(%d) = %q, want %q", tc.name, tc.max, got, tc.want)
		}
	}
}

func TestWindowLines(t *testing.T) {
	input := "l1\nl2\nl3\nl4\nl5\n"
	tests := []struct {
		name       string
		offset     int
		height     int
		want       string
		wantOffset int
	}{
		{"top", 0, 2, "l1\nl2", 0},
		{"middle", 2, 2, "l3\nl4", 2},
		{"clamped past end", 10, 2, "l4\nl5", 3},
		{"negative offset", -3, 2, "l1\nl2", 0},
		{"taller than content", 1, 10, "l1\nl2\nl3\nl4\nl5", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, off := windowLines(input, tc.offset, tc.height)
			if got != tc.want || off != tc.wantOffset {
				t.Errorf("windowLines(%d, %d) = %q, %d; want %q, %d", tc.offset, tc.height, got, off, tc.want, tc.wantOffset)
			}
		})
	}
}
