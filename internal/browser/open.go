package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrScheme is returned for URLs that are not http or https. Catalog base
// URLs come from user-editable files, so nothing else is handed to the OS.
var ErrScheme = errors.New("browser: only http and https URLs can be opened")

// Open opens an endpoint URL in the user's default browser.
func Open(rawURL string) error {
	cmd, err := command(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("browser.Open: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, ErrScheme
	}
	switch goos {
	case "darwin":
		return exec.Command("open", u.String()), nil
	case "linux":
		return exec.Command("xdg-open", u.String()), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u.String()), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
