package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/internal/config"
	"github.com/naveenspark/probe/pkg/client"
)

var (
	checkOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474")).Render("ok")
	checkFail = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06060")).Render("FAIL")
)

// runCheck walks one session through the user service without the TUI:
// login, profile fetch, token refresh and logout. Each step is printed as
// it completes and the first failure stops the walk.
func runCheck(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, username string, stdin io.Reader, stdout io.Writer) error {
	password, err := readPassword(stdin)
	if err != nil {
		return err
	}

	hc := client.NewHTTPClient(cfg.HTTPTimeout)
	mgr, auth := newSession(cfg, cat, hc, nil)
	if auth == nil {
		return errNoAuthService
	}
	defer mgr.Logout()

	fmt.Fprintf(stdout, "\n  checking %s as %s\n\n", auth.BaseURL(), username)
	step := func(name, detail string, err error) error {
		if err != nil {
			fmt.Fprintf(stdout, "  %-8s %s  %v\n", name, checkFail, err)
			return fmt.Errorf("check %s: %w", name, err)
		}
		fmt.Fprintf(stdout, "  %-8s %s    %s\n", name, checkOK, detail)
		return nil
	}

	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		return step("login", "", err)
	}
	mgr.Login(resp.AccessToken, resp.User)
	snap := mgr.Snapshot()
	cd, _ := mgr.Countdown()
	if err := step("login", snap.User.DisplayName()+"  expires in "+cd.String(), nil); err != nil {
		return err
	}

	if id := string(snap.User.UserID); id != "" {
		u, err := auth.GetUser(ctx, id)
		if err != nil {
			return step("profile", "", err)
		}
		if err := step("profile", "user "+id+" "+u.DisplayName(), nil); err != nil {
			return err
		}
	}

	tok, err := auth.RefreshToken(ctx)
	if err != nil {
		return step("refresh", "", err)
	}
	before := snap.Generation
	mgr.SetAccessToken(tok)
	if err := step("refresh", "generation "+shortGen(before)+" -> "+shortGen(mgr.Snapshot().Generation), nil); err != nil {
		return err
	}

	if err := auth.Logout(ctx); err != nil {
		return step("logout", "", err)
	}
	mgr.Logout()
	if err := step("logout", "refresh cookie dropped", nil); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	return nil
}

// readPassword takes PROBE_PASSWORD, or the first line of stdin.
func readPassword(stdin io.Reader) (string, error) {
	if pw := os.Getenv("PROBE_PASSWORD"); pw != "" {
		return pw, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("no password: set PROBE_PASSWORD or pipe it on stdin")
	}
	return pw, nil
}

func shortGen(g string) string {
	if len(g) > 10 {
		return g[len(g)-10:]
	}
	return g
}
