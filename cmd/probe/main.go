package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/internal/config"
	"github.com/naveenspark/probe/internal/console"
	"github.com/naveenspark/probe/internal/logging"
	"github.com/naveenspark/probe/internal/metrics"
	"github.com/naveenspark/probe/internal/session"
	"github.com/naveenspark/probe/internal/tui"
	"github.com/naveenspark/probe/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// errNoAuthService is what refreshes fail with when the catalog has no
// service with a refresh endpoint.
var errNoAuthService = errors.New("catalog has no service with a refresh endpoint")

// signOutTimeout bounds the logout call made on exit.
const signOutTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "probe "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "services":
			printServices(stdout, cat)
			return nil
		case "check":
			if len(args) < 2 {
				return errors.New("usage: probe check <username> (password from PROBE_PASSWORD or stdin)")
			}
			return runCheck(context.Background(), cfg, cat, args[1], stdin, stdout)
		default:
			return fmt.Errorf("unknown command %q (try: probe help)", args[0])
		}
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck // best-effort close

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := wire(cfg, cat, logger)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := w.metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	logger.Info("probe starting", "version", version, "services", len(cat.Services),
		"access_ttl", cfg.AccessTTL.String(), "refresh_lead", cfg.RefreshLead.String())

	p := tea.NewProgram(w.app, tea.WithAltScreen())
	_, runErr := p.Run()

	// The session lives only as long as the process.
	signOut(ctx, w, logger)

	if runErr != nil {
		return fmt.Errorf("tui error: %w", runErr)
	}
	return nil
}

// loadCatalog reads the configured catalog and applies URL overrides.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if cfg.UserServiceURL != "" {
		if svc, ok := cat.AuthService(); ok {
			svc.BaseURL = cfg.UserServiceURL
		}
	}
	return cat, nil
}

// wiring is everything the TUI run needs, assembled from config.
type wiring struct {
	session *session.Manager
	auth    *client.Client // nil when the catalog has no auth service
	runner  *console.Runner
	metrics *metrics.Metrics
	events  chan session.Event
	app     tui.App
}

// authClient returns a client for the catalog's auth service sharing hc, so
// the refresh cookie from login is replayed.
func authClient(cat *catalog.Catalog, hc *http.Client, token func() string) *client.Client {
	svc, ok := cat.AuthService()
	if !ok {
		return nil
	}
	return client.New(svc.BaseURL, client.WithHTTPClient(hc), client.WithToken(token))
}

// newRefresher adapts c to the scheduler. Without an auth service every
// refresh fails, which logs the session out at its refresh point.
func newRefresher(c *client.Client) session.Refresher {
	if c == nil {
		return session.RefresherFunc(func(context.Context) (string, error) {
			return "", errNoAuthService
		})
	}
	return c
}

// newSession builds the manager and the auth client around it.
func newSession(cfg *config.Config, cat *catalog.Catalog, hc *http.Client, logger *slog.Logger, opts ...session.Option) (*session.Manager, *client.Client) {
	var mgr *session.Manager
	auth := authClient(cat, hc, func() string { return mgr.Snapshot().AccessToken })
	opts = append([]session.Option{
		session.WithTTL(cfg.AccessTTL, cfg.RefreshLead),
		session.WithLogger(logger),
	}, opts...)
	mgr = session.NewManager(newRefresher(auth), opts...)
	return mgr, auth
}

func wire(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger) wiring {
	hc := client.NewHTTPClient(cfg.HTTPTimeout)

	m := metrics.New()
	events := make(chan session.Event, 32)
	mgr, auth := newSession(cfg, cat, hc, logger,
		session.WithListener(m.Observe),
		session.WithListener(tui.EventSink(events)),
	)

	token := func() string { return mgr.Snapshot().AccessToken }
	runner := console.NewRunner(cat, mgr, hc, token, logger)

	app := tui.NewApp(cat, mgr, runner,
		tui.WithEvents(events),
		tui.WithResponseObserver(func(service string, resp *client.Response) {
			m.Request(service, console.StatusClass(resp.Status))
		}),
	)

	return wiring{session: mgr, auth: auth, runner: runner, metrics: m, events: events, app: app}
}

// signOut ends a live session on exit: the user service is asked to drop
// the refresh cookie, then the local session is cleared whatever it said.
func signOut(ctx context.Context, w wiring, logger *slog.Logger) {
	if !w.session.Snapshot().Authenticated() {
		return
	}
	if w.auth != nil {
		ctx, cancel := context.WithTimeout(ctx, signOutTimeout)
		err := w.auth.Logout(ctx)
		cancel()
		if err != nil && logger != nil {
			logger.Warn("sign out failed", "err", err)
		}
	}
	w.session.Logout()
}
