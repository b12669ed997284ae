// Package console sends catalog requests and applies their session side
// effects.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/naveenspark/probe/internal/catalog"
	"github.com/naveenspark/probe/pkg/client"
	"github.com/naveenspark/probe/pkg/domain"
)

// ErrUnknownService is returned by Run for a service id with no client.
var ErrUnknownService = errors.New("unknown service")

// Session is the part of the session manager the runner drives.
type Session interface {
	Login(token string, user *domain.User)
	Logout()
	SetAccessToken(token string)
	SetVerificationToken(token string)
}

// Runner owns one client per catalog service.
type Runner struct {
	clients map[string]*client.Client
	session Session
	logger  *slog.Logger
}

// NewRunner builds a client for every service in cat. All clients share hc so
// the refresh cookie set by one is sent by all.
func NewRunner(cat *catalog.Catalog, sess Session, hc *http.Client, token func() string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Runner{
		clients: make(map[string]*client.Client, len(cat.Services)),
		session: sess,
		logger:  logger,
	}
	for _, svc := range cat.Services {
		r.clients[svc.ID] = client.New(svc.BaseURL, client.WithHTTPClient(hc), client.WithToken(token))
	}
	return r
}

// Run builds the request for ep from values, sends it, and applies the
// endpoint's auth action when the call succeeded. Only build errors and
// unknown services are returned as errors; failed calls come back as a
// Response.
func (r *Runner) Run(ctx context.Context, serviceID string, ep catalog.Endpoint, values map[string]string) (*client.Response, error) {
	c, ok := r.clients[serviceID]
	if !ok {
		return nil, fmt.Errorf("console.Run: %w: %q", ErrUnknownService, serviceID)
	}
	req, err := ep.Build(values)
	if err != nil {
		return nil, fmt.Errorf("console.Run: %w", err)
	}

	resp := c.Send(ctx, req)
	r.logger.Info("request",
		"service", serviceID,
		"method", req.Method,
		"url", resp.URL,
		"status", resp.Status,
		"duration_ms", resp.Duration.Milliseconds(),
		"request_id", resp.RequestID,
	)
	if resp.OK {
		r.apply(ep.Auth, resp)
	}
	return resp, nil
}

func (r *Runner) apply(action catalog.AuthAction, resp *client.Response) {
	switch action {
	case catalog.AuthRegister, catalog.AuthLogin:
		var out domain.AuthResponse
		if err := resp.Decode(&out); err != nil || out.AccessToken == "" {
			r.logger.Warn("auth response without token", "action", string(action), "request_id", resp.RequestID)
			return
		}
		r.session.Login(out.AccessToken, out.User)
		if action == catalog.AuthRegister && out.User != nil && out.User.MFAToken != "" {
			r.session.SetVerificationToken(out.User.MFAToken)
		}
	case catalog.AuthVerify:
		r.session.SetVerificationToken("")
	case catalog.AuthLogout:
		r.session.Logout()
	case catalog.AuthRefresh:
		var out domain.RefreshResponse
		if err := resp.Decode(&out); err != nil || out.AccessToken == "" {
			r.logger.Warn("refresh response without token", "request_id", resp.RequestID)
			return
		}
		r.session.SetAccessToken(out.AccessToken)
	}
}
