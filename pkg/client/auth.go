package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/probe/pkg/domain"
)

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("client.Login: %w", ErrNoToken)
	}
	return &out, nil
}

// Logout asks the service to drop the refresh cookie.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// RefreshToken exchanges the refresh cookie for a new access token.
// A success response without an accessToken is reported as ErrNoToken.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var out domain.RefreshResponse
	if err := c.post(ctx, "/auth/refresh-token", nil, &out); err != nil {
		return "", fmt.Errorf("client.RefreshToken: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("client.RefreshToken: %w", ErrNoToken)
	}
	return out.AccessToken, nil
}

// Refresh implements session.Refresher.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.RefreshToken(ctx)
}

// GetUser fetches a profile by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/user/"+url.PathEscape(id), &u); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &u, nil
}
