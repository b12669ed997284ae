package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	var ids []string
	for _, s := range c.Services {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"games", "users", "reviews", "news", "likes", "notifications"}, ids)

	users, ok := c.Service("users")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:3000", users.BaseURL)

	auth, ok := c.AuthService()
	require.True(t, ok)
	assert.Equal(t, "users", auth.ID)

	actions := map[AuthAction]string{}
	for _, ep := range users.Endpoints {
		if ep.Auth != AuthNone {
			actions[ep.Auth] = ep.Path
		}
	}
	assert.Equal(t, map[AuthAction]string{
		AuthRegister: "/auth/createUser",
		AuthVerify:   "/auth/MFA-check",
		AuthLogin:    "/auth/login",
		AuthLogout:   "/auth/logout",
		AuthRefresh:  "/auth/refresh-token",
	}, actions)
}

func TestDefault_InputLocations(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	games, _ := c.Service("games")
	var byGenre *Endpoint
	for i := range games.Endpoints {
		if games.Endpoints[i].Path == "/games/genres/{genre}" {
			byGenre = &games.Endpoints[i]
		}
	}
	require.NotNil(t, byGenre)
	locs := map[string]string{}
	for _, in := range byGenre.Inputs {
		locs[in.Name] = in.In
	}
	assert.Equal(t, map[string]string{"genre": InPath, "skip": InQuery, "limit": InQuery}, locs)

	users, _ := c.Service("users")
	for _, ep := range users.Endpoints {
		if ep.Auth != AuthVerify {
			continue
		}
		for _, in := range ep.Inputs {
			assert.Equal(t, InBody, in.In)
		}
		assert.Equal(t, FromVerification, ep.Inputs[1].FromSession)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "services: []"},
		{"no id", "services:\n  - base_url: http://x\n"},
		{"duplicate", "services:\n  - {id: a, base_url: http://x}\n  - {id: a, base_url: http://y}\n"},
		{"no base url", "services:\n  - {id: a}\n"},
		{"bad method", "services:\n  - id: a\n    base_url: http://x\n    endpoints:\n      - {title: t, method: FETCH, path: /x}\n"},
		{"relative path", "services:\n  - id: a\n    base_url: http://x\n    endpoints:\n      - {title: t, method: GET, path: x}\n"},
		{"undeclared param", "services:\n  - id: a\n    base_url: http://x\n    endpoints:\n      - {title: t, method: GET, path: /x/:id}\n"},
		{"bad auth", "services:\n  - id: a\n    base_url: http://x\n    endpoints:\n      - {title: t, method: POST, path: /x, auth: sudo}\n"},
		{"bad location", "services:\n  - id: a\n    base_url: http://x\n    endpoints:\n      - title: t\n        method: POST\n        path: /x\n        inputs: [{name: q, in: header}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("services: [\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yaml := "services:\n  - id: local\n    base_url: http://localhost:9000/\n    endpoints:\n      - {title: Ping, method: get, path: /ping}\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Services, 1)
	svc := c.Services[0]
	assert.Equal(t, "http://localhost:9000", svc.BaseURL)
	assert.Equal(t, "local", svc.Name)
	assert.Equal(t, "GET", svc.Endpoints[0].Method)

	_, ok := c.AuthService()
	assert.False(t, ok)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Services, 6)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
