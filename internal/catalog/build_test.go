package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpoint(t *testing.T, method, path string, inputs ...Input) Endpoint {
	t.Helper()
	c := Catalog{Services: []Service{{ID: "s", BaseURL: "http://x", Endpoints: []Endpoint{{
		Title: "t", Method: method, Path: path, Inputs: inputs,
	}}}}}
	c.normalize()
	require.NoError(t, c.validate())
	return c.Services[0].Endpoints[0]
}

func TestPathParams(t *testing.T) {
	ep := Endpoint{Path: "/likes/like/:userId/{reviewId}/x"}
	assert.Equal(t, []string{"userId", "reviewId"}, ep.PathParams())
	assert.Empty(t, (&Endpoint{Path: "/a/:/{}"}).PathParams())
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		ep       Endpoint
		values   map[string]string
		wantPath string
		wantBody string
	}{
		{
			name:     "colon and brace params are escaped",
			ep:       endpoint(t, "GET", "/games/search/{title}", Input{Name: "title", Required: true}),
			values:   map[string]string{"title": "half life/2"},
			wantPath: "/games/search/half%20life%2F2",
		},
		{
			name: "query with defaults",
			ep: endpoint(t, "GET", "/games/genres/{genre}",
				Input{Name: "genre", Required: true},
				Input{Name: "skip", Default: "0"},
				Input{Name: "limit", Default: "10"}),
			values:   map[string]string{"genre": "Action", "limit": "5"},
			wantPath: "/games/genres/Action?limit=5&skip=0",
		},
		{
			name: "blank optional query is dropped",
			ep: endpoint(t, "GET", "/news/articles",
				Input{Name: "limit"}, Input{Name: "offset"}),
			values:   map[string]string{"limit": " "},
			wantPath: "/news/articles",
		},
		{
			name: "body with number coercion",
			ep: endpoint(t, "POST", "/reviews/create",
				Input{Name: "userId", Type: "number", Required: true},
				Input{Name: "reviewScore", Type: "number", Required: true},
				Input{Name: "review", Required: true}),
			values:   map[string]string{"userId": "1", "reviewScore": "8.5", "review": "Great game!"},
			wantPath: "/reviews/create",
			wantBody: `{"review":"Great game!","reviewScore":8.5,"userId":1}`,
		},
		{
			name:     "non numeric number stays a string",
			ep:       endpoint(t, "POST", "/x", Input{Name: "n", Type: "number"}),
			values:   map[string]string{"n": "abc"},
			wantPath: "/x",
			wantBody: `{"n":"abc"}`,
		},
		{
			name: "path and body mixed",
			ep: endpoint(t, "PUT", "/auth/updateUser/:userId",
				Input{Name: "userId", Required: true},
				Input{Name: "userBio"},
				Input{Name: "username"}),
			values:   map[string]string{"userId": "7", "userBio": "hi"},
			wantPath: "/auth/updateUser/7",
			wantBody: `{"userBio":"hi"}`,
		},
		{
			name:     "no inputs",
			ep:       endpoint(t, "POST", "/auth/logout"),
			wantPath: "/auth/logout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.ep.Build(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.ep.Method, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			if tt.wantBody == "" {
				assert.Nil(t, req.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, string(req.Body))
			}
		})
	}
}

func TestBuild_MissingRequired(t *testing.T) {
	ep := endpoint(t, "POST", "/auth/login",
		Input{Name: "username", Label: "Username", Required: true},
		Input{Name: "password", Label: "Password", Required: true})

	_, err := ep.Build(map[string]string{"username": "ada"})
	require.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "Password")
}
