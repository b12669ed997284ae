// Package catalog describes the backend services and endpoints the console
// can call. A catalog is YAML; a default covering the stock services is
// embedded in the binary.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// AuthAction names the session side effect a successful call has.
type AuthAction string

// Auth actions understood by the console.
const (
	AuthNone     AuthAction = ""
	AuthRegister AuthAction = "register"
	AuthVerify   AuthAction = "verify"
	AuthLogin    AuthAction = "login"
	AuthLogout   AuthAction = "logout"
	AuthRefresh  AuthAction = "refresh"
)

// Input locations.
const (
	InPath  = "path"
	InQuery = "query"
	InBody  = "body"
)

// FromVerification marks an input that is prefilled from the session's
// pending verification token.
const FromVerification = "verification"

// Catalog is the full list of services.
type Catalog struct {
	Services []Service `yaml:"services"`
}

// Service is one backend with a base URL.
type Service struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	BaseURL   string     `yaml:"base_url"`
	Endpoints []Endpoint `yaml:"endpoints"`
}

// Endpoint is one callable route.
type Endpoint struct {
	Title       string     `yaml:"title"`
	Method      string     `yaml:"method"`
	Path        string     `yaml:"path"`
	Description string     `yaml:"description"`
	Auth        AuthAction `yaml:"auth"`
	Inputs      []Input    `yaml:"inputs"`
}

// Input is one form field of an endpoint.
type Input struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Type        string `yaml:"type"`
	Placeholder string `yaml:"placeholder"`
	Hint        string `yaml:"hint"`
	Default     string `yaml:"default"`
	In          string `yaml:"in"`
	Required    bool   `yaml:"required"`
	Secret      bool   `yaml:"secret"`
	FromSession string `yaml:"from_session"`
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid catalog")

var knownMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

var knownAuth = map[AuthAction]bool{
	AuthNone: true, AuthRegister: true, AuthVerify: true,
	AuthLogin: true, AuthLogout: true, AuthRefresh: true,
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("catalog.Default: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	c.normalize()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Service returns the service with the given id.
func (c *Catalog) Service(id string) (*Service, bool) {
	for i := range c.Services {
		if c.Services[i].ID == id {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// AuthService returns the first service with a refresh endpoint, which is the
// one that owns the session.
func (c *Catalog) AuthService() (*Service, bool) {
	for i := range c.Services {
		for _, ep := range c.Services[i].Endpoints {
			if ep.Auth == AuthRefresh {
				return &c.Services[i], true
			}
		}
	}
	return nil, false
}

func (c *Catalog) normalize() {
	for i := range c.Services {
		svc := &c.Services[i]
		svc.BaseURL = strings.TrimRight(svc.BaseURL, "/")
		if svc.Name == "" {
			svc.Name = svc.ID
		}
		for j := range svc.Endpoints {
			ep := &svc.Endpoints[j]
			ep.Method = strings.ToUpper(ep.Method)
			params := ep.PathParams()
			for k := range ep.Inputs {
				in := &ep.Inputs[k]
				if in.Label == "" {
					in.Label = in.Name
				}
				if in.In != "" {
					continue
				}
				switch {
				case contains(params, in.Name):
					in.In = InPath
				case ep.Method == http.MethodGet || ep.Method == http.MethodDelete:
					in.In = InQuery
				default:
					in.In = InBody
				}
			}
		}
	}
}

func (c *Catalog) validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("%w: no services", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Services))
	for _, svc := range c.Services {
		if svc.ID == "" {
			return fmt.Errorf("%w: service without id", ErrInvalid)
		}
		if seen[svc.ID] {
			return fmt.Errorf("%w: duplicate service %q", ErrInvalid, svc.ID)
		}
		seen[svc.ID] = true
		if svc.BaseURL == "" {
			return fmt.Errorf("%w: service %q has no base_url", ErrInvalid, svc.ID)
		}
		for _, ep := range svc.Endpoints {
			if err := ep.validate(); err != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrInvalid, svc.ID, ep.Title, err)
			}
		}
	}
	return nil
}

func (e *Endpoint) validate() error {
	if !knownMethods[e.Method] {
		return fmt.Errorf("unknown method %q", e.Method)
	}
	if !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("path %q must start with /", e.Path)
	}
	if !knownAuth[e.Auth] {
		return fmt.Errorf("unknown auth action %q", e.Auth)
	}
	names := make(map[string]bool, len(e.Inputs))
	for _, in := range e.Inputs {
		if in.Name == "" {
			return errors.New("input without name")
		}
		if names[in.Name] {
			return fmt.Errorf("duplicate input %q", in.Name)
		}
		names[in.Name] = true
		switch in.In {
		case InPath, InQuery, InBody:
		default:
			return fmt.Errorf("input %q: unknown location %q", in.Name, in.In)
		}
	}
	for _, p := range e.PathParams() {
		if !names[p] {
			return fmt.Errorf("path parameter %q has no input", p)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
