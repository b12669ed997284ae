package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/naveenspark/probe/pkg/client"
)

// ErrMissingInput is returned by Build when a required input is blank.
var ErrMissingInput = errors.New("missing required input")

// PathParams lists the placeholders in the path, written either as :name or
// {name}, in order.
func (e *Endpoint) PathParams() []string {
	var out []string
	for _, seg := range strings.Split(e.Path, "/") {
		if name, ok := paramName(seg); ok {
			out = append(out, name)
		}
	}
	return out
}

func paramName(seg string) (string, bool) {
	switch {
	case strings.HasPrefix(seg, ":") && len(seg) > 1:
		return seg[1:], true
	case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2:
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// Build turns form values into a request. Blank values fall back to the
// input's default; blank optional inputs are left out.
func (e *Endpoint) Build(values map[string]string) (client.Request, error) {
	resolved := make(map[string]string, len(e.Inputs))
	for _, in := range e.Inputs {
		v := strings.TrimSpace(values[in.Name])
		if v == "" {
			v = in.Default
		}
		if v == "" && in.Required {
			return client.Request{}, fmt.Errorf("%w: %s", ErrMissingInput, in.Label)
		}
		resolved[in.Name] = v
	}

	segs := strings.Split(e.Path, "/")
	for i, seg := range segs {
		if name, ok := paramName(seg); ok {
			segs[i] = url.PathEscape(resolved[name])
		}
	}
	path := strings.Join(segs, "/")

	query := url.Values{}
	body := map[string]any{}
	for _, in := range e.Inputs {
		v := resolved[in.Name]
		if v == "" {
			continue
		}
		switch in.In {
		case InQuery:
			query.Set(in.Name, v)
		case InBody:
			body[in.Name] = coerce(in.Type, v)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	req := client.Request{Method: e.Method, Path: path}
	if len(body) > 0 {
		data, err := json.Marshal(body)
		if err != nil {
			return client.Request{}, fmt.Errorf("catalog.Build: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// coerce sends number inputs as JSON numbers when they parse as one.
func coerce(typ, v string) any {
	if typ != "number" {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
