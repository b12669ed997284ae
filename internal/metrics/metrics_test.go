package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/probe/internal/session"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(session.Event{Kind: session.EventLogin})
	m.Observe(session.Event{Kind: session.EventRefreshed})
	m.Observe(session.Event{Kind: session.EventRefreshed})
	m.Observe(session.Event{Kind: session.EventExpired})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("login")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("refreshed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("expired")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.events.WithLabelValues("logout")))
}

func TestRequest(t *testing.T) {
	m := New()
	m.Request("users", "success")
	m.Request("users", "")
	m.Request("users", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("users", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("users", "none")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe(session.Event{Kind: session.EventLogout})

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `probe_session_events_total{kind="logout"} 1`)
}
