package session

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// refreshTimeout bounds a single call to the Refresher.
const refreshTimeout = 30 * time.Second

// ErrEmptyRefresh is reported when the refresher succeeded without a token.
var ErrEmptyRefresh = errors.New("refresh returned no access token")

// adoptLocked installs token as a new generation: expiry restarts at
// now+ttl, the previous timer is cancelled and exactly one new timer is
// armed at expiry-lead. The expiry carries no monotonic reading, so
// comparisons against it count time spent suspended.
func (m *Manager) adoptLocked(token string) Snapshot {
	m.cancelLocked()

	now := m.clock.Now()
	m.token = token
	m.expiry = now.Add(m.ttl).Round(0)
	m.gen++
	m.genID = newGenerationID(now, m.gen)
	m.refreshing = false

	gen := m.gen
	m.timer = m.clock.AfterFunc(m.ttl-m.lead, func() { m.fire(gen) })
	return m.snapshotLocked()
}

func (m *Manager) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// fire runs on the timer's goroutine. A timer whose generation has been
// superseded returns without side effects, which covers the case where
// Stop lost the race against an already-started callback.
func (m *Manager) fire(gen uint64) {
	m.mu.Lock()
	genID, ok := m.beginRefreshLocked(gen)
	m.mu.Unlock()
	if ok {
		m.refresh(gen, genID)
	}
}

// CatchUp starts the refresh at once when the wall clock has already passed
// the refresh point but the timer has not fired. Timers follow the
// monotonic clock, which stops while the machine is suspended, so after a
// resume the timer can be far behind. It reports whether a refresh started.
func (m *Manager) CatchUp() bool {
	m.mu.Lock()
	if m.token == "" || m.clock.Now().Round(0).Before(m.expiry.Add(-m.lead)) {
		m.mu.Unlock()
		return false
	}
	gen := m.gen
	genID, ok := m.beginRefreshLocked(gen)
	m.mu.Unlock()
	if !ok {
		return false
	}

	m.logger.Info("session refresh overdue", slog.String("generation", genID))
	go m.refresh(gen, genID)
	return true
}

// beginRefreshLocked claims the refresh for gen. At most one refresh runs
// per generation whether it was started by the timer or by CatchUp.
func (m *Manager) beginRefreshLocked(gen uint64) (string, bool) {
	if gen != m.gen || m.token == "" || m.refreshing {
		return "", false
	}
	m.refreshing = true
	return m.genID, true
}

func (m *Manager) refresh(gen uint64, genID string) {
	m.logger.Debug("session refresh started", slog.String("generation", genID))

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	token, err := m.refresher.Refresh(ctx)
	cancel()
	if err == nil && token == "" {
		err = ErrEmptyRefresh
	}
	m.applyRefresh(gen, genID, token, err)
}

// applyRefresh lands a refresh outcome. Results for a generation that is no
// longer current are dropped: a newer login or logout already decided the
// session's fate.
func (m *Manager) applyRefresh(gen uint64, genID, token string, err error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		m.logger.Debug("session refresh discarded", slog.String("generation", genID))
		return
	}

	if err != nil {
		snap := m.resetLocked()
		m.queueLocked(Event{Kind: EventExpired, Session: snap, Err: err})
		m.mu.Unlock()

		m.logger.Warn("session refresh failed",
			slog.String("generation", genID),
			slog.String("reason", "refresh_failed"),
			slog.Any("error", err))
		m.flush()
		return
	}

	snap := m.adoptLocked(token)
	m.queueLocked(Event{Kind: EventRefreshed, Session: snap})
	m.mu.Unlock()

	m.logger.Info("session refreshed",
		slog.String("previous", genID),
		slog.String("generation", snap.Generation),
		slog.Time("expiry", snap.Expiry))
	m.flush()
}

// newGenerationID returns a ULID stamped with the adoption time. seq is the
// fallback if the entropy source fails.
func newGenerationID(now time.Time, seq uint64) string {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "gen-" + strconv.FormatUint(seq, 10)
	}
	return id.String()
}
