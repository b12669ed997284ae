package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/naveenspark/probe/pkg/domain"
)

const (
	// DefaultAccessTTL is how long an adopted access token is considered valid.
	DefaultAccessTTL = 15 * time.Minute

	// DefaultRefreshLead is how long before expiry the refresh fires.
	DefaultRefreshLead = time.Minute
)

// Refresher exchanges the ambient refresh credential for a new access token.
// An empty token with a nil error counts as a failed refresh.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (string, error)

// Refresh calls f(ctx).
func (f RefresherFunc) Refresh(ctx context.Context) (string, error) { return f(ctx) }

// Snapshot is a copy of the session state. User points at a copy of the
// manager's record, so changing it does not alter the session.
type Snapshot struct {
	AccessToken       string
	User              *domain.User
	VerificationToken string
	Expiry            time.Time
	// Generation names the lineage of the current access token.
	Generation string
}

// Authenticated reports whether the snapshot holds an access token.
func (s Snapshot) Authenticated() bool { return s.AccessToken != "" }

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithTTL overrides the access token lifetime and the refresh lead.
// Invalid pairs are ignored.
func WithTTL(ttl, lead time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 && lead > 0 && lead < ttl {
			m.ttl = ttl
			m.lead = lead
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithListener registers fn to receive every Event. Events are delivered
// outside the state lock, one at a time and in the order the transitions
// happened. A listener may call back into the Manager; the resulting event
// is delivered after the current one.
func WithListener(fn func(Event)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.listeners = append(m.listeners, fn)
		}
	}
}

// Manager owns the session state and its refresh timer.
type Manager struct {
	clock     Clock
	refresher Refresher
	ttl       time.Duration
	lead      time.Duration
	logger    *slog.Logger
	listeners []func(Event)

	mu           sync.Mutex
	token        string
	user         *domain.User
	verification string
	expiry       time.Time
	gen          uint64
	genID        string
	timer        Timer
	refreshing   bool

	pending  []Event
	flushing bool
}

// NewManager returns an empty session that renews tokens through r.
func NewManager(r Refresher, opts ...Option) *Manager {
	m := &Manager{
		clock:     systemClock{},
		refresher: r,
		ttl:       DefaultAccessTTL,
		lead:      DefaultRefreshLead,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login adopts token and user, clears any pending verification token and
// arms a refresh for the new generation. An empty token logs out.
func (m *Manager) Login(token string, user *domain.User) {
	if token == "" {
		m.Logout()
		return
	}
	if user == nil {
		user = &domain.User{}
	}

	u := *user

	m.mu.Lock()
	m.user = &u
	m.verification = ""
	snap := m.adoptLocked(token)
	m.queueLocked(Event{Kind: EventLogin, Session: snap})
	m.mu.Unlock()

	m.logger.Info("session login",
		slog.String("generation", snap.Generation),
		slog.String("user", u.DisplayName()),
		slog.Time("expiry", snap.Expiry))
	m.flush()
}

// Logout clears the session and cancels the pending refresh.
// Calling it on an empty session does nothing.
func (m *Manager) Logout() {
	m.mu.Lock()
	if m.empty() {
		m.mu.Unlock()
		return
	}
	prev := m.genID
	snap := m.resetLocked()
	m.queueLocked(Event{Kind: EventLogout, Session: snap})
	m.mu.Unlock()

	m.logger.Info("session logout", slog.String("generation", prev), slog.String("reason", "explicit"))
	m.flush()
}

// SetAccessToken replaces the access token after an out-of-band refresh and
// re-arms the scheduler. User and verification token are left untouched.
// An empty token logs out.
func (m *Manager) SetAccessToken(token string) {
	if token == "" {
		m.Logout()
		return
	}

	m.mu.Lock()
	if m.user == nil {
		m.user = &domain.User{}
	}
	snap := m.adoptLocked(token)
	m.queueLocked(Event{Kind: EventTokenReplaced, Session: snap})
	m.mu.Unlock()

	m.logger.Info("session token replaced",
		slog.String("generation", snap.Generation),
		slog.Time("expiry", snap.Expiry))
	m.flush()
}

// SetVerificationToken replaces the pending verification token. An empty
// string clears it. Expiry and the refresh timer are not affected.
func (m *Manager) SetVerificationToken(token string) {
	m.mu.Lock()
	if m.verification == token {
		m.mu.Unlock()
		return
	}
	m.verification = token
	m.queueLocked(Event{Kind: EventVerificationChanged, Session: m.snapshotLocked()})
	m.mu.Unlock()

	m.logger.Debug("session verification token changed", slog.Bool("pending", token != ""))
	m.flush()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Countdown returns the time left on the current token by wall-clock time,
// or false when logged out.
func (m *Manager) Countdown() (Countdown, bool) {
	return Remaining(m.Snapshot(), m.clock.Now())
}

// Armed reports whether a refresh is scheduled for the current generation.
func (m *Manager) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

func (m *Manager) empty() bool {
	return m.token == "" && m.user == nil && m.verification == "" && m.timer == nil
}

func (m *Manager) snapshotLocked() Snapshot {
	var user *domain.User
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return Snapshot{
		AccessToken:       m.token,
		User:              user,
		VerificationToken: m.verification,
		Expiry:            m.expiry,
		Generation:        m.genID,
	}
}

// resetLocked empties the session. The generation is bumped so that a
// refresh still in flight for the old token is discarded on return.
func (m *Manager) resetLocked() Snapshot {
	m.cancelLocked()
	m.token = ""
	m.user = nil
	m.verification = ""
	m.expiry = time.Time{}
	m.gen++
	m.genID = ""
	m.refreshing = false
	return m.snapshotLocked()
}

// queueLocked records ev in transition order. It is delivered by flush.
func (m *Manager) queueLocked(ev Event) {
	if len(m.listeners) > 0 {
		m.pending = append(m.pending, ev)
	}
}

// flush delivers queued events outside the lock. Only one goroutine
// delivers at a time; a caller that finds delivery in progress leaves its
// event to that goroutine, which keeps the order intact.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.flushing {
		m.mu.Unlock()
		return
	}
	m.flushing = true
	for len(m.pending) > 0 {
		ev := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		for _, fn := range m.listeners {
			fn(ev)
		}
		m.mu.Lock()
	}
	m.flushing = false
	m.mu.Unlock()
}
