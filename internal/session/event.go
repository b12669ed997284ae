package session

// EventKind identifies which transition produced an Event.
type EventKind int

const (
	// EventLogin is emitted after Login adopts a token.
	EventLogin EventKind = iota
	// EventRefreshed is emitted after the scheduler renewed the token.
	EventRefreshed
	// EventTokenReplaced is emitted after SetAccessToken.
	EventTokenReplaced
	// EventVerificationChanged is emitted when the verification token changes.
	EventVerificationChanged
	// EventLogout is emitted after an explicit Logout of a non-empty session.
	EventLogout
	// EventExpired is emitted when a failed refresh forced the session closed.
	EventExpired
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventRefreshed:
		return "refreshed"
	case EventTokenReplaced:
		return "token_replaced"
	case EventVerificationChanged:
		return "verification_changed"
	case EventLogout:
		return "logout"
	case EventExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event describes a completed transition and the state it left behind.
type Event struct {
	Kind    EventKind
	Session Snapshot
	// Err is the refresh failure behind an EventExpired.
	Err error
}
