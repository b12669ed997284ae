package session

import (
	"fmt"
	"time"
)

// Countdown is the time left on the current access token.
type Countdown struct {
	Minutes int
	Seconds int
	Total   time.Duration
}

func (c Countdown) String() string {
	return fmt.Sprintf("%dm %ds", c.Minutes, c.Seconds)
}

// Remaining derives the countdown for s at now. Both instants are compared
// by wall clock, so time the machine spent suspended counts. It reports
// false when the session holds no access token.
func Remaining(s Snapshot, now time.Time) (Countdown, bool) {
	if s.AccessToken == "" || s.Expiry.IsZero() {
		return Countdown{}, false
	}
	left := s.Expiry.Round(0).Sub(now.Round(0))
	if left < 0 {
		left = 0
	}
	ms := left.Milliseconds()
	return Countdown{
		Minutes: int(ms / 60000),
		Seconds: int(ms % 60000 / 1000),
		Total:   left,
	}, true
}
