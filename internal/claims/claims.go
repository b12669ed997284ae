// Package claims reads JWT claims for display. Signatures are not checked and
// nothing here decides when a session expires.
package claims

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what the session panel shows about an access token.
type Info struct {
	Subject   string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect parses token without verifying it. ok is false when token is not a
// JWT.
func Inspect(token string) (Info, bool) {
	if token == "" {
		return Info{}, false
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Info{}, false
	}

	var info Info
	if sub, err := mc.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		info.Subject = stringClaim(mc, "userId")
	}
	info.Username = stringClaim(mc, "username")
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}

func stringClaim(mc jwt.MapClaims, key string) string {
	switch v := mc[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
