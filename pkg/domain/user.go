package domain

import (
	"encoding/json"
	"fmt"
)

// ID is a user-service identifier. The backend emits it as a JSON number
// but some routes echo it back as a string, so both forms are accepted.
type ID string

// UnmarshalJSON accepts `7`, `"7"` and `null`.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("domain.ID: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("domain.ID: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the identity record returned by the user service on login and
// registration. The session core treats it as opaque.
type User struct {
	UserID      ID     `json:"userId"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AvatarURL   string `json:"avatarURL,omitempty"`
	UserBio     string `json:"userBio,omitempty"`
	// MFAToken is only present on a fresh registration that still needs
	// one-time code verification.
	MFAToken string `json:"mfaToken,omitempty"`
}

// DisplayName returns the username, falling back to "User #<id>".
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Username != "":
		return u.Username
	case u.UserID != "":
		return "User #" + string(u.UserID)
	default:
		return "unknown user"
	}
}
