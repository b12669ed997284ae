package domain

// AuthResponse is the body of a successful /auth/login or /auth/createUser call.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// RefreshResponse is the body of a successful /auth/refresh-token call.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
