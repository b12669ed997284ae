// Package session holds the client-side credential lifecycle: the current
// access token, the identity it belongs to, an optional one-time
// verification token, and the refresh timer that renews the access token
// shortly before it expires.
//
// A Manager is the only writer. Login, Logout, SetAccessToken and
// SetVerificationToken are the whole mutation surface; every other
// component reads a Snapshot. Each adopted access token starts a new
// generation, and only the timer armed for the latest generation is ever
// allowed to act.
package session
