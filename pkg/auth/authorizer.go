// Package auth gates workspace commands behind a single allow-listed
// Telegram username.
package auth

import "strings"

// Authorizer compares sender usernames against one configured username,
// case-insensitively. There are no roles and no per-command scoping: either
// the sender is the configured user or every workspace command is denied.
type Authorizer struct {
	allowed string
}

// New creates an Authorizer for the given username. A leading "@" is
// tolerated since people habitually paste handles that way.
func New(username string) *Authorizer {
	return &Authorizer{allowed: normalize(username)}
}

// IsAuthorized reports whether username matches the allow-listed user.
// An empty allow list authorizes nobody.
func (a *Authorizer) IsAuthorized(username string) bool {
	if a.allowed == "" {
		return false
	}
	return normalize(username) == a.allowed
}

// AllowedUser returns the configured username (normalized, for display).
func (a *Authorizer) AllowedUser() string {
	return a.allowed
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
