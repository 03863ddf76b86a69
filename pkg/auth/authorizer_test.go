package auth

import "testing"

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		allowed  string
		username string
		want     bool
	}{
		{"exact match", "alice", "alice", true},
		{"case insensitive", "Alice", "aLiCe", true},
		{"at-prefix tolerated", "@alice", "alice", true},
		{"at-prefix on sender", "alice", "@alice", true},
		{"different user", "alice", "bob", false},
		{"empty sender", "alice", "", false},
		{"empty allow list denies everyone", "", "alice", false},
		{"whitespace trimmed", " alice ", "alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.allowed)
			if got := a.IsAuthorized(tt.username); got != tt.want {
				t.Errorf("IsAuthorized(%q) with allow=%q: got %v, want %v",
					tt.username, tt.allowed, got, tt.want)
			}
		})
	}
}
