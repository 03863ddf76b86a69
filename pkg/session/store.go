// Package session tracks the per-chat active/stopped flag. A stopped chat
// still consumes (and dedups) its messages but suppresses all handling until
// the user sends "start" again.
package session

// State is a chat's processing state.
type State int

const (
	// Active chats get full message handling.
	Active State = iota
	// Stopped chats are muted until reactivated.
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "active"
}

// Store holds the state of every chat seen so far. Sessions are created
// lazily on first contact and live for the process lifetime. Not safe for
// concurrent use; owned by the dispatch core's single goroutine.
type Store struct {
	states map[int64]State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// State returns the chat's current state, Active for first contact.
func (s *Store) State(chatID int64) State {
	return s.states[chatID]
}

// Stop transitions the chat to Stopped. Idempotent.
func (s *Store) Stop(chatID int64) {
	s.states[chatID] = Stopped
}

// Start transitions the chat back to Active. Idempotent.
func (s *Store) Start(chatID int64) {
	s.states[chatID] = Active
}

// Count returns the number of chats with recorded state.
func (s *Store) Count() int {
	return len(s.states)
}
