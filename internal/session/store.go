package session

import (
	"sync"

	"forex-signal-bot/internal/domain"
)

type State int

const (
	StateInit State = iota
	StateLangChoicePending
	StateIdle
	StateAwaitingPair
	StateAwaitingHorizon
	StateAnalyzing
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateLangChoicePending:
		return "LANG_CHOICE_PENDING"
	case StateIdle:
		return "IDLE"
	case StateAwaitingPair:
		return "AWAITING_PAIR"
	case StateAwaitingHorizon:
		return "AWAITING_HORIZON"
	case StateAnalyzing:
		return "ANALYZING"
	}
	return "UNKNOWN"
}

// Session is the conversational state of one user. Language is empty until
// the user picks one.
type Session struct {
	UserID       int64
	Username     string
	Language     domain.Language
	Pair         string
	Horizon      domain.Horizon
	AwaitingPair bool
	State        State
}

// Store keeps one Session per user for the process lifetime.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the user's session, creating it on first use.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.lookup(userID)
}

// Update applies fn to the user's session under the store lock and returns
// the resulting copy. fn must not call back into the store.
func (s *Store) Update(userID int64, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(userID)
	fn(sess)
	return *sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) lookup(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, State: StateInit}
		s.sessions[userID] = sess
	}
	return sess
}
