// Package player owns the listening session state: the track queue and the
// user's favorites. The state belongs to one Session value instead of
// package-level globals; favorites persist through the Store so they survive
// the session.
package player

import (
	"sync"
)

// Store persists favorites for a user.
type Store interface {
	ListFavorites(userID string) ([]string, error)
	AddFavorite(userID, trackID string) error
	RemoveFavorite(userID, trackID string) error
}

// Session holds one user's player state. Safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	userID    string
	store     Store
	queue     []string
	index     int
	favorites map[string]bool
}

// NewSession loads the user's persisted favorites and returns an empty queue.
func NewSession(userID string, store Store) (*Session, error) {
	favorites := make(map[string]bool)
	if store != nil {
		trackIDs, err := store.ListFavorites(userID)
		if err != nil {
			return nil, err
		}
		for _, id := range trackIDs {
			favorites[id] = true
		}
	}
	return &Session{
		userID:    userID,
		store:     store,
		index:     -1,
		favorites: favorites,
	}, nil
}

// Enqueue appends a track to the queue. The first enqueued track becomes the
// current one.
func (s *Session) Enqueue(trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, trackID)
	if s.index < 0 {
		s.index = 0
	}
}

// Current returns the track under the cursor.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 || s.index >= len(s.queue) {
		return "", false
	}
	return s.queue[s.index], true
}

// Next advances the cursor and returns the new current track.
func (s *Session) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index+1 >= len(s.queue) {
		return "", false
	}
	s.index++
	return s.queue[s.index], true
}

// Prev moves the cursor back and returns the new current track.
func (s *Session) Prev() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index <= 0 || len(s.queue) == 0 {
		return "", false
	}
	s.index--
	return s.queue[s.index], true
}

// Queue returns a copy of the queued track IDs.
func (s *Session) Queue() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.queue))
	copy(out, s.queue)
	return out
}

// Clear empties the queue and resets the cursor. Favorites are untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = nil
	s.index = -1
}

// ToggleFavorite flips the favorite state of a track, persisting the change.
// It returns the new state. On a store error the in-memory state is left
// unchanged.
func (s *Session) ToggleFavorite(trackID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.favorites[trackID] {
		if s.store != nil {
			if err := s.store.RemoveFavorite(s.userID, trackID); err != nil {
				return true, err
			}
		}
		delete(s.favorites, trackID)
		return false, nil
	}

	if s.store != nil {
		if err := s.store.AddFavorite(s.userID, trackID); err != nil {
			return false, err
		}
	}
	s.favorites[trackID] = true
	return true, nil
}

func (s *Session) IsFavorite(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites[trackID]
}

// Favorites returns the favorited track IDs in no particular order.
func (s *Session) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		out = append(out, id)
	}
	return out
}
