package chat

import "sync"

// OnlineSet is the presence sink fed by user:status events. It only answers
// "is this user online right now" — presence carries no history.
type OnlineSet struct {
	mu     sync.RWMutex
	online map[uint]bool
}

// NewOnlineSet creates an empty presence set.
func NewOnlineSet() *OnlineSet {
	return &OnlineSet{online: map[uint]bool{}}
}

// SetStatus records one user's presence.
func (s *OnlineSet) SetStatus(userID uint, online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if online {
		s.online[userID] = true
	} else {
		delete(s.online, userID)
	}
}

// SetAll replaces the whole set from a user:status:all snapshot.
func (s *OnlineSet) SetAll(userIDs []uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		s.online[id] = true
	}
}

// IsOnline reports one user's presence.
func (s *OnlineSet) IsOnline(userID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online[userID]
}

// OnlineCount returns how many users are currently online.
func (s *OnlineSet) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.online)
}
