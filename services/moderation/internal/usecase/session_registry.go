package usecase

import (
	"errors"
	"sync"
	"time"

	"ad-moderation/pkg/moderation"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type session struct {
	id          string
	moderatorID string
	queue       *moderation.Queue
	startedAt   time.Time
}

// sessionRegistry holds review sessions in memory. A session is visible
// only to the moderator who started it.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) create(moderatorID string, queue *moderation.Queue) *session {
	s := &session{
		id:          uuid.New().String(),
		moderatorID: moderatorID,
		queue:       queue,
		startedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

func (r *sessionRegistry) get(id, moderatorID string) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || s.moderatorID != moderatorID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// supersede prepares the registry for a new session of the moderator: sessions
// that were already closed are forgotten, open ones are closed. A moderator
// therefore holds at most the active session plus the one it replaced, and the
// replaced one answers "closed" until the next start.
func (r *sessionRegistry) supersede(moderatorID string) (closed, pruned int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.moderatorID != moderatorID {
			continue
		}
		if s.queue.Snapshot().Closed {
			delete(r.sessions, id)
			pruned++
			continue
		}
		s.queue.Close()
		closed++
	}
	return closed, pruned
}

func (r *sessionRegistry) count(moderatorID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.moderatorID == moderatorID {
			n++
		}
	}
	return n
}
