// Package session keeps one navigation State per portal visitor.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-disaster-hub/internal/models"
	"github.com/mr1hm/go-disaster-hub/internal/navigation"
)

var ErrSessionNotFound = errors.New("session not found")

// Session pairs a navigation State with the broadcaster that streams its changes.
type Session struct {
	ID        string
	CreatedAt time.Time

	state       *navigation.State
	broadcaster *navigation.Broadcaster
	unsubscribe func()

	mu       sync.Mutex
	lastSeen time.Time
	clock    clockwork.Clock
}

func (s *Session) State() *navigation.State { return s.state }

func (s *Session) Broadcaster() *navigation.Broadcaster { return s.broadcaster }

func (s *Session) Current() models.PageID { return s.state.Current() }

// Navigate moves the session to target. Subscribers of the session's
// broadcaster receive the change before Navigate returns.
func (s *Session) Navigate(target models.PageID) navigation.Change {
	change := s.state.NavigateTo(target)
	s.touch()
	return change
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.clock.Now()
	s.mu.Unlock()
}

func (s *Session) close() {
	s.unsubscribe()
	s.broadcaster.Close()
}

// Registry holds at most limit sessions. Adding one beyond that evicts the
// least recently used session and closes its event streams.
type Registry struct {
	clock    clockwork.Clock
	sessions *lru.Cache[string, *Session]
	onEvict  func(*Session)
}

type Option func(*Registry)

func WithClock(c clockwork.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithEvictHook is called for every session leaving the registry, whether
// evicted or deleted.
func WithEvictHook(fn func(*Session)) Option {
	return func(r *Registry) { r.onEvict = fn }
}

func NewRegistry(limit int, opts ...Option) (*Registry, error) {
	r := &Registry{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.NewWithEvict(limit, func(id string, s *Session) {
		s.close()
		slog.Debug("session closed", "id", id, "page", s.Current().String())
		if r.onEvict != nil {
			r.onEvict(s)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	r.sessions = cache
	return r, nil
}

// Create starts a session on the home page.
func (r *Registry) Create() *Session {
	now := r.clock.Now()
	s := &Session{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		state:       navigation.NewState(navigation.WithClock(r.clock)),
		broadcaster: navigation.NewBroadcaster(),
		lastSeen:    now,
		clock:       r.clock,
	}
	s.unsubscribe = s.state.Subscribe(s.broadcaster.Broadcast)

	r.sessions.Add(s.ID, s)
	return s
}

// Get returns the session and marks it recently used.
func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch()
	return s, nil
}

func (r *Registry) Delete(id string) error {
	if !r.sessions.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close ends every session.
func (r *Registry) Close() {
	r.sessions.Purge()
}
