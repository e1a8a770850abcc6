// Package navigation holds the current page of a portal session and tells
// interested parties when it changes.
package navigation

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-disaster-hub/internal/models"
)

// Change describes one navigation.
type Change struct {
	From models.PageID `json:"from"`
	To   models.PageID `json:"to"`
	At   time.Time     `json:"at"`
}

// Observer is called synchronously from NavigateTo. It may read the State but
// must not navigate it.
type Observer func(Change)

// State is the single source of truth for which page is shown.
type State struct {
	clock clockwork.Clock

	// dispatch serializes NavigateTo so observers see changes in order.
	dispatch sync.Mutex

	mu        sync.RWMutex
	current   models.PageID
	changedAt time.Time
	observers map[uint64]Observer
	nextID    uint64
}

type Option func(*State)

func WithClock(c clockwork.Clock) Option {
	return func(s *State) { s.clock = c }
}

// NewState returns a State on the home page.
func NewState(opts ...Option) *State {
	s := &State{
		clock:     clockwork.NewRealClock(),
		current:   models.PageHome,
		observers: make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.changedAt = s.clock.Now()
	return s
}

func (s *State) Current() models.PageID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Since returns when the current page was entered.
func (s *State) Since() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changedAt
}

// NavigateTo makes target the current page and returns the change. Observers
// have run by the time it returns. Navigating to the current page still notifies.
func (s *State) NavigateTo(target models.PageID) Change {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	now := s.clock.Now()

	s.mu.Lock()
	change := Change{From: s.current, To: target, At: now}
	s.current = target
	s.changedAt = now
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(change)
	}
	return change
}

// Subscribe registers o and returns a func that removes it.
func (s *State) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers[id] = o
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}
