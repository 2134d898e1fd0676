package store

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Listener is notified with the new state after every dispatched action.
type Listener func(State, Action)

// Store holds the current [State] and applies dispatched actions through [Reduce].
//
// Dispatch is safe for concurrent use. Listeners run synchronously on the dispatching goroutine, after the lock is released.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
	logger    *log.Logger
}

// New creates a Store starting from initial.
func New(initial State, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies each action in order and notifies listeners after each one.
func (s *Store) Dispatch(actions ...Action) {
	for _, a := range actions {
		s.mu.Lock()
		s.state = Reduce(s.state, a)
		snapshot := s.state.Clone()
		listeners := s.listenersLocked()
		s.mu.Unlock()

		s.notify(listeners, snapshot, a)
	}
}

// Update calls fn with the current state and applies the actions it returns before any other dispatch.
//
// Returns false when fn returns no actions. fn must not call back into the Store.
func (s *Store) Update(fn func(State) []Action) bool {
	type step struct {
		state  State
		action Action
	}

	s.mu.Lock()
	actions := fn(s.state.Clone())
	steps := make([]step, 0, len(actions))
	for _, a := range actions {
		s.state = Reduce(s.state, a)
		steps = append(steps, step{state: s.state.Clone(), action: a})
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, st := range steps {
		s.notify(listeners, st.state, st.action)
	}
	return len(actions) > 0
}

func (s *Store) listenersLocked() []Listener {
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

func (s *Store) notify(listeners []Listener, state State, a Action) {
	s.logger.Debug("dispatch", "action", a.Type())

	for _, l := range listeners {
		l(state, a)
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
