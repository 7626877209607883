package mocks

import (
	"sync"

	"github.com/sodiqa/dropwallet/internal/session"
)

// FakeSessionStore is an in-memory stand-in for the redis session store.
type FakeSessionStore struct {
	mu     sync.Mutex
	states map[int64]string
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{states: make(map[int64]string)}
}

func (s *FakeSessionStore) Get(chatID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[chatID]
	if !ok {
		return session.StateIdle, nil
	}
	return state, nil
}

func (s *FakeSessionStore) Set(chatID int64, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[chatID] = state
	return nil
}

func (s *FakeSessionStore) Clear(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, chatID)
	return nil
}
