package store

import (
	"context"
	"sync"

	"github.com/LeventeLantos/chat-compose/internal/model"
)

// Lister fetches the full message list from the remote API.
type Lister interface {
	List(ctx context.Context) ([]model.Message, error)
}

// Store is the ordered in-memory message list shown to the user.
type Store struct {
	mu       sync.RWMutex
	messages []model.Message
	loadErr  error
}

func New() *Store {
	return &Store{}
}

// Replace swaps the whole list and clears any recorded load error.
func (s *Store) Replace(msgs []model.Message) {
	cp := make([]model.Message, len(msgs))
	copy(cp, msgs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = cp
	s.loadErr = nil
}

func (s *Store) Add(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
}

func (s *Store) All() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

func (s *Store) SetLoadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = err
}

func (s *Store) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadErr
}

// Load performs one fetch and replaces the list with the result.
// On failure the list is left untouched and the error is recorded.
func (s *Store) Load(ctx context.Context, l Lister) error {
	msgs, err := l.List(ctx)
	if err != nil {
		s.SetLoadError(err)
		return err
	}

	s.Replace(msgs)
	return nil
}
