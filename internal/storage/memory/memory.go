// Package memory реализует storage.Store в памяти процесса.
package memory

import (
	"sync"

	"github.com/magabrotheeeer/bukafresh-client/internal/storage"
)

// Store — потокобезопасное хранилище в памяти.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ storage.Store = (*Store)(nil)

// New возвращает пустое хранилище.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Put(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
