package state

import (
	"fmt"
	"sync"
)

// Manager serializes access to each user's state. Two simultaneous turns for
// the same user would otherwise race on load-modify-save; different users
// proceed in parallel.
type Manager struct {
	store *Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager wraps a Store with per-user locking.
func NewManager(store *Store) *Manager {
	return &Manager{store: store, locks: make(map[string]*sync.Mutex)}
}

func (m *Manager) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// WithState loads the user's state, runs fn on it under the user's lock, and
// saves the (possibly mutated) state afterwards. fn's error aborts the save.
func (m *Manager) WithState(userID string, fn func(st *ConversationState) error) error {
	l := m.userLock(userID)
	l.Lock()
	defer l.Unlock()

	st, err := m.store.Load(userID)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	if err := m.store.Save(st); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// Peek loads a read-only snapshot without taking the user's lock.
func (m *Manager) Peek(userID string) (*ConversationState, error) {
	return m.store.Load(userID)
}

// UserIDs lists every known user.
func (m *Manager) UserIDs() ([]string, error) {
	return m.store.UserIDs()
}
