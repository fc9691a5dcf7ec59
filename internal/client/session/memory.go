package session

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{
		Token:     m.data[KeyToken],
		UserName:  m.data[KeyUserName],
		UserEmail: m.data[KeyUserEmail],
	}, nil
}

func (m *MemoryStore) SaveLogin(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setOrDelete(KeyToken, s.Token)
	m.setOrDelete(KeyUserName, s.UserName)
	m.setOrDelete(KeyUserEmail, s.UserEmail)
	return nil
}

func (m *MemoryStore) setOrDelete(key, value string) {
	if value == "" {
		delete(m.data, key)
		return
	}
	m.data[key] = value
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, KeyToken)
	delete(m.data, KeyUserName)
	delete(m.data, KeyUserEmail)
	return nil
}
