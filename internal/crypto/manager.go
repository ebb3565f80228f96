package crypto

import (
	"fmt"
	"sort"
	"sync"

	coseerrors "github.com/mrz1836/cose/internal/errors"
)

// Entry describes one registered algorithm.
type Entry struct {
	Name       string `json:"name"`
	Identifier int    `json:"identifier"`
}

// Manager maps registry identifiers and names to algorithm implementations.
// It provides thread-safe registration and lookup.
type Manager struct {
	mu    sync.RWMutex
	byID  map[int]Algorithm
	names map[string]int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		byID:  make(map[int]Algorithm),
		names: make(map[string]int),
	}
}

// Register adds an implementation under name and its own identifier.
// An existing registration for the same identifier is replaced.
func (m *Manager) Register(name string, alg Algorithm) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := alg.Identifier()
	for n, existing := range m.names {
		if existing == id {
			delete(m.names, n)
		}
	}
	m.byID[id] = alg
	m.names[name] = id
}

// Get retrieves the implementation for an identifier.
// Returns ErrAlgorithmNotFound if none is registered.
func (m *Manager) Get(identifier int) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alg, ok := m.byID[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %d", coseerrors.ErrAlgorithmNotFound, identifier)
	}
	return alg, nil
}

// Lookup retrieves the implementation registered under name.
func (m *Manager) Lookup(name string) (Algorithm, error) {
	m.mu.RLock()
	id, ok := m.names[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", coseerrors.ErrAlgorithmNotFound, name)
	}
	return m.Get(id)
}

// Has reports whether name is registered.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.names[name]
	return ok
}

// List returns every registration ordered by name.
func (m *Manager) List() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.names))
	for name, id := range m.names {
		entries = append(entries, Entry{Name: name, Identifier: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
