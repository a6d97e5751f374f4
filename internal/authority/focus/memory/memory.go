// Package memory provides an in-memory Manager for the demo binary and
// tests. It tracks room existence only — no participant roster, no media —
// which is all the Authority's contract needs (spec §2: the focus manager
// is an external collaborator; only its contract is named). The shape is
// grounded on castaneai/ayu's room-membership bookkeeping, reduced from a
// Redis-backed roster to a plain in-memory set.
package memory

import (
	"sync"

	"github.com/meetcore/authority/internal/authority/focus"
)

// Manager is a bare-bones focus.Manager: rooms exist once CreateConference
// is called and stop existing once DestroyConference is called, at which
// point the registered listener (if any) is notified synchronously.
type Manager struct {
	mu       sync.RWMutex
	rooms    map[string]struct{}
	listener focus.AllocationListener
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{rooms: make(map[string]struct{})}
}

// GetConference implements focus.Manager.
func (m *Manager) GetConference(roomName string) (focus.ConferenceHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.rooms[roomName]; !ok {
		return nil, false
	}
	return roomName, true
}

// SetFocusAllocationListener implements focus.Manager.
func (m *Manager) SetFocusAllocationListener(l focus.AllocationListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

// CreateConference marks roomName as existing. It is the test/demo
// stand-in for whatever conference-allocation flow a real focus manager
// runs (unrelated to the Authority's public contract).
func (m *Manager) CreateConference(roomName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[roomName] = struct{}{}
}

// DestroyConference removes roomName and, if a listener is registered,
// notifies it outside the lock — mirroring the Authority's own rule that
// listeners never run while a mutex guarding shared tables is held.
func (m *Manager) DestroyConference(roomName string) {
	m.mu.Lock()
	_, existed := m.rooms[roomName]
	delete(m.rooms, roomName)
	listener := m.listener
	m.mu.Unlock()

	if existed && listener != nil {
		listener.OnFocusDestroyed(roomName)
	}
}
