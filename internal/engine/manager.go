package engine

import (
	"fmt"
	"sync"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/dashboard"
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/identity"
)

// Manager coordinates multiple Streamers, one per dashboard name.
type Manager struct {
	mu        sync.RWMutex
	streamers map[string]*Streamer
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{streamers: make(map[string]*Streamer)}
}

// Start creates and launches a Streamer for the given dashboard under name.
func (m *Manager) Start(name string, dash *dashboard.Dashboard, provider identity.Provider, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.streamers[name]; exists {
		return fmt.Errorf("dashboard %q already running", name)
	}

	s, err := NewStreamer(dash, provider, opts)
	if err != nil {
		return err
	}
	m.streamers[name] = s
	go s.Run()
	return nil
}

// Stop halts the Streamer for the named dashboard and removes it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.streamers[name]
	if !ok {
		return fmt.Errorf("dashboard %q not found", name)
	}
	s.Stop()
	delete(m.streamers, name)
	return nil
}

// Get returns the Streamer for the named dashboard.
func (m *Manager) Get(name string) (*Streamer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.streamers[name]
	return s, ok
}

// Names returns the names of all running dashboards.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.streamers))
	for name := range m.streamers {
		names = append(names, name)
	}
	return names
}

// List returns status summaries for all running dashboards.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.streamers))
	for _, s := range m.streamers {
		infos = append(infos, s.Info())
	}
	return infos
}

// StopAll halts and removes all running streamers.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.streamers {
		s.Stop()
		delete(m.streamers, name)
	}
}
