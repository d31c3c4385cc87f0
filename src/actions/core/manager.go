package core

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Module is one piece of the bot with a lifecycle: the workflow engine, the
// Discord front-end or the HTTP API.
type Module interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context)
}

// Manager starts modules in registration order and stops the ones that came up
// in reverse, so a front-end never outlives the engine it drives.
type Manager struct {
	mu      sync.Mutex
	modules []Module
	running []Module
}

// NewManager creates a manager for mods. Nil entries are skipped.
func NewManager(mods ...Module) *Manager {
	m := &Manager{}
	for _, mod := range mods {
		if mod != nil {
			m.modules = append(m.modules, mod)
		}
	}
	return m
}

// Add registers a module. Modules cannot join a running manager.
func (m *Manager) Add(mod Module) error {
	if mod == nil {
		return fmt.Errorf("actions.Manager: nil module")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.running) > 0 {
		return fmt.Errorf("actions.Manager: cannot add %s after start", mod.Name())
	}
	m.modules = append(m.modules, mod)
	return nil
}

// Start starts every module. When one fails, the modules already running are
// stopped again and the manager is left idle.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.running) > 0 {
		return fmt.Errorf("actions.Manager already started")
	}

	for _, mod := range m.modules {
		if err := mod.Start(ctx); err != nil {
			log.Printf("actions: %s failed to start, stopping %d running modules", mod.Name(), len(m.running))
			m.stopRunning(ctx)
			return fmt.Errorf("module %s failed: %w", mod.Name(), err)
		}
		m.running = append(m.running, mod)
	}
	return nil
}

// Stop stops the running modules in reverse start order. It is safe to call
// more than once.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopRunning(ctx)
}

// Running lists the names of the running modules in start order.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.running))
	for _, mod := range m.running {
		names = append(names, mod.Name())
	}
	return names
}

func (m *Manager) stopRunning(ctx context.Context) {
	for i := len(m.running) - 1; i >= 0; i-- {
		m.running[i].Stop(ctx)
	}
	m.running = nil
}
