// Package manager owns the set of running servers: starting, stopping,
// port availability checks, and restoring persisted servers at startup.
package manager

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"sort"
	"sync"

	"github.com/rselbach/Ports/internal/config"
	"github.com/rselbach/Ports/internal/httpd"
	"github.com/rselbach/Ports/pkg/model"
)

// highPortBase is where random fallback probing starts, above the
// registered port space.
const highPortBase = 49152

// PortScanner reports live listening ports, bypassing any cache.
type PortScanner interface {
	Refresh() []model.ListeningPort
}

// Manager tracks running servers keyed by their bound port.
type Manager struct {
	cfg     config.Config
	scanner PortScanner

	mu      sync.Mutex
	servers map[uint16]*httpd.Server
}

func New(cfg config.Config, scanner PortScanner) *Manager {
	return &Manager{
		cfg:     cfg,
		scanner: scanner,
		servers: make(map[uint16]*httpd.Server),
	}
}

// StartServer runs a new server over dir. Port 0 picks a free port from
// the configured band. The directory must exist before anything binds.
func (m *Manager) StartServer(port uint16, dir string, exposeToLAN bool) (*httpd.Server, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", dir)
	}

	if port == 0 {
		port = m.FindAvailablePort(m.cfg.PortRangeStart)
	}

	m.mu.Lock()
	if _, ok := m.servers[port]; ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("port %d already has a managed server", port)
	}
	m.mu.Unlock()

	srv, err := httpd.Start(port, dir, exposeToLAN, httpd.Config{
		MaxConns:     m.cfg.MaxConnections,
		HeaderLimit:  m.cfg.HeaderLimit,
		ConnDeadline: m.cfg.ConnDeadline.Duration,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.servers[srv.Port()] = srv
	m.mu.Unlock()
	return srv, nil
}

// StopServer stops the server bound to port, if any.
func (m *Manager) StopServer(port uint16) bool {
	m.mu.Lock()
	srv, ok := m.servers[port]
	delete(m.servers, port)
	m.mu.Unlock()

	if ok {
		srv.Stop()
	}
	return ok
}

func (m *Manager) StopAll() {
	m.mu.Lock()
	open := make([]*httpd.Server, 0, len(m.servers))
	for _, srv := range m.servers {
		open = append(open, srv)
	}
	m.servers = make(map[uint16]*httpd.Server)
	m.mu.Unlock()

	for _, srv := range open {
		srv.Stop()
	}
}

// Servers returns the running servers sorted by port.
func (m *Manager) Servers() []*httpd.Server {
	m.mu.Lock()
	out := make([]*httpd.Server, 0, len(m.servers))
	for _, srv := range m.servers {
		out = append(out, srv)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Port() < out[j].Port() })
	return out
}

// SavedServers snapshots the running set in its persistable form.
func (m *Manager) SavedServers() []model.SavedServer {
	servers := m.Servers()
	out := make([]model.SavedServer, 0, len(servers))
	for _, srv := range servers {
		out = append(out, model.SavedServer{
			Port:        srv.Port(),
			Directory:   srv.Root(),
			ExposeToLAN: srv.ExposeToLAN(),
		})
	}
	return out
}

// IsPortInUse reports whether a managed server holds the port or a live
// scan sees a listener on it.
func (m *Manager) IsPortInUse(port uint16) bool {
	m.mu.Lock()
	_, managed := m.servers[port]
	m.mu.Unlock()
	if managed {
		return true
	}

	for _, rec := range m.scanner.Refresh() {
		if rec.Port == port {
			return true
		}
	}
	return false
}

// FindAvailablePort probes linearly upward from `from` through the
// configured band, falling back to random high ports when the band is
// exhausted.
func (m *Manager) FindAvailablePort(from uint16) uint16 {
	taken := m.takenPorts()

	for p := from; p <= m.cfg.PortRangeEnd && p >= from; p++ {
		if !taken[p] {
			return p
		}
	}

	for range 64 {
		p := highPortBase + uint16(rand.N(65536-highPortBase))
		if !taken[p] {
			return p
		}
	}
	return highPortBase + uint16(rand.N(65536-highPortBase))
}

// Restore brings persisted servers back up. A saved port that is already
// taken gets the lowest free port in the configured band, then a random
// high port. Per-entry failures are logged, never fatal.
func (m *Manager) Restore(entries []model.SavedServer) []*httpd.Server {
	var started []*httpd.Server
	for _, e := range entries {
		fi, err := os.Stat(e.Directory)
		if err != nil || !fi.IsDir() {
			log.Printf("manager: not restoring %s: directory gone", e.Directory)
			continue
		}

		port := e.Port
		if m.IsPortInUse(port) {
			port = m.FindAvailablePort(m.cfg.PortRangeStart)
			log.Printf("manager: port %d is taken, restoring %s on %d", e.Port, e.Directory, port)
		}

		srv, err := m.StartServer(port, e.Directory, e.ExposeToLAN)
		if err != nil {
			log.Printf("manager: restore %s on %d: %v", e.Directory, port, err)
			continue
		}
		started = append(started, srv)
	}
	return started
}

// takenPorts merges managed servers with a fresh scan.
func (m *Manager) takenPorts() map[uint16]bool {
	taken := make(map[uint16]bool)
	for _, rec := range m.scanner.Refresh() {
		taken[rec.Port] = true
	}
	m.mu.Lock()
	for p := range m.servers {
		taken[p] = true
	}
	m.mu.Unlock()
	return taken
}
