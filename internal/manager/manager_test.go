package manager

import (
	"path/filepath"
	"testing"

	"github.com/rselbach/Ports/internal/config"
	"github.com/rselbach/Ports/pkg/model"
)

// fakeScanner stands in for the lsof-backed scanner.
type fakeScanner struct {
	ports []model.ListeningPort
	calls int
}

func (f *fakeScanner) Refresh() []model.ListeningPort {
	f.calls++
	return f.ports
}

func listening(ports ...uint16) []model.ListeningPort {
	out := make([]model.ListeningPort, 0, len(ports))
	for _, p := range ports {
		out = append(out, model.ListeningPort{Port: p, PID: 1, Process: "test"})
	}
	return out
}

func testConfig() config.Config {
	cfg := config.Default()
	// A high, narrow band keeps probes away from anything real.
	cfg.PortRangeStart = 42800
	cfg.PortRangeEnd = 42810
	return cfg
}

func newTestManager(t *testing.T, scanner *fakeScanner) *Manager {
	t.Helper()
	m := New(testConfig(), scanner)
	t.Cleanup(m.StopAll)
	return m
}

func TestStartAndStopServer(t *testing.T) {
	m := newTestManager(t, &fakeScanner{})
	dir := t.TempDir()

	srv, err := m.StartServer(0, dir, false)
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	if !srv.IsRunning() {
		t.Error("server not running after start")
	}
	if !m.IsPortInUse(srv.Port()) {
		t.Error("IsPortInUse misses a managed server")
	}

	if !m.StopServer(srv.Port()) {
		t.Error("StopServer found nothing")
	}
	if srv.IsRunning() {
		t.Error("server still running after StopServer")
	}
	if m.StopServer(srv.Port()) {
		t.Error("StopServer stopped a server twice")
	}
}

func TestStartServerRejectsMissingDir(t *testing.T) {
	m := newTestManager(t, &fakeScanner{})
	if _, err := m.StartServer(0, filepath.Join(t.TempDir(), "gone"), false); err == nil {
		t.Error("StartServer accepted a missing directory")
	}
}

func TestIsPortInUseFromScan(t *testing.T) {
	scanner := &fakeScanner{ports: listening(42900)}
	m := newTestManager(t, scanner)

	if !m.IsPortInUse(42900) {
		t.Error("IsPortInUse misses a scanned port")
	}
	if m.IsPortInUse(42901) {
		t.Error("IsPortInUse reports a free port as taken")
	}
	if scanner.calls == 0 {
		t.Error("IsPortInUse never performed a live scan")
	}
}

func TestFindAvailablePort(t *testing.T) {
	scanner := &fakeScanner{ports: listening(42800, 42801)}
	m := newTestManager(t, scanner)

	if got := m.FindAvailablePort(42800); got != 42802 {
		t.Errorf("FindAvailablePort = %d, want 42802", got)
	}
}

func TestFindAvailablePortSkipsManaged(t *testing.T) {
	m := newTestManager(t, &fakeScanner{})
	dir := t.TempDir()

	srv, err := m.StartServer(42800, dir, false)
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	if got := m.FindAvailablePort(42800); got == srv.Port() {
		t.Errorf("FindAvailablePort returned the managed port %d", got)
	}
}

func TestFindAvailablePortExhaustedBand(t *testing.T) {
	var all []uint16
	for p := uint16(42800); p <= 42810; p++ {
		all = append(all, p)
	}
	m := newTestManager(t, &fakeScanner{ports: listening(all...)})

	if got := m.FindAvailablePort(42800); got < 49152 {
		t.Errorf("FindAvailablePort = %d, want a high port", got)
	}
}

func TestRestore(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	m := newTestManager(t, &fakeScanner{})

	started := m.Restore([]model.SavedServer{
		{Port: 42803, Directory: dirA},
		{Port: 42804, Directory: dirB, ExposeToLAN: false},
		{Port: 42805, Directory: filepath.Join(dirA, "gone")},
	})

	if len(started) != 2 {
		t.Fatalf("restored %d servers, want 2", len(started))
	}
	if started[0].Port() != 42803 || started[1].Port() != 42804 {
		t.Errorf("restored ports %d, %d", started[0].Port(), started[1].Port())
	}
}

func TestRestoreReassignsTakenPort(t *testing.T) {
	dir := t.TempDir()
	// The saved port and the band's first slots are already taken.
	scanner := &fakeScanner{ports: listening(42807, 42800, 42801)}
	m := newTestManager(t, scanner)

	started := m.Restore([]model.SavedServer{{Port: 42807, Directory: dir}})
	if len(started) != 1 {
		t.Fatalf("restored %d servers, want 1", len(started))
	}
	if got := started[0].Port(); got != 42802 {
		t.Errorf("reassigned port = %d, want 42802 (lowest free in band)", got)
	}
}

func TestSavedServersSnapshot(t *testing.T) {
	m := newTestManager(t, &fakeScanner{})
	dir := t.TempDir()

	if _, err := m.StartServer(42808, dir, false); err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	if _, err := m.StartServer(42809, dir, true); err != nil {
		t.Fatalf("StartServer: %v", err)
	}

	saved := m.SavedServers()
	if len(saved) != 2 {
		t.Fatalf("SavedServers = %+v", saved)
	}
	if saved[0].Port != 42808 || saved[1].Port != 42809 {
		t.Errorf("ports out of order: %+v", saved)
	}
	if !saved[1].ExposeToLAN {
		t.Error("LAN flag lost in snapshot")
	}
}
