// Package httpd implements a minimal GET-only HTTP/1.1 static file server
// over raw TCP connections: strict framing bounds, a sandboxed document
// root, and byte-exact responses that always close the connection.
package httpd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxConns     = 50
	DefaultHeaderLimit  = 64 << 10
	DefaultConnDeadline = 30 * time.Second
)

// Config bounds a server's resource use. Zero fields take the defaults.
type Config struct {
	MaxConns     int
	HeaderLimit  int           // bytes of header block accepted before 413
	ConnDeadline time.Duration // time allowed to frame a request
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.HeaderLimit <= 0 {
		c.HeaderLimit = DefaultHeaderLimit
	}
	if c.ConnDeadline <= 0 {
		c.ConnDeadline = DefaultConnDeadline
	}
	return c
}

// BindError reports a port that could not be bound.
type BindError struct {
	Port uint16
	Err  error
}

func (e *BindError) Error() string { return fmt.Sprintf("bind port %d: %v", e.Port, e.Err) }
func (e *BindError) Unwrap() error { return e.Err }

// Server serves one directory over one TCP port. All listener state is
// guarded by a single mutex; sessions are keyed by a generated id so
// deregistration is a keyed delete.
type Server struct {
	root string // canonical, symlink-free
	lan  bool
	cfg  Config

	mu       sync.Mutex
	ln       net.Listener
	port     uint16
	sessions map[uint64]*session
	nextID   uint64
	running  bool
}

// Start canonicalizes the root, binds the port, and begins accepting on
// its own goroutine. A failure leaves no state behind. Port 0 binds an
// ephemeral port; Port reports the one chosen.
func Start(port uint16, root string, exposeToLAN bool, cfg Config) (*Server, error) {
	canonical, err := resolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	host := "127.0.0.1"
	if exposeToLAN {
		host = ""
	}
	// net.Listen already sets SO_REUSEADDR on unix sockets.
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, &BindError{Port: port, Err: err}
	}

	s := &Server{
		root:     canonical,
		lan:      exposeToLAN,
		cfg:      cfg.withDefaults(),
		ln:       ln,
		port:     uint16(ln.Addr().(*net.TCPAddr).Port),
		sessions: make(map[uint64]*session),
		running:  true,
	}
	go s.acceptLoop(ln)
	return s, nil
}

func (s *Server) Port() uint16 { return s.port }

func (s *Server) Root() string { return s.root }

func (s *Server) ExposeToLAN() bool { return s.lan }

func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop closes the listener and hard-closes every open session. Idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ln := s.ln
	s.ln = nil
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	ln.Close()
	for _, sess := range open {
		sess.close()
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return // listener closed by Stop
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		if len(s.sessions) >= s.cfg.MaxConns {
			s.mu.Unlock()
			// Over the cap: answer 503 synchronously, never register.
			conn.Write(renderError(503))
			conn.Close()
			continue
		}
		s.nextID++
		sess := &session{id: s.nextID, conn: conn, srv: s}
		s.sessions[sess.id] = sess
		sess.timer = time.AfterFunc(s.cfg.ConnDeadline, sess.expire)
		s.mu.Unlock()

		go sess.run()
	}
}

// handle resolves a parsed request against the sandbox root and renders
// the response bytes.
func (s *Server) handle(req request) []byte {
	target, err := resolveTarget(s.root, req.path)
	switch {
	case errors.Is(err, errTraversal):
		return renderError(403)
	case errors.Is(err, fs.ErrNotExist):
		return renderError(404)
	case err != nil:
		log.Printf("httpd: resolve %s: %v", req.path, err)
		return renderError(500)
	}

	fi, err := os.Stat(target)
	if err != nil {
		return renderError(404)
	}

	if fi.IsDir() {
		if !strings.HasSuffix(req.path, "/") {
			return renderRedirect(req.path + "/")
		}
		for _, index := range []string{"index.html", "index.htm"} {
			p := filepath.Join(target, index)
			if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
				return renderFile(p)
			}
		}
		return renderListing(req.path, target)
	}

	return renderFile(target)
}
