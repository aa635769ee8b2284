package httpd

import (
	"bytes"
	"net"
	"time"
	"unicode/utf8"
)

var headerEnd = []byte("\r\n\r\n")

// session owns one accepted connection: frame the header block, write
// exactly one response, close. No keep-alive.
type session struct {
	id   uint64
	conn net.Conn
	srv  *Server

	// Guarded by srv.mu.
	timer    *time.Timer
	closed   bool
	timedOut bool
}

func (c *session) run() {
	defer c.close()

	headerBlock, status := c.readHeader()
	c.stopTimer()

	if status != 0 {
		// A fired deadline already closed the socket; a partial request
		// gets no response beyond that.
		if !c.expired() {
			c.conn.Write(renderError(status))
		}
		return
	}

	req, status := parseRequest(headerBlock)
	if status != 0 {
		c.conn.Write(renderError(status))
		return
	}

	c.conn.Write(c.srv.handle(req))
}

// readHeader accumulates bytes until the blank line ending the header
// block. A non-zero second return is the HTTP status to answer with.
func (c *session) readHeader() (string, int) {
	buf := make([]byte, 0, 1024)
	chunk := make([]byte, 1024)

	for {
		if i := bytes.Index(buf, headerEnd); i >= 0 {
			if !utf8.Valid(buf[:i]) {
				return "", 400
			}
			return string(buf[:i]), 0
		}
		if len(buf) > c.srv.cfg.HeaderLimit {
			return "", 413
		}

		n, err := c.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if err != nil {
			// Stream ended before a complete header block.
			return "", 400
		}
	}
}

// expire is the deadline callback. Closing the socket unblocks the
// pending read; run then finishes and deregisters.
func (c *session) expire() {
	c.srv.mu.Lock()
	if c.closed {
		c.srv.mu.Unlock()
		return
	}
	c.timedOut = true
	c.srv.mu.Unlock()
	c.conn.Close()
}

func (c *session) expired() bool {
	c.srv.mu.Lock()
	defer c.srv.mu.Unlock()
	return c.timedOut
}

// stopTimer cancels the deadline once framing completes or fails, so a
// late fire cannot race the rest of the session.
func (c *session) stopTimer() {
	c.srv.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.srv.mu.Unlock()
}

// close is idempotent: a deadline racing normal completion must not
// double-close or double-deregister.
func (c *session) close() {
	c.srv.mu.Lock()
	if c.closed {
		c.srv.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	delete(c.srv.sessions, c.id)
	c.srv.mu.Unlock()

	c.conn.Close()
}
