package httpd

import "testing"

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantPath   string
		wantStatus int
	}{
		{"plain", "GET /a/b.txt HTTP/1.1\r\nHost: localhost", "/a/b.txt", 0},
		{"root", "GET / HTTP/1.1", "/", 0},
		{"percent decoded", "GET /a%20b/c.txt HTTP/1.1", "/a b/c.txt", 0},
		{"query dropped", "GET /dir?x=1&y=2 HTTP/1.1", "/dir", 0},
		{"fragment dropped", "GET /dir#frag HTTP/1.1", "/dir", 0},
		{"query and fragment", "GET /dir?x=1#frag HTTP/1.1", "/dir", 0},
		{"empty target normalizes", "GET ?x=1 HTTP/1.1", "/", 0},
		{"post", "POST /form HTTP/1.1", "", 405},
		{"head", "HEAD / HTTP/1.1", "", 405},
		{"lowercase method", "get / HTTP/1.1", "", 405},
		{"missing version", "GET /", "", 405},
		{"extra fields", "GET / HTTP/1.1 junk", "", 405},
		{"bad escape", "GET /a%zz HTTP/1.1", "", 400},
		{"method only", "GET", "", 400},
		{"empty", "", "", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, status := parseRequest(tt.in)
			if status != tt.wantStatus {
				t.Fatalf("parseRequest(%q) status = %d, want %d", tt.in, status, tt.wantStatus)
			}
			if status == 0 && req.path != tt.wantPath {
				t.Errorf("parseRequest(%q) path = %q, want %q", tt.in, req.path, tt.wantPath)
			}
		})
	}
}
