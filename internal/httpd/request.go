package httpd

import (
	"net/url"
	"strings"
)

// request is a framed and validated GET request. Only the path component
// of the target matters for resolution; query and fragment are dropped.
type request struct {
	path string // percent-decoded
}

// parseRequest extracts the request line from a decoded header block.
// A non-zero second return is the HTTP status to answer with.
func parseRequest(headerBlock string) (request, int) {
	line := headerBlock
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}

	fields := strings.Split(line, " ")
	if len(fields) < 2 || fields[1] == "" {
		return request{}, 400
	}
	if fields[0] != "GET" || len(fields) != 3 {
		return request{}, 405
	}

	target := fields[1]
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}

	path, err := url.PathUnescape(target)
	if err != nil {
		return request{}, 400
	}
	if path == "" {
		path = "/"
	}
	return request{path: path}, 0
}
