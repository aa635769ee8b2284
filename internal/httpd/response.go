package httpd

import (
	"bytes"
	"fmt"
	"html"
	"log"
	"net/url"
	"os"
	"strings"
)

var statusText = map[int]string{
	200: "OK",
	301: "Moved Permanently",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	413: "Payload Too Large",
	500: "Internal Server Error",
	503: "Service Unavailable",
}

type header struct {
	name, value string
}

var (
	noSniff   = header{"X-Content-Type-Options", "nosniff"}
	frameDeny = header{"X-Frame-Options", "DENY"}
)

// render emits a complete response: status line, Content-Type,
// Content-Length, Connection: close, any extra headers, blank line, body.
// The body length is always known up front; nothing is chunked.
func render(status int, contentType string, extra []header, body []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status, statusText[status])
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	b.WriteString("Connection: close\r\n")
	for _, h := range extra {
		fmt.Fprintf(&b, "%s: %s\r\n", h.name, h.value)
	}
	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes()
}

// renderFile serves the file's bytes. A read failure here is the race
// between the earlier stat and the read, so it becomes a 500.
func renderFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("httpd: read %s: %v", path, err)
		return renderError(500)
	}

	ctype := contentTypeFor(path)
	var extra []header
	if ctype == "text/html" {
		extra = []header{noSniff}
	}
	return render(200, ctype, extra, data)
}

// renderListing builds an HTML index of dir. reqPath is the decoded
// request path and always ends in a slash.
func renderListing(reqPath, dir string) []byte {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("httpd: list %s: %v", dir, err)
		return renderError(500)
	}

	title := html.EscapeString(reqPath)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Index of " + title + "</title></head>\n<body>\n")
	b.WriteString("<h1>Index of " + title + "</h1>\n<ul>\n")
	if reqPath != "/" {
		b.WriteString("<li><a href=\"../\">../</a></li>\n")
	}
	for _, e := range entries {
		display := e.Name()
		target := reqPath + e.Name()
		if e.IsDir() {
			display += "/"
			target += "/"
		}
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", escapePath(target), html.EscapeString(display))
	}
	b.WriteString("</ul>\n</body>\n</html>\n")

	return render(200, "text/html", []header{noSniff, frameDeny}, []byte(b.String()))
}

// renderRedirect answers 301 to the given decoded path, re-encoded.
func renderRedirect(path string) []byte {
	loc := scrubHeaderValue(escapePath(path))
	body := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><title>301 Moved Permanently</title></head>\n<body>\n<h1>Moved Permanently</h1>\n<p><a href=\"%s\">%s</a></p>\n</body>\n</html>\n",
		html.EscapeString(loc), html.EscapeString(loc))
	return render(301, "text/html", []header{{"Location", loc}, noSniff}, []byte(body))
}

func renderError(status int) []byte {
	msg := html.EscapeString(statusText[status])
	body := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head><title>%d %s</title></head>\n<body>\n<h1>%d %s</h1>\n</body>\n</html>\n",
		status, msg, status, msg)
	return render(status, "text/html", []header{noSniff, frameDeny}, []byte(body))
}

func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// scrubHeaderValue drops the characters that would allow header or
// response splitting.
func scrubHeaderValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', 0:
			return -1
		}
		return r
	}, v)
}
