package httpd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// errTraversal marks a request path that resolves outside the server root.
var errTraversal = errors.New("path escapes root")

// resolveRoot canonicalizes a server root once, at startup, through any
// symlinks to its absolute form.
func resolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return resolved, nil
}

// resolveTarget maps a decoded request path into root. The path is joined,
// cleaned, and resolved through symlinks before the containment check, so
// neither percent-encoded traversal nor a symlink can step outside.
func resolveTarget(root, reqPath string) (string, error) {
	joined := filepath.Join(root, filepath.FromSlash(reqPath))

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A nonexistent target still gets the containment check so
			// that a traversal probe is refused, not reported missing.
			if !within(root, joined) {
				return "", errTraversal
			}
			return "", fs.ErrNotExist
		}
		return "", err
	}

	if !within(root, resolved) {
		return "", errTraversal
	}
	return resolved, nil
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
