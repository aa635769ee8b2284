package httpd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// newRoot builds a canonical sandbox root containing a/b.txt.
func newRoot(t *testing.T) string {
	t.Helper()
	root, err := resolveRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", "b.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestResolveTarget(t *testing.T) {
	root := newRoot(t)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"root", "/", root, nil},
		{"file", "/a/b.txt", filepath.Join(root, "a", "b.txt"), nil},
		{"dir", "/a/", filepath.Join(root, "a"), nil},
		{"dot segments inside root", "/a/../a/b.txt", filepath.Join(root, "a", "b.txt"), nil},
		{"parent escape", "/../", "", errTraversal},
		{"deep escape", "/../../../../etc/passwd", "", errTraversal},
		{"escape via subdir", "/a/../../outside", "", errTraversal},
		{"missing inside root", "/a/missing.txt", "", fs.ErrNotExist},
		{"missing dir", "/nosuch/", "", fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTarget(root, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveTarget(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveTarget(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("resolveTarget(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveTargetSymlinkEscape(t *testing.T) {
	root := newRoot(t)

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "esc")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := resolveTarget(root, "/esc/secret.txt"); !errors.Is(err, errTraversal) {
		t.Errorf("symlink escape error = %v, want %v", err, errTraversal)
	}
}

func TestResolveTargetSymlinkInsideRoot(t *testing.T) {
	root := newRoot(t)

	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := resolveTarget(root, "/alias/b.txt")
	if err != nil {
		t.Fatalf("resolveTarget error = %v", err)
	}
	if want := filepath.Join(root, "a", "b.txt"); got != want {
		t.Errorf("resolveTarget = %q, want %q", got, want)
	}
}

func TestResolveRootRejectsFile(t *testing.T) {
	root := newRoot(t)
	if _, err := resolveRoot(filepath.Join(root, "a", "b.txt")); err == nil {
		t.Error("resolveRoot on a regular file should fail")
	}
}
