// Package store persists the saved-server list as JSON.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/rselbach/Ports/pkg/model"
)

// Load reads the saved-server list. A missing file is an empty list. A
// malformed entry is skipped with a warning so one bad record never
// blocks the rest from restoring.
func Load(path string) ([]model.SavedServer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var servers []model.SavedServer
	for i, msg := range raw {
		var s model.SavedServer
		if err := json.Unmarshal(msg, &s); err != nil {
			log.Printf("store: skipping entry %d in %s: %v", i, path, err)
			continue
		}
		if s.Port == 0 || s.Directory == "" {
			log.Printf("store: skipping entry %d in %s: missing port or directory", i, path)
			continue
		}
		servers = append(servers, s)
	}
	return servers, nil
}

// Save writes the list atomically via a temp-file rename.
func Save(path string, servers []model.SavedServer) error {
	if servers == nil {
		servers = []model.SavedServer{}
	}
	data, err := json.MarshalIndent(servers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode servers: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
