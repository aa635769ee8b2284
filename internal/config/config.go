// Package config holds the process-wide settings. Defaults are loaded
// once at startup and passed into each component by value; there is no
// mutable global.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes TOML strings like "30s" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	MaxConnections int      `toml:"max_connections"`
	HeaderLimit    int      `toml:"header_limit"` // bytes
	ConnDeadline   Duration `toml:"connection_deadline"`
	ScanTTL        Duration `toml:"scan_ttl"`
	PortRangeStart uint16   `toml:"port_range_start"`
	PortRangeEnd   uint16   `toml:"port_range_end"`
	StateFile      string   `toml:"state_file"`
}

func Default() Config {
	return Config{
		MaxConnections: 50,
		HeaderLimit:    64 << 10,
		ConnDeadline:   Duration{30 * time.Second},
		ScanTTL:        Duration{2 * time.Second},
		PortRangeStart: 8080,
		PortRangeEnd:   9000,
		StateFile:      defaultStateFile(),
	}
}

// Load reads a TOML file over the defaults. A missing file yields the
// defaults without error, so first runs need no setup.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.PortRangeStart > cfg.PortRangeEnd {
		return Default(), fmt.Errorf("load config %s: port range %d-%d is inverted", path, cfg.PortRangeStart, cfg.PortRangeEnd)
	}
	return cfg, nil
}

// DefaultPath is the config file consulted when --config is not given.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func defaultStateFile() string {
	return filepath.Join(configDir(), "servers.json")
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "ports")
}
