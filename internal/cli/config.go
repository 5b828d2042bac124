package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the optional config file. Flags override every field.
//
//	uniforms = ["vec2 uResolution", "float uTime"]
//	cache_dir = "/var/cache/shadergraph"
//	cache_ttl = "24h"
//	redis_addr = "localhost:6379"
//	listen_addr = ":8080"
type Config struct {
	Uniforms   []string `toml:"uniforms"`
	CacheDir   string   `toml:"cache_dir"`
	CacheTTL   duration `toml:"cache_ttl"`
	RedisAddr  string   `toml:"redis_addr"`
	ListenAddr string   `toml:"listen_addr"`
}

// duration decodes TOML strings such as "36h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file yields the zero Config; an explicit
// path must exist.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
