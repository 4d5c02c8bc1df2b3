package autotile

import (
	"fmt"
	"io/ioutil"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for an Engine
type Config struct {
	// rules used to build the pattern table, defaults are used if empty
	Rules []Rule `yaml:"rules"`

	// tileset used if a map doesn't name one
	Tileset string `yaml:"tileset"`

	// integer multiplier applied to rendered images
	Scale int `yaml:"scale"`

	// reads tileset geometry, LoadTileset if nil
	Loader TilesetLoader `yaml:"-"`
}

// DefaultConfig returns an engine config with default settings.
func DefaultConfig() *Config {
	return &Config{
		Rules:  DefaultRules(),
		Scale:  1,
		Loader: LoadTileset,
	}
}

// LoadConfig reads a yaml config file. Anything unset keeps its default.
func LoadConfig(fname string) (*Config, error) {
	fpath, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Rules = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", fname, err)
	}

	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if cfg.Tileset != "" {
		cfg.Tileset, err = homedir.Expand(cfg.Tileset)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
