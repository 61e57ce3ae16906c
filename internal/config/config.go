package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultPort = 8000
)

// Config is the top-level cellserve configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// ServerConfig holds the HTTP serving settings.
type ServerConfig struct {
	// Port is the local port payloads are served on. It is also baked into
	// every manifest URL (default 8000).
	Port int `yaml:"port"`

	// Watch rebuilds the serving session whenever a dataset source file
	// changes and notifies connected live-reload clients.
	Watch bool `yaml:"watch"`
}

// DatasetConfig describes one dataset and its source objects.
type DatasetConfig struct {
	// UID identifies the dataset; it becomes the first segment of every
	// route path the dataset serves. Must be unique and slash-free.
	UID string `yaml:"uid"`

	// Objects lists the source objects in object-index order.
	Objects []ObjectConfig `yaml:"objects"`
}

// ObjectConfig describes one source object to load and wrap.
type ObjectConfig struct {
	// Kind selects the wrapper: experiment | matrix.
	Kind string `yaml:"kind"`

	// Path is the JSON source file for the object.
	Path string `yaml:"path"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: DefaultPort,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", cfg.Server.Port)
	}

	seen := make(map[string]bool)
	for i, d := range cfg.Datasets {
		if d.UID == "" {
			return fmt.Errorf("datasets[%d].uid must not be empty", i)
		}
		if strings.Contains(d.UID, "/") {
			return fmt.Errorf("datasets[%d].uid %q must not contain a slash", i, d.UID)
		}
		if seen[d.UID] {
			return fmt.Errorf("datasets[%d].uid %q is used twice", i, d.UID)
		}
		seen[d.UID] = true

		for j, o := range d.Objects {
			switch o.Kind {
			case "experiment", "matrix":
			default:
				return fmt.Errorf("datasets[%d].objects[%d].kind %q unknown: want experiment|matrix", i, j, o.Kind)
			}
			if o.Path == "" {
				return fmt.Errorf("datasets[%d].objects[%d].path must not be empty", i, j)
			}
		}
	}
	return nil
}

// SourcePaths returns every source file referenced by the configuration, in
// declaration order without duplicates.
func (c *Config) SourcePaths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range c.Datasets {
		for _, o := range d.Objects {
			if !seen[o.Path] {
				seen[o.Path] = true
				out = append(out, o.Path)
			}
		}
	}
	return out
}
