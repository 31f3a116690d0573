package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mdfactory/mdgate/internal/validate"
)

// Load reads and parses an mdgate configuration from the given YAML file
// path, then applies defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches standard locations and loads the first config found.
// Search order: <workdir>/mdgate.yaml, ~/.mdgate/config.yaml. When no file
// exists, built-in defaults apply.
func LoadDefault(workdir string) (*Config, error) {
	candidates := []string{filepath.Join(workdir, "mdgate.yaml")}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".mdgate", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset keys only: a nil pointer means the key was
// absent from the YAML, while an explicit zero is kept as written.
func applyDefaults(cfg *Config) {
	if cfg.Structure.MinAtoms == nil {
		cfg.Structure.MinAtoms = intPtr(validate.DefaultMinAtoms)
	}
	if len(cfg.ForceField.Known) == 0 {
		cfg.ForceField.Known = append([]string(nil), validate.DefaultKnownForceFields...)
	}
	if len(cfg.ForceField.NamePatterns) == 0 {
		cfg.ForceField.NamePatterns = append([]string(nil), validate.DefaultNamePatterns...)
	}
	if cfg.System.MinProteinAtoms == nil {
		cfg.System.MinProteinAtoms = intPtr(validate.DefaultMinProteinAtoms)
	}
	if cfg.System.MinWaterAtoms == nil {
		cfg.System.MinWaterAtoms = intPtr(validate.DefaultMinWaterAtoms)
	}
	if cfg.System.MinIons == nil {
		cfg.System.MinIons = intPtr(validate.DefaultMinIons)
	}
}

func intPtr(v int) *int { return &v }
