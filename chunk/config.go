package chunk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/tdup/internal/lang"
	"github.com/gnolang/tdup/internal/statement"
)

// DefaultConfigPath is the configuration file looked up when none is given.
const DefaultConfigPath = ".tdup.yaml"

// Config represents the configuration file.
type Config struct {
	Name      string            `yaml:"name"`
	Policy    string            `yaml:"policy"`
	Cache     CacheConfig       `yaml:"cache"`
	Languages []lang.Definition `yaml:"languages,omitempty"`
}

// CacheConfig controls the on-disk report cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir,omitempty"`
	MaxAge  time.Duration `yaml:"max_age,omitempty"`
}

// DefaultConfig uses the built-in languages with the strict policy.
func DefaultConfig() Config {
	return Config{
		Name:   "tdup",
		Policy: statement.PolicyStrict.String(),
		Cache: CacheConfig{
			Dir:    ".tdup-cache",
			MaxAge: 24 * time.Hour,
		},
	}
}

// LoadConfig reads the configuration file. An empty path, or the default
// path when the file does not exist, yields DefaultConfig.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()
	if configurationPath == "" {
		return config, nil
	}

	f, err := os.Open(configurationPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && configurationPath == DefaultConfigPath {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parsing %s: %w", configurationPath, err)
	}

	return config, nil
}

// Registry builds the language profiles of the configuration. A configured
// language replaces the built-in profile of the same name, and takes over
// the extensions it lists from the remaining built-in profiles.
func (c Config) Registry() (*lang.Registry, error) {
	policy, err := statement.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}

	builtins, err := lang.Builtins(policy)
	if err != nil {
		return nil, err
	}

	configured := make(map[string]bool, len(c.Languages))
	claimed := make(map[string]bool)
	profiles := make([]*lang.Profile, 0, len(builtins)+len(c.Languages))
	for _, def := range c.Languages {
		p, err := def.Compile(policy)
		if err != nil {
			return nil, err
		}
		configured[p.Name] = true
		for _, ext := range p.Extensions {
			claimed[strings.ToLower(ext)] = true
		}
		profiles = append(profiles, p)
	}
	for _, p := range builtins {
		if configured[p.Name] {
			continue
		}
		exts := make([]string, 0, len(p.Extensions))
		for _, ext := range p.Extensions {
			if !claimed[ext] {
				exts = append(exts, ext)
			}
		}
		p.Extensions = exts
		profiles = append(profiles, p)
	}

	return lang.NewRegistry(profiles...)
}
