// Package manifest handles symjit.toml and symjit.yaml project files.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chazu/symjit/bridge"
	"github.com/chazu/symjit/vm"
	"gopkg.in/yaml.v3"
)

// File names searched for, in order.
const (
	TOMLName = "symjit.toml"
	YAMLName = "symjit.yaml"
)

// Manifest is a project file: one runner kind and config shared by a set
// of kernels.
type Manifest struct {
	Project Project     `toml:"project" yaml:"project"`
	Runner  string      `toml:"runner" yaml:"runner"`
	Config  vm.Config   `toml:"config" yaml:"config"`
	Cache   CacheConfig `toml:"cache" yaml:"cache"`
	Kernels []Kernel    `toml:"kernels" yaml:"kernels"`

	// Dir is the directory containing the project file (set at load time).
	Dir string `toml:"-" yaml:"-"`
	// Path is the project file itself.
	Path string `toml:"-" yaml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name" yaml:"name"`
	Version string `toml:"version" yaml:"version"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Kernel is a named set of expressions over shared parameters.
type Kernel struct {
	Name   string   `toml:"name" yaml:"name"`
	Params []string `toml:"params" yaml:"params"`
	Exprs  []string `toml:"exprs" yaml:"exprs"`

	// External maps a function name used in Exprs to a library function.
	External map[string]string `toml:"external" yaml:"external"`
}

// Load parses the project file in dir, preferring symjit.toml.
func Load(dir string) (*Manifest, error) {
	for _, name := range []string{TOMLName, YAMLName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("no %s or %s in %s: %w", TOMLName, YAMLName, dir, os.ErrNotExist)
}

// LoadFile parses a project file. The format follows the extension.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = toml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	m.Dir = filepath.Dir(m.Path)

	// Defaults
	if m.Runner == "" {
		m.Runner = "real"
	}
	if m.Config.Backend == "" {
		m.Config.Backend = vm.BackendCompiled
	}
	if m.Cache.Path == "" {
		m.Cache.Path = filepath.Join(".symjit", "artifacts.db")
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a project file, then loads
// and returns the manifest. Returns nil if no project file is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		m, err := Load(dir)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks the runner kind and kernel declarations.
func (m *Manifest) Validate() error {
	if _, err := bridge.ConfigFor(m.Runner, m.Config); err != nil {
		return err
	}
	seen := make(map[string]bool, len(m.Kernels))
	for i, k := range m.Kernels {
		if k.Name == "" {
			return fmt.Errorf("kernel %d has no name", i)
		}
		if seen[k.Name] {
			return fmt.Errorf("duplicate kernel %q", k.Name)
		}
		seen[k.Name] = true
		if len(k.Exprs) == 0 {
			return fmt.Errorf("kernel %q has no expressions", k.Name)
		}
	}
	return nil
}

// RunnerConfig returns Config with the flags the runner kind requires.
func (m *Manifest) RunnerConfig() vm.Config {
	cfg, err := bridge.ConfigFor(m.Runner, m.Config)
	if err != nil {
		return m.Config
	}
	return cfg
}

// Kernel returns the kernel called name.
func (m *Manifest) Kernel(name string) (*Kernel, bool) {
	for i := range m.Kernels {
		if m.Kernels[i].Name == name {
			return &m.Kernels[i], true
		}
	}
	return nil, false
}

// CachePath returns the absolute artifact cache path.
func (m *Manifest) CachePath() string {
	if filepath.IsAbs(m.Cache.Path) {
		return m.Cache.Path
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}

// LockFilePath returns the path to .symjit/lock.toml.
func (m *Manifest) LockFilePath() string {
	return filepath.Join(m.Dir, ".symjit", "lock.toml")
}
