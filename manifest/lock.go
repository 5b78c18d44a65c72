package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LockFile records the artifact each kernel last resolved to.
type LockFile struct {
	Kernels []LockedKernel `toml:"kernel"`
}

// LockedKernel is one resolved kernel.
type LockedKernel struct {
	Name   string `toml:"name"`
	Key    string `toml:"key"`
	ID     string `toml:"id"`
	Config string `toml:"config"`
}

// ReadLock reads a lock file. A missing file yields nil, nil.
func ReadLock(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var lf LockFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &lf, nil
}

// WriteLock writes lf to path, creating its directory.
func WriteLock(path string, lf *LockFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(lf); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// FindLockedKernel returns the entry for name, or nil.
func (lf *LockFile) FindLockedKernel(name string) *LockedKernel {
	if lf == nil {
		return nil
	}
	for i := range lf.Kernels {
		if lf.Kernels[i].Name == name {
			return &lf.Kernels[i]
		}
	}
	return nil
}
