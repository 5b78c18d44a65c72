package manifest

import (
	"errors"
	"fmt"

	"github.com/chazu/symjit/bridge"
	"github.com/chazu/symjit/evaluator"
	"github.com/chazu/symjit/store"
	"github.com/chazu/symjit/vm"
)

// ResolvedKernel is a kernel compiled (or fetched from the cache) under the
// manifest's runner config.
type ResolvedKernel struct {
	Kernel   *Kernel
	Key      string
	Artifact *vm.Artifact
	Cached   bool
}

// Resolver turns manifest kernels into artifacts.
type Resolver struct {
	manifest *Manifest
	verbose  bool
}

// NewResolver creates a new kernel resolver.
func NewResolver(m *Manifest, verbose bool) *Resolver {
	return &Resolver{
		manifest: m,
		verbose:  verbose,
	}
}

// Resolve compiles every kernel in declaration order, consulting the cache
// when it is enabled, and rewrites the lock file.
func (r *Resolver) Resolve() ([]ResolvedKernel, error) {
	var cache *store.Store
	if r.manifest.Cache.Enabled {
		s, err := store.Open(r.manifest.CachePath())
		if err != nil {
			return nil, err
		}
		defer s.Close()
		cache = s
	}

	cfg := r.manifest.RunnerConfig()
	resolved := make([]ResolvedKernel, 0, len(r.manifest.Kernels))
	for i := range r.manifest.Kernels {
		rk, err := r.resolveOne(&r.manifest.Kernels[i], cfg, cache)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rk)
	}

	if err := r.writeLock(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *Resolver) resolveOne(k *Kernel, cfg vm.Config, cache *store.Store) (ResolvedKernel, error) {
	rk := ResolvedKernel{Kernel: k, Key: k.CacheKey(cfg)}

	if cache != nil {
		a, err := cache.Get(rk.Key)
		switch {
		case err == nil:
			if r.verbose {
				fmt.Printf("  Cached %s (%s)\n", k.Name, a.ID())
			}
			rk.Artifact, rk.Cached = a, true
			return rk, nil
		case !errors.Is(err, store.ErrNotFound):
			return rk, err
		}
	}

	if r.verbose {
		fmt.Printf("  Compiling %s\n", k.Name)
	}
	a, err := Compile(k, cfg)
	if err != nil {
		return rk, err
	}
	rk.Artifact = a

	if cache != nil {
		if err := cache.Put(rk.Key, a); err != nil {
			return rk, err
		}
	}
	return rk, nil
}

// Compile builds the kernel's artifact under cfg. Real configs narrow the
// constants to their real parts.
func Compile(k *Kernel, cfg vm.Config) (*vm.Artifact, error) {
	ev, err := k.Evaluator()
	if err != nil {
		return nil, err
	}
	var a *vm.Artifact
	if cfg.Complex {
		a, err = bridge.Compile[complex128](ev, cfg)
	} else {
		a, err = bridge.Compile[float64](evaluator.MapCoeff(ev, evaluator.RealPart), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("kernel %q: %w", k.Name, err)
	}
	return a, nil
}

// writeLock records the resolved kernels in the lock file.
func (r *Resolver) writeLock(resolved []ResolvedKernel) error {
	lf := &LockFile{}
	for _, rk := range resolved {
		lf.Kernels = append(lf.Kernels, LockedKernel{
			Name:   rk.Kernel.Name,
			Key:    rk.Key,
			ID:     rk.Artifact.ID().String(),
			Config: rk.Artifact.Config().String(),
		})
	}
	return WriteLock(r.manifest.LockFilePath(), lf)
}
