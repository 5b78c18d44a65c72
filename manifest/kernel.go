package manifest

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chazu/symjit/evaluator"
	"github.com/chazu/symjit/store"
	"github.com/chazu/symjit/vm"
)

// Evaluator parses and lowers the kernel's expressions.
func (k *Kernel) Evaluator() (*evaluator.ExpressionEvaluator[complex128], error) {
	fm := evaluator.NewFunctionMap()
	for _, name := range slices.Sorted(maps.Keys(k.External)) {
		if err := fm.AddExternalFunction(evaluator.Intern(name), k.External[name]); err != nil {
			return nil, fmt.Errorf("kernel %q: %w", k.Name, err)
		}
	}

	exprs := make([]evaluator.Expr, len(k.Exprs))
	for i, src := range k.Exprs {
		e, err := evaluator.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("kernel %q expression %d: %w", k.Name, i, err)
		}
		exprs[i] = e
	}

	ev, err := evaluator.NewEvaluator(exprs, fm, evaluator.Symbols(k.Params...))
	if err != nil {
		return nil, fmt.Errorf("kernel %q: %w", k.Name, err)
	}
	return ev, nil
}

// CacheKey identifies the artifact the kernel compiles to under cfg.
func (k *Kernel) CacheKey(cfg vm.Config) string {
	parts := []string{
		strings.Join(k.Exprs, "\x00"),
		strings.Join(k.Params, "\x00"),
		fmt.Sprintf("%s workers=%d", cfg, cfg.Workers),
	}
	for _, name := range slices.Sorted(maps.Keys(k.External)) {
		parts = append(parts, name+"="+k.External[name])
	}
	return store.Key(parts...)
}
