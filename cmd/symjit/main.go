// symjit CLI - compile expressions and evaluate them over rows of input
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/symjit/bridge"
	"github.com/chazu/symjit/manifest"
	"github.com/chazu/symjit/store"
	"github.com/chazu/symjit/vm"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

type options struct {
	params   string
	kind     string
	args     string
	external string
	threads  bool
	workers  int
	save     string
	load     string
	cache    bool
	list     bool
	evict    string
	kernel   string
	disasm   bool
	features bool
	dir      string
	verbose  bool
}

func main() {
	var o options
	flag.StringVar(&o.params, "params", "", "Comma-separated parameter names, in row order")
	flag.StringVar(&o.kind, "kind", "", "Runner kind: "+strings.Join(bridge.KindNames(), ", "))
	flag.StringVar(&o.args, "args", "", "Rows to evaluate: values separated by ',' and rows by ';' (default: stdin)")
	flag.StringVar(&o.external, "external", "", "External functions as name=libfunc pairs, e.g. sh=sinh")
	flag.BoolVar(&o.threads, "threads", false, "Spread rows over worker goroutines")
	flag.IntVar(&o.workers, "workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	flag.StringVar(&o.save, "save", "", "Write the compiled artifact to this file")
	flag.StringVar(&o.load, "load", "", "Evaluate a saved artifact instead of compiling")
	flag.BoolVar(&o.cache, "cache", false, "Look up and store artifacts in the artifact cache")
	flag.BoolVar(&o.list, "cache-list", false, "List cached artifacts and exit")
	flag.StringVar(&o.evict, "cache-evict", "", "Remove a cached artifact by key (or 'all') and exit")
	flag.StringVar(&o.kernel, "kernel", "", "Evaluate a kernel from symjit.toml or symjit.yaml")
	flag.BoolVar(&o.disasm, "disasm", false, "Print the program listing")
	flag.BoolVar(&o.features, "features", false, "Print host CPU features and exit")
	flag.StringVar(&o.dir, "C", ".", "Directory to search for a project file")
	flag.BoolVar(&o.verbose, "v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: symjit [options] [expr...]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles expressions and evaluates them over rows of input.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  symjit -params x,y -args '3,4' 'x + y^2'         # 19\n")
		fmt.Fprintf(os.Stderr, "  symjit -kind complex -params x,y -args '2+1i,-2+4i' 'x + y^3'\n")
		fmt.Fprintf(os.Stderr, "  symjit -params x -save sq.sjit 'x^2'            # compile and save\n")
		fmt.Fprintf(os.Stderr, "  seq 10 | symjit -load sq.sjit                   # rows from stdin\n")
		fmt.Fprintf(os.Stderr, "  symjit -cache-evict all                         # empty the artifact cache\n")
		fmt.Fprintf(os.Stderr, "  symjit -kernel poly -args '1,2;3,4'             # kernel from symjit.toml\n")
	}
	flag.Parse()

	verbosity := 0
	if o.verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	if err := run(o, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, exprs []string) error {
	if o.features {
		fmt.Println(vm.HostFeatures())
		return nil
	}
	if o.list || o.evict != "" {
		return manageCache(o)
	}

	a, kind, name, err := artifact(o, exprs)
	if err != nil {
		return err
	}

	if o.verbose {
		fmt.Fprintf(os.Stderr, "Artifact %s: %s, %d param units, %d output units\n",
			a.ID(), a.Config(), a.CountParams(), a.CountObs())
	}
	if o.disasm {
		fmt.Print(a.Program().DisassembleWithName(name))
	}
	if o.save != "" {
		if err := saveArtifact(a, o.save); err != nil {
			return err
		}
		if o.verbose {
			fmt.Fprintf(os.Stderr, "Saved %s\n", o.save)
		}
	}

	// Compiling, listing or saving alone does not read rows.
	if o.args == "" && (o.disasm || o.save != "") {
		return nil
	}

	src, err := rowSource(o.args)
	if err != nil {
		return err
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Printf("; %s %s on %s\n", name, a.Config(), vm.HostFeatures().Arch)
	}
	return evaluate(os.Stdout, kind, a, src)
}

// artifact compiles, loads or resolves the artifact to run, together with
// its runner kind and a display name.
func artifact(o options, exprs []string) (*vm.Artifact, string, string, error) {
	switch {
	case o.load != "":
		f, err := os.Open(o.load)
		if err != nil {
			return nil, "", "", err
		}
		defer f.Close()
		a, err := vm.Load(f)
		if err != nil {
			return nil, "", "", fmt.Errorf("load %s: %w", o.load, err)
		}
		kind := o.kind
		if kind == "" {
			kind = kindOf(a.Config())
		}
		return a, kind, filepath.Base(o.load), nil

	case o.kernel != "":
		m, err := manifest.FindAndLoad(o.dir)
		if err != nil {
			return nil, "", "", err
		}
		if m == nil {
			return nil, "", "", fmt.Errorf("no %s or %s found from %s", manifest.TOMLName, manifest.YAMLName, o.dir)
		}
		if _, ok := m.Kernel(o.kernel); !ok {
			return nil, "", "", fmt.Errorf("%s has no kernel %q", m.Path, o.kernel)
		}
		m.Config.UseThreads = m.Config.UseThreads || o.threads
		if o.workers > 0 {
			m.Config.Workers = o.workers
		}
		resolved, err := manifest.NewResolver(m, o.verbose).Resolve()
		if err != nil {
			return nil, "", "", err
		}
		for _, rk := range resolved {
			if rk.Kernel.Name == o.kernel {
				return rk.Artifact, m.Runner, o.kernel, nil
			}
		}
		return nil, "", "", fmt.Errorf("kernel %q was not resolved", o.kernel)
	}

	if len(exprs) == 0 {
		return nil, "", "", errors.New("no expressions given (see -h)")
	}
	kind := o.kind
	if kind == "" {
		kind = "real"
	}
	k := &manifest.Kernel{Name: "expr", Params: splitList(o.params), Exprs: exprs}
	ext, err := parseExternals(o.external)
	if err != nil {
		return nil, "", "", err
	}
	k.External = ext

	cfg, err := bridge.ConfigFor(kind, vm.Config{UseThreads: o.threads, Workers: o.workers})
	if err != nil {
		return nil, "", "", err
	}
	a, err := compileCached(k, cfg, o)
	return a, kind, strings.Join(exprs, "; "), err
}

// compileCached compiles k, going through the artifact cache when -cache
// is set.
func compileCached(k *manifest.Kernel, cfg vm.Config, o options) (*vm.Artifact, error) {
	if !o.cache {
		return manifest.Compile(k, cfg)
	}

	s, err := openCache()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	key := k.CacheKey(cfg)
	a, err := s.Get(key)
	if err == nil {
		if o.verbose {
			fmt.Fprintf(os.Stderr, "Cache hit %s\n", key)
		}
		return a, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	a, err = manifest.Compile(k, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Put(key, a); err != nil {
		return nil, err
	}
	return a, nil
}

func manageCache(o options) error {
	s, err := openCache()
	if err != nil {
		return err
	}
	defer s.Close()

	if o.evict != "" {
		n, err := evictCache(s, o.evict)
		if err != nil {
			return err
		}
		if o.verbose {
			fmt.Fprintf(os.Stderr, "Evicted %d artifacts from %s\n", n, s.Path())
		}
	}
	if o.list {
		return listCache(os.Stdout, s)
	}
	return nil
}

func saveArtifact(a *vm.Artifact, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// kindOf names the default runner kind for an artifact's config.
func kindOf(cfg vm.Config) string {
	domain := "real"
	if cfg.Complex {
		domain = "complex"
	}
	switch {
	case cfg.Backend == vm.BackendInterpreted:
		return "interpreted-" + domain
	case cfg.SIMD:
		return "scattered-" + domain
	}
	return domain
}
