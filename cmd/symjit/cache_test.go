package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/symjit/manifest"
	"github.com/chazu/symjit/store"
	"github.com/chazu/symjit/vm"
)

func TestCompileCachedThenList(t *testing.T) {
	t.Setenv("SYMJIT_CACHE", filepath.Join(t.TempDir(), "cache.db"))
	k := &manifest.Kernel{Name: "expr", Params: []string{"x"}, Exprs: []string{"x^2 + 1"}}
	cfg := vm.DefaultConfig()

	first, err := compileCached(k, cfg, options{cache: true})
	if err != nil {
		t.Fatal(err)
	}
	second, err := compileCached(k, cfg, options{cache: true})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID() != first.ID() {
		t.Errorf("cached ID = %s, want %s", second.ID(), first.ID())
	}

	s, err := openCache()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var buf bytes.Buffer
	if err := listCache(&buf, s); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, k.CacheKey(cfg)) || !strings.Contains(out, first.ID().String()) {
		t.Errorf("listing = %q, want key %s and id %s", out, k.CacheKey(cfg), first.ID())
	}
}

func TestEvictCache(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	a := compileKind(t, "real", "x", "x")
	for _, key := range []string{"a", "b", "c"} {
		if err := s.Put(key, a); err != nil {
			t.Fatal(err)
		}
	}

	n, err := evictCache(s, "b")
	if err != nil || n != 1 {
		t.Fatalf("evictCache(b) = %d, %v, want 1", n, err)
	}
	keys, _ := s.Keys()
	if strings.Join(keys, ",") != "a,c" {
		t.Errorf("Keys() = %v, want [a c]", keys)
	}

	n, err = evictCache(s, "all")
	if err != nil || n != 2 {
		t.Fatalf("evictCache(all) = %d, %v, want 2", n, err)
	}
	if keys, _ := s.Keys(); len(keys) != 0 {
		t.Errorf("Keys() after evicting all = %v", keys)
	}
}
