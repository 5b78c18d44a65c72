package main

import (
	"fmt"
	"io"
	"time"

	"github.com/chazu/symjit/store"
)

// listCache prints one line per cached artifact, oldest first.
func listCache(w io.Writer, s *store.Store) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s  %-32s %7d  %s\n",
			e.Key, e.ID, e.Config, e.Size, e.Created.Format(time.DateTime))
	}
	return nil
}

// evictCache removes key from the cache, or every entry when key is "all".
// It returns the number of keys removed.
func evictCache(s *store.Store, key string) (int, error) {
	keys := []string{key}
	if key == "all" {
		var err error
		if keys, err = s.Keys(); err != nil {
			return 0, err
		}
	}
	for _, k := range keys {
		if err := s.Delete(k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// openCache opens the artifact cache at its default location.
func openCache() (*store.Store, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
