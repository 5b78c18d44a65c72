// Package store caches compiled artifacts in a SQLite database, keyed by a
// content hash of whatever produced them.
package store

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/symjit/vm"
	"github.com/tliron/commonlog"
	"github.com/zeebo/xxh3"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("symjit.store")

// ErrNotFound indicates the requested key is not cached.
var ErrNotFound = errors.New("artifact not found")

// Store is an artifact cache. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		key     TEXT PRIMARY KEY,
		id      TEXT NOT NULL,
		config  TEXT NOT NULL,
		data    BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// DefaultPath returns $SYMJIT_CACHE, or symjit/artifacts.db under the user
// cache directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("SYMJIT_CACHE"); p != "" {
		return p, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("getting cache dir: %w", err)
	}
	return filepath.Join(dir, "symjit", "artifacts.db"), nil
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Key hashes parts into a cache key. Parts are length-prefixed, so
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	h := xxh3.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.WriteString(p)
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}

// Put stores a under key, replacing any previous entry.
func (s *Store) Put(key string, a *vm.Artifact) error {
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO artifacts (key, id, config, data, created) VALUES (?, ?, ?, ?, ?)",
		key, a.ID().String(), a.Config().String(), data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	log.Infof("cached artifact %s under %s", a.ID(), key)
	return nil
}

// Get loads the artifact stored under key.
func (s *Store) Get(key string) (*vm.Artifact, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM artifacts WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying artifact: %w", err)
	}

	a := new(vm.Artifact)
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", key, err)
	}
	log.Debugf("cache hit %s -> %s", key, a.ID())
	return a, nil
}

// Entry describes one cached artifact without decoding it.
type Entry struct {
	Key     string
	ID      string
	Config  string
	Size    int
	Created time.Time
}

// Entries lists the cache, oldest first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query("SELECT key, id, config, length(data), created FROM artifacts ORDER BY created, key")
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.Key, &e.ID, &e.Config, &e.Size, &created); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		e.Created = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Keys returns every cached key, oldest first.
func (s *Store) Keys() ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM artifacts WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting artifact: %w", err)
	}
	return nil
}
