// Package kvstore is the minimal embedding store cmd/cdvvsetctl drives: one
// JSON-encoded cdvvset.Clock per key, persisted under a directory, with
// writes to a given key serialized by an in-process mutex. It owns no
// causal logic of its own — only marshal/unmarshal, locking, and atomic
// file replace — the embedding store is a black box that merely supplies
// durability, not causal logic.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
)

// Store is a file-backed key-value store of cdvvset.Clock[string, string]
// values, one JSON file per key under baseDir.
type Store struct {
	baseDir string
	logger  *zap.Logger

	mu       sync.Mutex // guards keyLocks
	keyLocks map[string]*sync.Mutex
}

// Config configures a Store.
type Config struct {
	// BaseDir is the directory each key's JSON file is stored under.
	BaseDir string
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{BaseDir: "./data/cdvvset"}
}

// Open creates (if needed) cfg.BaseDir and returns a Store rooted there.
func Open(cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create base dir: %w", err)
	}
	logger.Info("kvstore opened", zap.String("base_dir", cfg.BaseDir))
	return &Store{baseDir: cfg.BaseDir, logger: logger, keyLocks: make(map[string]*sync.Mutex)}, nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// lockFor returns the mutex serializing writes to key, creating it on
// first use.
func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

// Get loads the clock stored for key. A key with no stored clock yet
// returns the zero Clock and ok=false, not an error.
func (s *Store) Get(key string) (clock cdvvset.Clock[string, string], ok bool, err error) {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return cdvvset.Clock[string, string]{}, false, nil
		}
		return cdvvset.Clock[string, string]{}, false, fmt.Errorf("kvstore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &clock); err != nil {
		return cdvvset.Clock[string, string]{}, false, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return clock, true, nil
}

// Put persists clock for key, replacing whatever was stored there. The
// write goes through a temp file plus rename so a crash mid-write never
// leaves a half-written JSON file behind.
func (s *Store) Put(key string, clock cdvvset.Clock[string, string]) error {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.MarshalIndent(clock, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}

	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("kvstore: replace %s: %w", key, err)
	}

	s.logger.Debug("clock persisted",
		zap.String("key", key),
		zap.Int("size", cdvvset.Size(clock)),
	)
	return nil
}

// Update atomically loads the clock for key, runs f against it (and its
// presence flag), and persists whatever f returns. f runs under key's
// write lock, so concurrent Updates to the same key serialize.
func (s *Store) Update(key string, f func(clock cdvvset.Clock[string, string], ok bool) (cdvvset.Clock[string, string], error)) error {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	clock, ok, err := s.getLocked(key)
	if err != nil {
		return err
	}
	next, err := f(clock, ok)
	if err != nil {
		return err
	}
	return s.putLocked(key, next)
}

func (s *Store) getLocked(key string) (cdvvset.Clock[string, string], bool, error) {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return cdvvset.Clock[string, string]{}, false, nil
		}
		return cdvvset.Clock[string, string]{}, false, fmt.Errorf("kvstore: read %s: %w", key, err)
	}
	var clock cdvvset.Clock[string, string]
	if err := json.Unmarshal(data, &clock); err != nil {
		return cdvvset.Clock[string, string]{}, false, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return clock, true, nil
}

func (s *Store) putLocked(key string, clock cdvvset.Clock[string, string]) error {
	data, err := json.MarshalIndent(clock, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", key, err)
	}
	return os.Rename(tmp, path)
}

// Delete removes the stored clock for key, if any.
func (s *Store) Delete(key string) error {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kvstore: delete %s: %w", key, err)
	}
	return nil
}
