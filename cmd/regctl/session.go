package main

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/joshuapare/regkey/internal/logger"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/store/boltstore"
)

// session is an open store plus the keys a command opened from it.
type session struct {
	store    registry.Store
	shutdown func() error
	keys     []*registry.Key
}

// openSession opens the store selected by the configuration and flags.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreWindows:
		store, err := openWindowsStore()
		if err != nil {
			return nil, err
		}
		return &session{store: store}, nil
	default:
		printVerbose("Opening store: %s\n", cfg.Path)
		store, err := boltstore.Open(cfg.Path, boltstore.Options{
			Timeout:  time.Duration(cfg.LockTimeout),
			ReadOnly: cfg.ReadOnly,
			Logger:   logger.L,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		return &session{store: store, shutdown: store.Shutdown}, nil
	}
}

// openKey opens the key at a fully-qualified path. A missing key is an error.
func (s *session) openKey(path string, writable bool) (*registry.Key, error) {
	root, sub, err := s.root(path)
	if err != nil || sub == "" {
		return root, err
	}
	k, err := root.OpenSubKey(sub, writable)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("key %s does not exist", path)
	}
	return s.track(k), nil
}

// createKey opens the key at path for writing, creating any missing keys.
func (s *session) createKey(path string) (*registry.Key, error) {
	root, sub, err := s.root(path)
	if err != nil || sub == "" {
		return root, err
	}
	k, err := root.OpenOrCreateSubKey(sub, true)
	if err != nil {
		return nil, err
	}
	return s.track(k), nil
}

// parent opens the parent of path for writing and returns it with the last
// path segment.
func (s *session) parent(path string) (*registry.Key, string, error) {
	segs := registry.SplitName(path)
	if len(segs) < 2 {
		return nil, "", fmt.Errorf("%s has no parent key", path)
	}
	k, err := s.openKey(strings.Join(segs[:len(segs)-1], registry.Separator), true)
	if err != nil {
		return nil, "", err
	}
	return k, segs[len(segs)-1], nil
}

func (s *session) root(path string) (*registry.Key, string, error) {
	hive, sub, err := registry.ParsePath(path)
	if err != nil {
		return nil, "", err
	}
	return s.track(registry.OpenRoot(s.store, hive, registry.WithLogger(logger.L))), sub, nil
}

func (s *session) track(k *registry.Key) *registry.Key {
	s.keys = append(s.keys, k)
	return k
}

// Close closes every key the session opened, newest first, then the store.
func (s *session) Close() error {
	var err error
	for i := len(s.keys) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.keys[i].Close())
	}
	s.keys = nil
	if s.shutdown != nil {
		err = multierr.Append(err, s.shutdown())
	}
	return err
}

// closeSession closes s and folds its error into err.
func closeSession(s *session, err error) error {
	return multierr.Append(err, s.Close())
}
