// Package boltstore is a registry.Store persisted in a bbolt database file.
//
// Every hive is a top-level bucket and every key a nested bucket, so a key's
// sub-keys and values live inside its own bucket. Handles remember the path
// from the hive root; a handle whose key was deleted reports
// types.MarkedForDeletion until it is closed.
package boltstore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/joshuapare/regkey/internal/format"
	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
)

// DefaultTimeout is how long Open waits for the file lock.
const DefaultTimeout = time.Second

// Options configure Open.
type Options struct {
	// Timeout bounds the wait for the file lock. Zero means DefaultTimeout.
	Timeout time.Duration
	// ReadOnly opens the file with a shared lock; every write reports
	// types.AccessDenied.
	ReadOnly bool
	// NoSync skips fsync on commit. Flush still syncs.
	NoSync bool
	// Limits bounds names, payloads and depth. Zero fields keep defaults.
	Limits types.Limits
	// Logger receives I/O failures and lifecycle events.
	Logger *slog.Logger
}

type openKey struct {
	hive     registry.Hive
	path     []string
	writable bool
}

// Store is a registry.Store backed by bbolt.
type Store struct {
	path     string
	db       *bolt.DB
	readOnly bool
	limits   types.Limits
	log      *slog.Logger

	mu      sync.Mutex
	handles map[registry.Handle]openKey
	next    registry.Handle
}

var _ registry.Store = (*Store)(nil)

// errAbort rolls back an update whose callback reported a failure code.
var errAbort = errors.New("boltstore: abort")

// Open opens or creates the database file at path.
func Open(path string, opts Options) (*Store, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !opts.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("boltstore: unable to create directory for %s: %w", path, err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout:  opts.Timeout,
		ReadOnly: opts.ReadOnly,
		NoSync:   opts.NoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: unable to open %s: %w", path, err)
	}

	s := &Store{
		path:     path,
		db:       db,
		readOnly: opts.ReadOnly,
		limits:   opts.Limits.Normalize(),
		log:      opts.Logger,
		handles:  make(map[registry.Handle]openKey),
	}
	s.log.Info("boltstore: opened", "path", path, "read_only", opts.ReadOnly)
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Shutdown closes the database file. Handles still open become invalid.
func (s *Store) Shutdown() error {
	s.mu.Lock()
	open := len(s.handles)
	s.handles = make(map[registry.Handle]openKey)
	s.mu.Unlock()

	if open > 0 {
		s.log.Warn("boltstore: closing with open handles", "path", s.path, "handles", open)
	}
	return s.db.Close()
}

// OpenHandles returns the number of handles not yet closed.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Store) Open(parent registry.Handle, name string, access registry.Access) (registry.Handle, types.ResultCode) {
	k, code := s.lookup(parent)
	if code != types.Success {
		return 0, code
	}
	segs := registry.SplitName(name)
	if code := s.checkNames(segs); code != types.Success {
		return 0, code
	}

	code = s.view(k, func(b *bolt.Bucket) types.ResultCode {
		for _, seg := range segs {
			if b == nil {
				return types.NotFound
			}
			b = b.Bucket(subKey(seg))
		}
		if b == nil && len(segs) > 0 {
			return types.NotFound
		}
		return types.Success
	})
	if code != types.Success {
		return 0, code
	}
	return s.register(k.child(segs, access.CanWrite() && !s.readOnly)), types.Success
}

func (s *Store) Create(parent registry.Handle, name string) (registry.Handle, types.ResultCode) {
	k, code := s.lookup(parent)
	if code != types.Success {
		return 0, code
	}
	segs := registry.SplitName(name)
	if code := s.checkNames(segs); code != types.Success {
		return 0, code
	}
	if len(k.path)+len(segs) > s.limits.MaxTreeDepth {
		return 0, types.InvalidParameter
	}

	code = s.update(k, func(b *bolt.Bucket) (types.ResultCode, error) {
		for _, seg := range segs {
			c := b.Bucket(subKey(seg))
			if c == nil {
				if !k.writable {
					return types.AccessDenied, nil
				}
				var err error
				if c, err = b.CreateBucket(subKey(seg)); err != nil {
					return types.RegistryIOFailed, err
				}
				if err := c.Put(nameKey(), []byte(seg)); err != nil {
					return types.RegistryIOFailed, err
				}
			}
			b = c
		}
		return types.Success, nil
	})
	if code != types.Success {
		return 0, code
	}
	return s.register(k.child(segs, true)), types.Success
}

func (s *Store) Close(h registry.Handle) types.ResultCode {
	if _, ok := registry.HiveOf(h); ok {
		return types.Success
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h]; !ok {
		return types.InvalidHandle
	}
	delete(s.handles, h)
	return types.Success
}

// Flush syncs the database file to disk.
func (s *Store) Flush(h registry.Handle) types.ResultCode {
	if _, code := s.lookup(h); code != types.Success {
		return code
	}
	if s.readOnly {
		return types.Success
	}
	if err := s.db.Sync(); err != nil {
		return s.ioFailed("flush", err)
	}
	return types.Success
}

func (s *Store) EnumKey(h registry.Handle, index, capacity int) (string, types.ResultCode) {
	k, code := s.lookup(h)
	if code != types.Success {
		return "", code
	}

	var name string
	code = s.view(k, func(b *bolt.Bucket) types.ResultCode {
		raw, _, ok := nth(b, prefixKey, index)
		if !ok {
			return types.NoMoreEntries
		}
		sub := b.Bucket(raw)
		if sub == nil {
			return types.RegistryIOFailed
		}
		name = string(sub.Get(nameKey()))
		return types.Success
	})
	if code != types.Success {
		return "", code
	}
	return fitName(name, capacity)
}

func (s *Store) EnumValue(h registry.Handle, index, capacity int) (string, types.RegType, types.ResultCode) {
	k, code := s.lookup(h)
	if code != types.Success {
		return "", types.REG_NONE, code
	}

	var (
		name string
		tag  types.RegType
	)
	code = s.view(k, func(b *bolt.Bucket) types.ResultCode {
		_, raw, ok := nth(b, prefixValue, index)
		if !ok {
			return types.NoMoreEntries
		}
		var err error
		if name, tag, _, err = decodeRecord(raw); err != nil {
			return s.ioFailed("enumerate values", err)
		}
		return types.Success
	})
	if code != types.Success {
		return "", types.REG_NONE, code
	}
	name, code = fitName(name, capacity)
	return name, tag, code
}

func (s *Store) QueryValue(h registry.Handle, name string, buf []byte) (types.RegType, int, types.ResultCode) {
	k, code := s.lookup(h)
	if code != types.Success {
		return types.REG_NONE, 0, code
	}

	var (
		tag types.RegType
		n   int
	)
	code = s.view(k, func(b *bolt.Bucket) types.ResultCode {
		if b == nil {
			return types.NotFound
		}
		raw := b.Get(valueKey(name))
		if raw == nil {
			return types.NotFound
		}
		_, t, data, err := decodeRecord(raw)
		if err != nil {
			return s.ioFailed("query value", err)
		}
		tag, n = t, len(data)
		switch {
		case buf == nil:
		case len(buf) < len(data):
			return types.MoreData
		default:
			n = copy(buf, data)
		}
		return types.Success
	})
	return tag, n, code
}

func (s *Store) SetValue(h registry.Handle, name string, tag types.RegType, data []byte) types.ResultCode {
	k, code := s.lookup(h)
	switch {
	case code != types.Success:
		return code
	case !k.writable:
		return types.AccessDenied
	case format.UnitLen(name) > s.limits.MaxValueNameLen, len(data) > s.limits.MaxValueSize:
		return types.InvalidParameter
	}

	return s.update(k, func(b *bolt.Bucket) (types.ResultCode, error) {
		if err := b.Put(valueKey(name), encodeRecord(name, tag, data)); err != nil {
			return types.RegistryIOFailed, err
		}
		return types.Success, nil
	})
}

func (s *Store) DeleteKey(h registry.Handle, name string) types.ResultCode {
	k, code := s.lookup(h)
	switch {
	case code != types.Success:
		return code
	case !k.writable:
		return types.AccessDenied
	}
	segs := registry.SplitName(name)
	if len(segs) == 0 {
		return types.InvalidParameter
	}

	return s.update(k, func(b *bolt.Bucket) (types.ResultCode, error) {
		for _, seg := range segs[:len(segs)-1] {
			if b = b.Bucket(subKey(seg)); b == nil {
				return types.NotFound, nil
			}
		}
		last := subKey(segs[len(segs)-1])
		victim := b.Bucket(last)
		if victim == nil {
			return types.NotFound, nil
		}
		if _, _, ok := nth(victim, prefixKey, 0); ok {
			return types.AccessDenied, nil
		}
		if err := b.DeleteBucket(last); err != nil {
			return types.RegistryIOFailed, err
		}
		return types.Success, nil
	})
}

func (s *Store) DeleteValue(h registry.Handle, name string) types.ResultCode {
	k, code := s.lookup(h)
	switch {
	case code != types.Success:
		return code
	case !k.writable:
		return types.AccessDenied
	}

	return s.update(k, func(b *bolt.Bucket) (types.ResultCode, error) {
		key := valueKey(name)
		if b.Get(key) == nil {
			return types.NotFound, nil
		}
		if err := b.Delete(key); err != nil {
			return types.RegistryIOFailed, err
		}
		return types.Success, nil
	})
}

func (s *Store) lookup(h registry.Handle) (openKey, types.ResultCode) {
	if hive, ok := registry.HiveOf(h); ok {
		return openKey{hive: hive, writable: !s.readOnly}, types.Success
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.handles[h]
	if !ok {
		return openKey{}, types.InvalidHandle
	}
	return k, types.Success
}

func (s *Store) register(k openKey) registry.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.handles[s.next] = k
	return s.next
}

func (k openKey) child(segs []string, writable bool) openKey {
	path := make([]string, 0, len(k.path)+len(segs))
	path = append(append(path, k.path...), segs...)
	return openKey{hive: k.hive, path: path, writable: writable}
}

func (s *Store) checkNames(segs []string) types.ResultCode {
	for _, seg := range segs {
		if format.UnitLen(seg) > s.limits.MaxKeyNameLen {
			return types.InvalidParameter
		}
	}
	return types.Success
}

// view runs fn on the bucket of k. The bucket is nil for a hive root that was
// never written.
func (s *Store) view(k openKey, fn func(b *bolt.Bucket) types.ResultCode) types.ResultCode {
	code := types.Success
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(k.hive.String()))
		if b == nil && len(k.path) > 0 {
			code = types.MarkedForDeletion
			return nil
		}
		for _, seg := range k.path {
			if b = b.Bucket(subKey(seg)); b == nil {
				code = types.MarkedForDeletion
				return nil
			}
		}
		code = fn(b)
		return nil
	})
	if err != nil {
		return s.ioFailed("view", err)
	}
	return code
}

// update runs fn on the bucket of k inside a write transaction, which is
// rolled back unless fn reports types.Success.
func (s *Store) update(k openKey, fn func(b *bolt.Bucket) (types.ResultCode, error)) types.ResultCode {
	if s.readOnly {
		return types.AccessDenied
	}
	code := types.Success
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(k.hive.String()))
		if err != nil {
			code = types.RegistryIOFailed
			return err
		}
		for _, seg := range k.path {
			if b = b.Bucket(subKey(seg)); b == nil {
				code = types.MarkedForDeletion
				return errAbort
			}
		}
		if code, err = fn(b); err != nil {
			return err
		}
		if code != types.Success {
			return errAbort
		}
		return nil
	})
	switch {
	case err == nil, errors.Is(err, errAbort):
		return code
	default:
		return s.ioFailed("update", err)
	}
}

func (s *Store) ioFailed(op string, err error) types.ResultCode {
	s.log.Error("boltstore: I/O failure", "op", op, "path", s.path, "error", err)
	return types.RegistryIOFailed
}

// nth returns the index-th entry of b whose key starts with prefix.
func nth(b *bolt.Bucket, prefix byte, index int) (key, val []byte, ok bool) {
	if b == nil || index < 0 {
		return nil, nil, false
	}
	c := b.Cursor()
	i := 0
	for k, v := c.Seek([]byte{prefix}); k != nil && k[0] == prefix; k, v = c.Next() {
		if i == index {
			return k, v, true
		}
		i++
	}
	return nil, nil, false
}

// fitName applies an enumeration buffer of capacity UTF-16 units to name.
func fitName(name string, capacity int) (string, types.ResultCode) {
	if prefix, ok := format.FitUnits(name, capacity); !ok {
		return prefix, types.MoreData
	}
	return name, types.Success
}
