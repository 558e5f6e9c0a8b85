package registry

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"go.uber.org/multierr"

	"github.com/joshuapare/regkey/pkg/types"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type handleState uint8

const (
	stateLive handleState = iota
	stateRoot
	stateClosed
)

// nodeHandle is the state of a Key's store handle. Only stateLive handles are
// released on Close.
type nodeHandle struct {
	state handleState
	h     Handle
}

// Key is an open registry key. A Key is either a hive root (see OpenRoot) or
// a child obtained from OpenSubKey or CreateSubKey; children must be closed.
//
// A Key is not safe for concurrent use by multiple goroutines, but distinct
// keys over the same Store are.
type Key struct {
	store    Store
	name     string
	handle   nodeHandle
	writable bool
	log      *slog.Logger
	guard    runtime.Cleanup
}

// Option configures a root Key. Children inherit their parent's options.
type Option func(*Key)

// WithLogger routes the key's diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(k *Key) {
		if l != nil {
			k.log = l
		}
	}
}

// leaked is what the leak guard needs to release a Key nobody closed. It must
// not reference the Key itself.
type leaked struct {
	store Store
	h     Handle
	name  string
	log   *slog.Logger
}

func releaseLeaked(l leaked) {
	l.log.Warn("registry key was not closed", "key", l.name, "handle", fmt.Sprintf("0x%X", uintptr(l.h)))
	l.store.Flush(l.h)
	l.store.Close(l.h)
}

func (k *Key) child(h Handle, name string, writable bool) *Key {
	c := &Key{
		store:    k.store,
		name:     CombineName(k.name, name),
		handle:   nodeHandle{state: stateLive, h: h},
		writable: writable,
		log:      k.log,
	}
	c.guard = runtime.AddCleanup(c, releaseLeaked, leaked{store: k.store, h: h, name: c.name, log: k.log})
	return c
}

// Name returns the full path of the key, starting with the hive name.
func (k *Key) Name() string { return k.name }

// Writable reports whether the key was opened for writing.
func (k *Key) Writable() bool { return k.writable }

// IsRoot reports whether k is a hive root.
func (k *Key) IsRoot() bool { return k.handle.state == stateRoot }

// Closed reports whether Close has released the key.
func (k *Key) Closed() bool { return k.handle.state == stateClosed }

// String returns the key name and its store handle, e.g.
// `HKEY_CURRENT_USER\Software [0x1F]`.
func (k *Key) String() string {
	return fmt.Sprintf("%s [0x%X]", k.name, uintptr(k.handle.h))
}

// Flush persists pending writes made through the key. Flushing a closed key
// does nothing.
func (k *Key) Flush() error {
	if k.handle.state == stateClosed {
		return nil
	}
	if code := k.store.Flush(k.handle.h); code != types.Success {
		return k.fail("flush", "", code)
	}
	return nil
}

// Close flushes the key and releases its handle. It is idempotent. Closing a
// root only flushes it; the root stays usable.
func (k *Key) Close() error {
	if k.handle.state == stateClosed {
		return nil
	}
	err := k.Flush()
	if k.handle.state == stateRoot {
		return err
	}

	h := k.handle.h
	k.handle = nodeHandle{state: stateClosed}
	k.guard.Stop()
	if code := k.store.Close(h); code != types.Success {
		err = multierr.Append(err, resultError("close", k.name, code))
	}
	return err
}

func (k *Key) check() error {
	if k.handle.state == stateClosed {
		return types.Errorf(types.ErrKindDisposed, "cannot access a closed registry key %q", k.name)
	}
	return nil
}

func (k *Key) checkWritable() error {
	if !k.writable {
		return types.Errorf(types.ErrKindAccessDenied, "cannot write to the registry key %q", k.name)
	}
	return nil
}

func (k *Key) fail(op, name string, code types.ResultCode) error {
	path := k.name
	if name != "" {
		path = CombineName(k.name, name)
	}
	k.log.Debug("registry store call failed", "op", op, "path", path, "code", code.String())
	return resultError(op, path, code)
}
