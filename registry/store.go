package registry

import (
	"github.com/joshuapare/regkey/pkg/types"
)

// Handle is an opaque reference to an open key inside a Store. The values of
// the predefined hives (see Hive.Handle) are valid handles in every store.
type Handle uintptr

// Access is the access mode requested when opening a key. Values match the
// Win32 KEY_READ and KEY_WRITE masks.
type Access uint32

const (
	AccessRead  Access = 0x00020019 // KEY_READ
	AccessWrite Access = 0x00020006 // KEY_WRITE

	keySetValue     Access = 0x0002
	keyCreateSubKey Access = 0x0004
)

// CanWrite reports whether a grants permission to modify the key.
func (a Access) CanWrite() bool { return a&(keySetValue|keyCreateSubKey) != 0 }

// Store is the raw, handle-based capability a Key is built on. Every method
// reports its outcome as a types.ResultCode; Key translates codes into errors
// in one place.
//
// Names passed to Open, Create and DeleteKey may contain Separator to address
// a nested key, as the Win32 API does.
//
// Implementations must be safe for concurrent use: distinct keys may be used
// from different goroutines, and the leak guard of an unclosed Key calls
// Flush and Close from the runtime's cleanup goroutine.
type Store interface {
	// Open opens the existing key name below parent.
	Open(parent Handle, name string, access Access) (Handle, types.ResultCode)

	// Create opens name below parent, creating it (and missing intermediate
	// keys) when absent. The returned handle is writable.
	Create(parent Handle, name string) (Handle, types.ResultCode)

	// Close releases h. Closing a predefined hive handle is a no-op.
	Close(h Handle) types.ResultCode

	// Flush persists pending writes made through h.
	Flush(h Handle) types.ResultCode

	// EnumKey returns the name of the index-th sub-key, NoMoreEntries once
	// index is past the end, or MoreData (with the name truncated to
	// capacity UTF-16 units) when the name does not fit.
	EnumKey(h Handle, index, capacity int) (string, types.ResultCode)

	// EnumValue is EnumKey for value names; it also reports the value's tag.
	EnumValue(h Handle, index, capacity int) (string, types.RegType, types.ResultCode)

	// QueryValue reads value name. With a nil buf it only reports the tag
	// and payload size. Otherwise it copies the payload into buf and
	// returns the number of bytes written, or MoreData together with the
	// required size when buf is too small.
	QueryValue(h Handle, name string, buf []byte) (types.RegType, int, types.ResultCode)

	// SetValue creates or replaces value name with the raw payload.
	SetValue(h Handle, name string, tag types.RegType, data []byte) types.ResultCode

	// DeleteKey removes the key name below h. A key that still has
	// sub-keys is not removed.
	DeleteKey(h Handle, name string) types.ResultCode

	// DeleteValue removes value name from h.
	DeleteValue(h Handle, name string) types.ResultCode
}
