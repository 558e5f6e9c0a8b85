package registry

import (
	"go.uber.org/multierr"

	"github.com/joshuapare/regkey/internal/format"
	"github.com/joshuapare/regkey/pkg/types"
)

// keyNameCapacity is the enumeration buffer size, in UTF-16 units, for
// sub-key names.
const keyNameCapacity = 1024

// OpenSubKey opens the existing sub-key name, which may be a nested path. A
// missing sub-key, or one deleted concurrently, yields (nil, nil).
func (k *Key) OpenSubKey(name string, writable bool) (*Key, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	access := AccessRead
	if writable {
		access |= AccessWrite
	}

	h, code := k.store.Open(k.handle.h, name, access)
	switch code {
	case types.Success:
		return k.child(h, name, writable), nil
	case types.NotFound, types.MarkedForDeletion:
		return nil, nil
	}
	return nil, k.fail("open sub-key", name, code)
}

// OpenSubKeyReadOnly is OpenSubKey(name, false).
func (k *Key) OpenSubKeyReadOnly(name string) (*Key, error) {
	return k.OpenSubKey(name, false)
}

// CreateSubKey opens name for writing, creating it and any missing
// intermediate keys first.
func (k *Key) CreateSubKey(name string) (*Key, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	if n := format.UnitLen(name); n > types.WindowsMaxKeyNameLen {
		return nil, types.Errorf(types.ErrKindInvalidArgument,
			"sub-key name is %d characters, longer than %d", n, types.WindowsMaxKeyNameLen)
	}
	if err := k.checkWritable(); err != nil {
		return nil, err
	}

	h, code := k.store.Create(k.handle.h, name)
	if code != types.Success {
		return nil, k.fail("create sub-key", name, code)
	}
	return k.child(h, name, true), nil
}

// DeleteSubKey removes the sub-key name. A sub-key that has sub-keys of its
// own is refused with ErrInvalidOperation and nothing is removed; use
// DeleteSubKeyTree instead. When the sub-key does not exist, the call fails
// with ErrInvalidArgument if throwIfMissing is set and succeeds otherwise.
func (k *Key) DeleteSubKey(name string, throwIfMissing bool) error {
	if err := k.check(); err != nil {
		return err
	}
	if err := k.checkWritable(); err != nil {
		return err
	}
	if err := k.checkSubKeyName("delete sub-key", name); err != nil {
		return err
	}

	sub, err := k.OpenSubKey(name, false)
	if err != nil {
		return err
	}
	if sub == nil {
		return k.missingSubKey(name, throwIfMissing)
	}
	n, err := sub.SubKeyCount()
	if err == nil && n > 0 {
		err = types.Errorf(types.ErrKindInvalidOperation,
			"registry key %q has sub-keys and DeleteSubKey does not remove them recursively", sub.Name())
	}
	if err = multierr.Append(err, sub.Close()); err != nil {
		return err
	}

	switch code := k.store.DeleteKey(k.handle.h, name); code {
	case types.Success:
		return nil
	case types.NotFound:
		return k.missingSubKey(name, throwIfMissing)
	default:
		return k.fail("delete sub-key", name, code)
	}
}

// checkSubKeyName rejects names with no path segments. Such names address k
// itself, which delete operations must never touch.
func (k *Key) checkSubKeyName(op, name string) error {
	if len(SplitName(name)) == 0 {
		return types.Errorf(types.ErrKindInvalidArgument, "%s: %q does not name a sub-key of %s", op, name, k.name)
	}
	return nil
}

func (k *Key) missingSubKey(name string, throwIfMissing bool) error {
	if !throwIfMissing {
		return nil
	}
	return types.Errorf(types.ErrKindInvalidArgument,
		"cannot delete sub-key %q: it does not exist", CombineName(k.name, name))
}

// SubKeyCount returns the number of direct sub-keys.
func (k *Key) SubKeyCount() (int, error) {
	if err := k.check(); err != nil {
		return 0, err
	}
	n := 0
	err := k.eachSubKey(func(string) { n++ })
	return n, err
}

// SubKeyNames returns the names of the direct sub-keys in store order. The
// result is never nil.
func (k *Key) SubKeyNames() ([]string, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	names := []string{}
	if err := k.eachSubKey(func(n string) { names = append(names, n) }); err != nil {
		return nil, err
	}
	return names, nil
}

func (k *Key) eachSubKey(fn func(name string)) error {
	for i := 0; ; i++ {
		name, code := k.store.EnumKey(k.handle.h, i, keyNameCapacity)
		switch code {
		case types.Success:
			fn(name)
		case types.NoMoreEntries:
			return nil
		default:
			return k.fail("enumerate sub-keys", "", code)
		}
	}
}
