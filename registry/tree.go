package registry

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/joshuapare/regkey/pkg/types"
)

// Separator joins key names into paths.
const Separator = `\`

// CombineName joins a parent path and a local name.
func CombineName(parent, local string) string {
	return parent + Separator + local
}

// SkipKey is returned by a WalkFunc to skip the sub-keys of the key it was
// called with.
var SkipKey = errors.New("skip this key")

// WalkFunc is called for every key visited by Walk. depth is 0 for the key
// Walk was called on. The key is closed once the walk leaves it and must not
// be retained.
type WalkFunc func(k *Key, depth int) error

// Walk visits k and its sub-keys depth-first, in store order. Sub-keys that
// disappear during the walk are skipped.
func (k *Key) Walk(fn WalkFunc) error {
	if err := k.check(); err != nil {
		return err
	}
	return k.walk(fn, 0)
}

func (k *Key) walk(fn WalkFunc, depth int) error {
	if err := fn(k, depth); err != nil {
		if errors.Is(err, SkipKey) {
			return nil
		}
		return err
	}

	names, err := k.SubKeyNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		sub, err := k.OpenSubKey(name, false)
		if err != nil {
			return err
		}
		if sub == nil {
			continue
		}
		err = sub.walk(fn, depth+1)
		if err = multierr.Append(err, sub.Close()); err != nil {
			return err
		}
	}
	return nil
}

// SubKeyExists reports whether the sub-key name exists.
func (k *Key) SubKeyExists(name string) (bool, error) {
	sub, err := k.OpenSubKey(name, false)
	if err != nil || sub == nil {
		return false, err
	}
	return true, sub.Close()
}

// OpenOrCreateSubKey opens name, creating it when absent. Creating requires
// k to be writable; the created key is handed back with the requested access.
func (k *Key) OpenOrCreateSubKey(name string, writable bool) (*Key, error) {
	sub, err := k.OpenSubKey(name, writable)
	if err != nil || sub != nil {
		return sub, err
	}
	sub, err = k.CreateSubKey(name)
	if err != nil || writable {
		return sub, err
	}
	if err := sub.Close(); err != nil {
		return nil, err
	}
	return k.OpenSubKey(name, false)
}

// DeleteSubKeyTree removes the sub-key name with all of its sub-keys and
// values. A missing sub-key fails with ErrInvalidArgument, as does a name
// that resolves to k itself.
func (k *Key) DeleteSubKeyTree(name string) error {
	if err := k.check(); err != nil {
		return err
	}
	if err := k.checkWritable(); err != nil {
		return err
	}
	if err := k.checkSubKeyName("delete sub-key tree", name); err != nil {
		return err
	}

	sub, err := k.OpenSubKey(name, true)
	if err != nil {
		return err
	}
	if sub == nil {
		return types.Errorf(types.ErrKindInvalidArgument,
			"cannot delete sub-key tree %q: it does not exist", CombineName(k.name, name))
	}
	err = sub.deleteContents()
	if err = multierr.Append(err, sub.Close()); err != nil {
		return err
	}
	return k.DeleteSubKey(name, false)
}

// deleteContents empties k bottom-up. Roots are never emptied.
func (k *Key) deleteContents() error {
	if k.IsRoot() {
		return nil
	}

	names, err := k.SubKeyNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		sub, err := k.OpenSubKey(name, true)
		if err != nil {
			return err
		}
		if sub == nil {
			continue
		}
		err = sub.deleteContents()
		if err = multierr.Append(err, sub.Close()); err != nil {
			return err
		}
		if err := k.DeleteSubKey(name, false); err != nil {
			return err
		}
	}

	values, err := k.ValueNames()
	if err != nil {
		return err
	}
	for _, name := range values {
		if err := k.DeleteValue(name, false); err != nil {
			return err
		}
	}
	return nil
}
