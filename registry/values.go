package registry

import (
	"fmt"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry/codec"
)

// valueNameCapacity is the enumeration buffer size, in UTF-16 units, for
// value names: the longest legal name plus its terminator.
const valueNameCapacity = types.WindowsMaxValueNameLen + 1

// maxReadAttempts bounds how often GetValue restarts when the value changes
// between sizing and reading it.
const maxReadAttempts = 8

// ValueOptions adjust how GetValueOptions decodes a value.
type ValueOptions uint8

const (
	// DoNotExpandEnvironmentNames returns REG_EXPAND_SZ text verbatim.
	DoNotExpandEnvironmentNames ValueOptions = 1 << iota
)

// GetValue reads value name, expanding environment references in
// REG_EXPAND_SZ text. A missing value, or a key deleted concurrently, yields
// def.
func (k *Key) GetValue(name string, def codec.Value) (codec.Value, error) {
	return k.GetValueOptions(name, def, 0)
}

// GetValueOptions is GetValue with decoding options.
func (k *Key) GetValueOptions(name string, def codec.Value, opts ValueOptions) (codec.Value, error) {
	if err := k.check(); err != nil {
		return codec.Value{}, err
	}
	expand := opts&DoNotExpandEnvironmentNames == 0

	// The value may be replaced between the size probe and the read; restart
	// from the probe whenever the read disagrees with it.
	for range maxReadAttempts {
		tag, size, code := k.store.QueryValue(k.handle.h, name, nil)
		switch code {
		case types.Success, types.MoreData:
		case types.NotFound, types.MarkedForDeletion:
			return def, nil
		default:
			return codec.Value{}, k.fail("query value", name, code)
		}

		buf := make([]byte, size)
		got, n, code := k.store.QueryValue(k.handle.h, name, buf)
		switch code {
		case types.Success:
		case types.MoreData:
			continue
		case types.NotFound, types.MarkedForDeletion:
			return def, nil
		default:
			return codec.Value{}, k.fail("read value", name, code)
		}
		if got != tag {
			continue
		}

		v, err := codec.Decode(tag, buf[:n], expand)
		if err != nil {
			return codec.Value{}, fmt.Errorf("read value %s: %w", CombineName(k.name, name), err)
		}
		return v, nil
	}

	return codec.Value{}, types.Errorf(types.ErrKindUnidentified,
		"read value %s: value kept changing while it was read", CombineName(k.name, name))
}

// GetValueKind returns the registry type of value name. A missing value
// fails with ErrInvalidArgument.
func (k *Key) GetValueKind(name string) (types.RegType, error) {
	if err := k.check(); err != nil {
		return types.REG_NONE, err
	}
	tag, _, code := k.store.QueryValue(k.handle.h, name, nil)
	switch code {
	case types.Success, types.MoreData:
		return tag, nil
	}
	return types.REG_NONE, k.fail("query value", name, code)
}

// SetValue stores v under name, replacing any existing value.
func (k *Key) SetValue(name string, v codec.Value) error {
	return k.SetValueKind(name, v, types.REG_NONE)
}

// SetValueKind stores v under name with an explicit registry type. REG_NONE
// keeps v's own type; see codec.WithKind for the allowed conversions.
func (k *Key) SetValueKind(name string, v codec.Value, kind types.RegType) error {
	if err := k.check(); err != nil {
		return err
	}
	if v.IsNull() {
		return types.Errorf(types.ErrKindInvalidArgument, "cannot store a null value in %s", CombineName(k.name, name))
	}
	if err := k.checkWritable(); err != nil {
		return err
	}
	v, err := codec.WithKind(v, kind)
	if err != nil {
		return err
	}

	tag, raw, err := codec.Encode(v)
	if err != nil {
		return err
	}
	if code := k.store.SetValue(k.handle.h, name, tag, raw); code != types.Success {
		return k.fail("set value", name, code)
	}
	return nil
}

// DeleteValue removes value name. A missing value fails with
// ErrInvalidArgument if throwIfMissing is set and succeeds otherwise.
func (k *Key) DeleteValue(name string, throwIfMissing bool) error {
	if err := k.check(); err != nil {
		return err
	}
	if err := k.checkWritable(); err != nil {
		return err
	}

	switch code := k.store.DeleteValue(k.handle.h, name); code {
	case types.Success, types.MarkedForDeletion:
		return nil
	case types.NotFound:
		if throwIfMissing {
			return types.Errorf(types.ErrKindInvalidArgument,
				"cannot delete value %q of %s: it does not exist", name, k.name)
		}
		return nil
	default:
		return k.fail("delete value", name, code)
	}
}

// ValueCount returns the number of values stored on the key.
func (k *Key) ValueCount() (int, error) {
	if err := k.check(); err != nil {
		return 0, err
	}
	n := 0
	err := k.eachValue(func(string, types.RegType) { n++ })
	return n, err
}

// ValueNames returns the names of the key's values in store order. The
// default value has the empty name. The result is never nil.
func (k *Key) ValueNames() ([]string, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	names := []string{}
	if err := k.eachValue(func(n string, _ types.RegType) { names = append(names, n) }); err != nil {
		return nil, err
	}
	return names, nil
}

func (k *Key) eachValue(fn func(name string, tag types.RegType)) error {
	for i := 0; ; i++ {
		name, tag, code := k.store.EnumValue(k.handle.h, i, valueNameCapacity)
		switch code {
		case types.Success, types.MoreData:
			fn(name, tag)
		case types.NoMoreEntries:
			return nil
		default:
			return k.fail("enumerate values", "", code)
		}
	}
}
