package codec

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/joshuapare/regkey/internal/format"
	"github.com/joshuapare/regkey/pkg/types"
)

const nul = "\x00"

// Decode converts a raw payload stored under tag into a typed Value. When
// expand is true, REG_EXPAND_SZ payloads have %VAR% references replaced from
// the environment.
func Decode(tag types.RegType, raw []byte, expand bool) (Value, error) {
	switch tag {
	case types.REG_SZ:
		s, err := decodeString(raw)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil

	case types.REG_EXPAND_SZ:
		s, err := decodeString(raw)
		if err != nil {
			return Value{}, err
		}
		if expand {
			s, err = ExpandEnvironment(s)
			if err != nil {
				return Value{}, types.Wrap(types.ErrKindFormat, "expand environment", err)
			}
		}
		return ExpandString(s), nil

	case types.REG_DWORD:
		if len(raw) != format.DWORDSize {
			return Value{}, types.Errorf(types.ErrKindFormat,
				"REG_DWORD payload is %d bytes, want %d", len(raw), format.DWORDSize)
		}
		return Int32(format.ReadI32(raw, 0)), nil

	case types.REG_BINARY:
		return Bytes(raw), nil

	case types.REG_MULTI_SZ:
		ss, err := decodeMultiString(raw)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindMultiString, ss: ss}, nil
	}

	return Value{}, types.Errorf(types.ErrKindUnsupported, "unsupported registry value type %s", tag)
}

// Encode converts v into the tag and raw payload a store persists.
func Encode(v Value) (types.RegType, []byte, error) {
	switch v.kind {
	case KindInt32:
		raw := make([]byte, format.DWORDSize)
		format.PutI32(raw, 0, v.i)
		return types.REG_DWORD, raw, nil

	case KindBinary:
		return types.REG_BINARY, bytes.Clone(nonNilBytes(v.b)), nil

	case KindMultiString:
		var b strings.Builder
		for _, s := range v.ss {
			b.WriteString(s)
			b.WriteString(nul)
		}
		b.WriteString(nul)
		raw, err := format.EncodeUTF16(b.String())
		if err != nil {
			return types.REG_NONE, nil, types.Wrap(types.ErrKindInvalidArgument, "encode REG_MULTI_SZ", err)
		}
		return types.REG_MULTI_SZ, raw, nil

	case KindString, KindExpandString:
		raw, err := format.EncodeUTF16(v.s + nul)
		if err != nil {
			return types.REG_NONE, nil, types.Wrap(types.ErrKindInvalidArgument, "encode string", err)
		}
		return v.kind.Tag(), raw, nil
	}

	return types.REG_NONE, nil, types.Errorf(types.ErrKindInvalidArgument, "value is null")
}

// FromAny adapts an untyped Go value: int32 and in-range int become
// REG_DWORD, []byte becomes REG_BINARY, []string becomes REG_MULTI_SZ, a
// Value passes through, and anything else that is not a slice or array is
// rendered with fmt.Sprint as REG_SZ.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, types.Errorf(types.ErrKindInvalidArgument, "value is null")
	case Value:
		if x.IsNull() {
			return Value{}, types.Errorf(types.ErrKindInvalidArgument, "value is null")
		}
		return x, nil
	case int32:
		return Int32(x), nil
	case int:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return String(fmt.Sprint(x)), nil
		}
		return Int32(int32(x)), nil
	case []byte:
		return Bytes(x), nil
	case []string:
		return Strings(x...), nil
	case string:
		return String(x), nil
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return Value{}, types.Errorf(types.ErrKindInvalidArgument,
			"only string sequences and byte sequences are supported, got %T", v)
	}
	return String(fmt.Sprint(v)), nil
}

// WithKind re-tags v as kind. The payload encoding never changes, so only
// String and ExpandString may be swapped; any other mismatch is rejected.
// REG_NONE keeps v's own kind.
func WithKind(v Value, kind types.RegType) (Value, error) {
	if v.IsNull() {
		return Value{}, types.Errorf(types.ErrKindInvalidArgument, "value is null")
	}
	if kind == types.REG_NONE || kind == v.Tag() {
		return v, nil
	}
	switch {
	case v.kind == KindString && kind == types.REG_EXPAND_SZ:
		return ExpandString(v.s), nil
	case v.kind == KindExpandString && kind == types.REG_SZ:
		return String(v.s), nil
	}
	return Value{}, types.Errorf(types.ErrKindInvalidArgument,
		"a %s value cannot be stored as %s", v.kind, kind)
}

// decodeString decodes UTF-16LE text and truncates at the first NUL.
func decodeString(raw []byte) (string, error) {
	s, err := format.DecodeUTF16(raw)
	if err != nil {
		return "", types.Wrap(types.ErrKindFormat, "decode string", err)
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s, nil
}

// decodeMultiString decodes a NUL-delimited, double-NUL terminated list. A
// missing or single terminator is tolerated.
func decodeMultiString(raw []byte) ([]string, error) {
	s, err := format.DecodeUTF16(raw)
	if err != nil {
		return nil, types.Wrap(types.ErrKindFormat, "decode multi-string", err)
	}
	switch {
	case strings.HasSuffix(s, nul+nul):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, nul):
		s = s[:len(s)-1]
	}
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, nul), nil
}
