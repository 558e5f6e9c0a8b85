package codec

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/joshuapare/regkey/pkg/types"
)

// Kind is the semantic shape of a Value.
type Kind uint8

const (
	KindNull         Kind = iota // zero Value; never stored
	KindInt32                    // REG_DWORD
	KindString                   // REG_SZ
	KindExpandString             // REG_EXPAND_SZ
	KindMultiString              // REG_MULTI_SZ
	KindBinary                   // REG_BINARY
)

// String implements the Stringer interface for Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt32:
		return "int32"
	case KindString:
		return "string"
	case KindExpandString:
		return "expand-string"
	case KindMultiString:
		return "multi-string"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Tag returns the registry type a value of this kind is stored with.
func (k Kind) Tag() types.RegType {
	switch k {
	case KindInt32:
		return types.REG_DWORD
	case KindString:
		return types.REG_SZ
	case KindExpandString:
		return types.REG_EXPAND_SZ
	case KindMultiString:
		return types.REG_MULTI_SZ
	case KindBinary:
		return types.REG_BINARY
	default:
		return types.REG_NONE
	}
}

// Value is a typed registry value. Exactly one payload field is meaningful,
// selected by kind. The zero Value is null.
type Value struct {
	kind Kind
	i    int32
	s    string
	ss   []string
	b    []byte
}

// Int32 returns a REG_DWORD value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: v} }

// String returns a REG_SZ value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ExpandString returns a REG_EXPAND_SZ value.
func ExpandString(s string) Value { return Value{kind: KindExpandString, s: s} }

// Strings returns a REG_MULTI_SZ value. The slice is copied.
func Strings(ss ...string) Value {
	return Value{kind: KindMultiString, ss: slices.Clone(nonNil(ss))}
}

// Bytes returns a REG_BINARY value. The slice is copied.
func Bytes(b []byte) Value {
	return Value{kind: KindBinary, b: bytes.Clone(nonNilBytes(b))}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the zero Value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Tag returns the registry type v encodes to.
func (v Value) Tag() types.RegType { return v.kind.Tag() }

// Int32Value returns the integer payload and whether v is KindInt32.
func (v Value) Int32Value() (int32, bool) { return v.i, v.kind == KindInt32 }

// Str returns the text payload and whether v is a string kind.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString || v.kind == KindExpandString
}

// StringsValue returns the multi-string payload and whether v is KindMultiString.
func (v Value) StringsValue() ([]string, bool) { return v.ss, v.kind == KindMultiString }

// BytesValue returns the binary payload and whether v is KindBinary.
func (v Value) BytesValue() ([]byte, bool) { return v.b, v.kind == KindBinary }

// Interface returns the payload as a plain Go value (int32, string, []string,
// []byte) or nil for a null value.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt32:
		return v.i
	case KindString, KindExpandString:
		return v.s
	case KindMultiString:
		return v.ss
	case KindBinary:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt32:
		return v.i == o.i
	case KindString, KindExpandString:
		return v.s == o.s
	case KindMultiString:
		return slices.Equal(v.ss, o.ss)
	case KindBinary:
		return bytes.Equal(v.b, o.b)
	default:
		return true
	}
}

// String renders the payload for display. Binary is rendered as hex.
func (v Value) String() string {
	switch v.kind {
	case KindInt32:
		return strconv.FormatInt(int64(v.i), 10)
	case KindString, KindExpandString:
		return v.s
	case KindMultiString:
		return strings.Join(v.ss, ", ")
	case KindBinary:
		return fmt.Sprintf("% x", v.b)
	default:
		return "<null>"
	}
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
