package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkey/pkg/types"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		wantTag types.RegType
		wantRaw []byte
	}{
		{"int32", Int32(42), types.REG_DWORD, []byte{42, 0, 0, 0}},
		{"negative int32", Int32(-1), types.REG_DWORD, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"binary", Bytes([]byte{1, 2, 3}), types.REG_BINARY, []byte{1, 2, 3}},
		{"empty binary", Bytes(nil), types.REG_BINARY, []byte{}},
		{"string", String("ab"), types.REG_SZ, []byte{'a', 0, 'b', 0, 0, 0}},
		{"expand string", ExpandString("%X%"), types.REG_EXPAND_SZ,
			[]byte{'%', 0, 'X', 0, '%', 0, 0, 0}},
		{"multi string", Strings("a", "b"), types.REG_MULTI_SZ,
			[]byte{'a', 0, 0, 0, 'b', 0, 0, 0, 0, 0}},
		{"empty multi string", Strings(), types.REG_MULTI_SZ, []byte{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, raw, err := Encode(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.wantTag, tag)
			require.Equal(t, tt.wantRaw, raw)
		})
	}
}

func TestEncode_StringByteLengthCountsCodeUnits(t *testing.T) {
	// "😀" is one rune but two UTF-16 code units; plus the NUL.
	_, raw, err := Encode(String("😀"))
	require.NoError(t, err)
	require.Len(t, raw, 3*2)
}

func TestEncode_Null(t *testing.T) {
	_, _, err := Encode(Value{})
	require.True(t, errors.Is(err, types.ErrInvalidArgument), "got %v", err)
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Int32(0),
		Int32(42),
		Int32(math.MinInt32),
		Int32(math.MaxInt32),
		Bytes([]byte{}),
		Bytes([]byte{0, 0xFF, 0x10}),
		String(""),
		String("hello"),
		String("äöüß weird™ 😀"),
		ExpandString(`C:\no\vars`),
		Strings(),
		Strings("a", "b"),
		Strings("", "a"),
		Strings("a", ""),
		Strings("one", "two", "three"),
	}

	for _, v := range values {
		t.Run(v.Kind().String()+"/"+v.String(), func(t *testing.T) {
			tag, raw, err := Encode(v)
			require.NoError(t, err)

			got, err := Decode(tag, raw, false)
			require.NoError(t, err)
			if !got.Equal(v) {
				t.Errorf("round trip mismatch (-want +got):\n%s",
					cmp.Diff(v.Interface(), got.Interface()))
			}
		})
	}
}

func TestDecode_String(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"terminated", []byte{'h', 0, 'i', 0, 0, 0}, "hi"},
		{"unterminated", []byte{'h', 0, 'i', 0}, "hi"},
		{"double terminated", []byte{'h', 0, 0, 0, 0, 0}, "h"},
		{"truncate at first nul", []byte{'a', 0, 0, 0, 'b', 0, 0, 0}, "a"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(types.REG_SZ, tt.raw, false)
			require.NoError(t, err)
			s, ok := v.Str()
			require.True(t, ok)
			require.Equal(t, tt.want, s)
			require.Equal(t, KindString, v.Kind())
		})
	}
}

func TestDecode_MalformedString(t *testing.T) {
	for _, tag := range []types.RegType{types.REG_SZ, types.REG_EXPAND_SZ, types.REG_MULTI_SZ} {
		_, err := Decode(tag, []byte{'a', 0, 'b'}, false)
		require.True(t, errors.Is(err, types.ErrFormat), "%s: got %v", tag, err)
	}
}

func TestDecode_Int32(t *testing.T) {
	v, err := Decode(types.REG_DWORD, []byte{0xFE, 0xFF, 0xFF, 0xFF}, false)
	require.NoError(t, err)
	i, ok := v.Int32Value()
	require.True(t, ok)
	require.Equal(t, int32(-2), i)

	for _, raw := range [][]byte{nil, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		_, err := Decode(types.REG_DWORD, raw, false)
		require.True(t, errors.Is(err, types.ErrFormat), "len %d: got %v", len(raw), err)
	}
}

func TestDecode_BinaryIsCopied(t *testing.T) {
	raw := []byte{1, 2, 3}
	v, err := Decode(types.REG_BINARY, raw, false)
	require.NoError(t, err)
	raw[0] = 9
	b, _ := v.BytesValue()
	require.Equal(t, []byte{1, 2, 3}, b)
}

func TestDecode_MultiString(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []string
	}{
		{"double terminated", []byte{'a', 0, 0, 0, 'b', 0, 0, 0, 0, 0}, []string{"a", "b"}},
		{"single terminated", []byte{'a', 0, 0, 0, 'b', 0, 0, 0}, []string{"a", "b"}},
		{"no terminator", []byte{'a', 0, 0, 0, 'b', 0}, []string{"a", "b"}},
		{"only terminator", []byte{0, 0}, []string{}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(types.REG_MULTI_SZ, tt.raw, false)
			require.NoError(t, err)
			ss, ok := v.StringsValue()
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, ss); diff != "" {
				t.Errorf("multi-string mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	for _, tag := range []types.RegType{types.REG_NONE, types.REG_QWORD, types.REG_LINK, types.RegType(99)} {
		_, err := Decode(tag, []byte{1, 2, 3, 4}, false)
		require.True(t, errors.Is(err, types.ErrUnsupportedType), "%s: got %v", tag, err)
	}
}

func TestDecode_ExpandString(t *testing.T) {
	t.Setenv("REGKEY_CODEC_TEST", "expanded")
	_, raw, err := Encode(ExpandString(`%REGKEY_CODEC_TEST%\sub`))
	require.NoError(t, err)

	v, err := Decode(types.REG_EXPAND_SZ, raw, true)
	require.NoError(t, err)
	s, _ := v.Str()
	require.Equal(t, `expanded\sub`, s)
	require.Equal(t, KindExpandString, v.Kind())

	v, err = Decode(types.REG_EXPAND_SZ, raw, false)
	require.NoError(t, err)
	s, _ = v.Str()
	require.Equal(t, `%REGKEY_CODEC_TEST%\sub`, s)
}

func TestFromAny(t *testing.T) {
	type point struct{ X, Y int }

	tests := []struct {
		name    string
		in      any
		want    Value
		wantErr error
	}{
		{"int32", int32(7), Int32(7), nil},
		{"int in range", 7, Int32(7), nil},
		{"int out of range", math.MaxInt64, String("9223372036854775807"), nil},
		{"bytes", []byte{1}, Bytes([]byte{1}), nil},
		{"strings", []string{"a"}, Strings("a"), nil},
		{"string", "s", String("s"), nil},
		{"bool falls back to string", true, String("true"), nil},
		{"float falls back to string", 1.5, String("1.5"), nil},
		{"struct falls back to string", point{1, 2}, String("{1 2}"), nil},
		{"value passes through", ExpandString("x"), ExpandString("x"), nil},
		{"int slice rejected", []int{1}, Value{}, types.ErrInvalidArgument},
		{"array rejected", [2]string{"a", "b"}, Value{}, types.ErrInvalidArgument},
		{"nil rejected", nil, Value{}, types.ErrInvalidArgument},
		{"null value rejected", Value{}, Value{}, types.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.True(t, got.Equal(tt.want), "got %v (%s), want %v (%s)",
				got, got.Kind(), tt.want, tt.want.Kind())
		})
	}
}

func TestWithKind(t *testing.T) {
	v, err := WithKind(String("x"), types.REG_EXPAND_SZ)
	require.NoError(t, err)
	require.Equal(t, KindExpandString, v.Kind())

	v, err = WithKind(ExpandString("x"), types.REG_SZ)
	require.NoError(t, err)
	require.Equal(t, KindString, v.Kind())

	v, err = WithKind(Int32(1), types.REG_NONE)
	require.NoError(t, err)
	require.Equal(t, KindInt32, v.Kind())

	_, err = WithKind(String("1"), types.REG_DWORD)
	require.True(t, errors.Is(err, types.ErrInvalidArgument), "got %v", err)

	_, err = WithKind(Value{}, types.REG_SZ)
	require.True(t, errors.Is(err, types.ErrInvalidArgument), "got %v", err)
}
