// Package codec converts between typed registry values and the raw bytes a
// backing store keeps next to a type tag.
//
// # Value
//
// Value is a tagged union over the shapes the registry layer understands:
//
//	codec.Int32(42)                    // REG_DWORD, 4 bytes little-endian
//	codec.String("1.0")                // REG_SZ, UTF-16LE + NUL
//	codec.ExpandString(`%TEMP%\app`)   // REG_EXPAND_SZ
//	codec.Strings("a", "b")            // REG_MULTI_SZ, "a\0b\0\0"
//	codec.Bytes([]byte{1, 2, 3})       // REG_BINARY
//
// The zero Value is null and cannot be encoded.
//
// # Decoding
//
// Decode dispatches on the stored tag:
//
//	v, err := codec.Decode(types.REG_SZ, raw, true)
//
// Strings are truncated at the first NUL. Multi-strings drop the trailing
// terminator, so a single empty element cannot be represented (it encodes to
// the same bytes as an empty list). Tags other than the five above fail with
// types.ErrUnsupportedType; malformed payloads fail with types.ErrFormat.
//
// # Untyped input
//
// FromAny accepts plain Go values for callers that do not build a Value
// themselves (for example a CLI). Slices other than []byte and []string are
// rejected; scalars fall back to their fmt.Sprint rendering as REG_SZ.
package codec
