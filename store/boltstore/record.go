package boltstore

import (
	"errors"
	"strings"

	"github.com/joshuapare/regkey/internal/format"
	"github.com/joshuapare/regkey/pkg/types"
)

// Layout of a key bucket:
//
//	'@'         display name of the key
//	'k' + fold  nested bucket of a sub-key
//	'v' + fold  value record
//
// fold is the lower-cased name, which makes lookups case-insensitive and
// orders enumeration the same way memstore does.
const (
	prefixName  = '@'
	prefixKey   = 'k'
	prefixValue = 'v'

	// [4-byte tag][2-byte name length][name][data]
	recordHeader = format.DWORDSize + 2
)

var errCorruptRecord = errors.New("boltstore: corrupt value record")

func fold(name string) string { return strings.ToLower(name) }

func nameKey() []byte { return []byte{prefixName} }

func subKey(name string) []byte { return append([]byte{prefixKey}, fold(name)...) }

func valueKey(name string) []byte { return append([]byte{prefixValue}, fold(name)...) }

func encodeRecord(name string, tag types.RegType, data []byte) []byte {
	b := make([]byte, recordHeader+len(name)+len(data))
	format.PutU32(b, 0, uint32(tag))
	format.PutU16(b, format.DWORDSize, uint16(len(name)))
	copy(b[recordHeader:], name)
	copy(b[recordHeader+len(name):], data)
	return b
}

// decodeRecord splits a value record. data aliases raw.
func decodeRecord(raw []byte) (name string, tag types.RegType, data []byte, err error) {
	if len(raw) < recordHeader {
		return "", types.REG_NONE, nil, errCorruptRecord
	}
	n := int(format.ReadU16(raw, format.DWORDSize))
	if len(raw) < recordHeader+n {
		return "", types.REG_NONE, nil, errCorruptRecord
	}
	tag = types.RegType(format.ReadU32(raw, 0))
	name = string(raw[recordHeader : recordHeader+n])
	return name, tag, raw[recordHeader+n:], nil
}
