package format

const (
	// DWORDSize is the size of REG_DWORD values in bytes (uint32).
	DWORDSize = 4

	// UTF16UnitSize is the width of one UTF-16 code unit in bytes.
	UTF16UnitSize = 2

	// UTF16ASCIIThreshold is the threshold for ASCII characters in UTF-16LE.
	UTF16ASCIIThreshold = 0x80
)
