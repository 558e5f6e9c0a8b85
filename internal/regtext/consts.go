package regtext

const (
	// RegFileHeader is the required first line of a version 5 .reg file.
	RegFileHeader = "Windows Registry Editor Version 5.00"

	// RegFileHeaderV4 is the header of the older ANSI format, also accepted.
	RegFileHeaderV4 = "REGEDIT4"

	KeyOpenBracket     = "["
	KeyCloseBracket    = "]"
	DeleteKeyPrefix    = "-"
	ValueAssignment    = "="
	DefaultValuePrefix = "@="
	CommentPrefix      = ";"
	DeleteValueToken   = "-"

	Quote            = "\""
	Backslash        = "\\"
	EscapedQuote     = "\\\""
	EscapedBackslash = "\\\\"

	CRLF = "\r\n"
	CR   = "\r"

	DWORDPrefix       = "dword:"
	HexPrefix         = "hex:"
	HexExpandSZPrefix = "hex(2):"
	HexMultiSZPrefix  = "hex(7):"
	HexTypeOpen       = "hex("

	HexByteSeparator = ","
	HexByteFormat    = "%02x"
	DWORDHexFormat   = "%08x"
	DWORDHexLength   = 8

	// HexBytesPerLine is how many bytes an exported hex line holds before it
	// is continued with a trailing backslash.
	HexBytesPerLine = 25

	// ScannerMaxLineSize bounds one logical line, continuations included.
	ScannerMaxLineSize = 1024 * 1024
)
