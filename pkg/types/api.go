package types

import (
	"fmt"
)

// -----------------------------------------------------------------------------
// Value types
// -----------------------------------------------------------------------------

// RegType enumerates Windows registry value types. It is the tag stored next
// to every raw value payload. (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_LE                   RegType = 4 // alias for clarity
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

// String implements the Stringer interface for RegType
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_RESOURCE_LIST:
		return "REG_RESOURCE_LIST"
	case REG_FULL_RESOURCE_DESCRIPTOR:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case REG_RESOURCE_REQUIREMENTS_LIST:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
	}
}

// ParseRegType maps a short CLI-style type name ("sz", "dword", ...) or a full
// REG_* name to its RegType.
func ParseRegType(s string) (RegType, error) {
	switch s {
	case "sz", "string", "REG_SZ":
		return REG_SZ, nil
	case "expand_sz", "expand", "REG_EXPAND_SZ":
		return REG_EXPAND_SZ, nil
	case "binary", "REG_BINARY":
		return REG_BINARY, nil
	case "dword", "REG_DWORD":
		return REG_DWORD, nil
	case "multi_sz", "multi", "REG_MULTI_SZ":
		return REG_MULTI_SZ, nil
	}
	return REG_NONE, Errorf(ErrKindInvalidArgument, "unknown value type %q", s)
}

// -----------------------------------------------------------------------------
// Store result codes
// -----------------------------------------------------------------------------

// ResultCode is the status a backing store reports for every raw operation.
// Values match the Win32 error codes the registry API returns.
type ResultCode uint32

const (
	Success           ResultCode = 0    // ERROR_SUCCESS
	NotFound          ResultCode = 2    // ERROR_FILE_NOT_FOUND
	AccessDenied      ResultCode = 5    // ERROR_ACCESS_DENIED
	InvalidHandle     ResultCode = 6    // ERROR_INVALID_HANDLE
	InvalidParameter  ResultCode = 87   // ERROR_INVALID_PARAMETER
	MoreData          ResultCode = 234  // ERROR_MORE_DATA
	NoMoreEntries     ResultCode = 259  // ERROR_NO_MORE_ITEMS
	RegistryIOFailed  ResultCode = 1016 // ERROR_REGISTRY_IO_FAILED
	MarkedForDeletion ResultCode = 1018 // ERROR_KEY_DELETED
)

// String implements the Stringer interface for ResultCode.
func (c ResultCode) String() string {
	switch c {
	case Success:
		return "success"
	case NotFound:
		return "not found"
	case AccessDenied:
		return "access denied"
	case InvalidHandle:
		return "invalid handle"
	case InvalidParameter:
		return "invalid parameter"
	case MoreData:
		return "more data"
	case NoMoreEntries:
		return "no more entries"
	case RegistryIOFailed:
		return "registry i/o failed"
	case MarkedForDeletion:
		return "marked for deletion"
	default:
		return fmt.Sprintf("result code %d", uint32(c))
	}
}
