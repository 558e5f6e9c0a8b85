package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestRegType_String(t *testing.T) {
	tests := []struct {
		name     string
		regType  RegType
		expected string
	}{
		{name: "REG_NONE", regType: REG_NONE, expected: "REG_NONE"},
		{name: "REG_SZ", regType: REG_SZ, expected: "REG_SZ"},
		{name: "REG_EXPAND_SZ", regType: REG_EXPAND_SZ, expected: "REG_EXPAND_SZ"},
		{name: "REG_BINARY", regType: REG_BINARY, expected: "REG_BINARY"},
		{name: "REG_DWORD", regType: REG_DWORD, expected: "REG_DWORD"},
		{name: "REG_MULTI_SZ", regType: REG_MULTI_SZ, expected: "REG_MULTI_SZ"},
		{name: "REG_QWORD", regType: REG_QWORD, expected: "REG_QWORD"},
		// Unknown types render as signed int32
		{name: "Unknown type 100", regType: RegType(100), expected: "UNKNOWN_TYPE_100"},
		{name: "Invalid type -1 (0xFFFFFFFF)", regType: RegType(0xFFFFFFFF), expected: "UNKNOWN_TYPE_-1"},
		{name: "Very large unknown type", regType: RegType(2147483648), expected: "UNKNOWN_TYPE_-2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.regType.String()
			if result != tt.expected {
				t.Errorf("RegType(%d).String() = %q, expected %q", uint32(tt.regType), result, tt.expected)
			}
		})
	}
}

func TestParseRegType(t *testing.T) {
	tests := []struct {
		in      string
		want    RegType
		wantErr bool
	}{
		{"sz", REG_SZ, false},
		{"REG_SZ", REG_SZ, false},
		{"expand_sz", REG_EXPAND_SZ, false},
		{"dword", REG_DWORD, false},
		{"binary", REG_BINARY, false},
		{"multi_sz", REG_MULTI_SZ, false},
		{"qword", REG_NONE, true},
		{"", REG_NONE, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRegType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("ParseRegType(%q) err = %v, want ErrInvalidArgument", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRegType(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRegType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResultCode_String(t *testing.T) {
	if got := MarkedForDeletion.String(); got != "marked for deletion" {
		t.Errorf("MarkedForDeletion.String() = %q", got)
	}
	if got := ResultCode(31).String(); got != "result code 31" {
		t.Errorf("ResultCode(31).String() = %q", got)
	}
	if uint32(NoMoreEntries) != 259 || uint32(MoreData) != 234 {
		t.Error("result codes must keep their Win32 numbering")
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	detailed := Errorf(ErrKindDisposed, "key %q is closed", `HKCU\Software`)
	wrapped := fmt.Errorf("get value: %w", detailed)

	if !errors.Is(wrapped, ErrDisposed) {
		t.Error("wrapped detailed error should match ErrDisposed")
	}
	if errors.Is(wrapped, ErrAccessDenied) {
		t.Error("disposed error must not match ErrAccessDenied")
	}

	kind, ok := KindOf(wrapped)
	if !ok || kind != ErrKindDisposed {
		t.Errorf("KindOf = %v, %v; want %v, true", kind, ok, ErrKindDisposed)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report false")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(ErrKindUnidentified, "flush failed", cause)
	if !errors.Is(err, cause) {
		t.Error("Wrap should keep the cause in the chain")
	}
	if err.Error() != "flush failed: disk gone" {
		t.Errorf("Error() = %q", err.Error())
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Errorf("nil Error() = %q", nilErr.Error())
	}
}

func TestLimits_Normalize(t *testing.T) {
	l := Limits{MaxValueSize: 10}.Normalize()
	if l.MaxValueSize != 10 {
		t.Errorf("MaxValueSize = %d, want 10", l.MaxValueSize)
	}
	if l.MaxKeyNameLen != WindowsMaxKeyNameLen {
		t.Errorf("MaxKeyNameLen = %d, want %d", l.MaxKeyNameLen, WindowsMaxKeyNameLen)
	}
	if s := StrictLimits(); s.MaxKeyNameLen >= DefaultLimits().MaxKeyNameLen {
		t.Error("strict limits should be tighter than defaults")
	}
}
