//go:build windows

package winstore

import (
	"errors"
	"io"
	"log/slog"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	winreg "golang.org/x/sys/windows/registry"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
)

var (
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procRegSetValueExW = modadvapi32.NewProc("RegSetValueExW")
	procRegEnumValueW  = modadvapi32.NewProc("RegEnumValueW")
	procRegFlushKey    = modadvapi32.NewProc("RegFlushKey")
)

// Store is a registry.Store over the Windows registry.
type Store struct {
	log *slog.Logger
}

var _ registry.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger routes unexpected system errors to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store over the registry of the current machine.
func New(opts ...Option) *Store {
	s := &Store{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Open(parent registry.Handle, name string, access registry.Access) (registry.Handle, types.ResultCode) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, types.InvalidParameter
	}
	var h windows.Handle
	err = windows.RegOpenKeyEx(windows.Handle(parent), namep, 0, uint32(access), &h)
	return registry.Handle(h), s.code("RegOpenKeyEx", err)
}

func (s *Store) Create(parent registry.Handle, name string) (registry.Handle, types.ResultCode) {
	k, _, err := winreg.CreateKey(winreg.Key(parent), name, winreg.ALL_ACCESS)
	return registry.Handle(k), s.code("RegCreateKeyEx", err)
}

func (s *Store) Close(h registry.Handle) types.ResultCode {
	if _, ok := registry.HiveOf(h); ok {
		return types.Success
	}
	return s.code("RegCloseKey", windows.RegCloseKey(windows.Handle(h)))
}

func (s *Store) Flush(h registry.Handle) types.ResultCode {
	r, _, _ := procRegFlushKey.Call(uintptr(h))
	return s.code("RegFlushKey", errnoOf(r))
}

func (s *Store) EnumKey(h registry.Handle, index, capacity int) (string, types.ResultCode) {
	if capacity <= 0 {
		return "", types.InvalidParameter
	}
	buf := make([]uint16, capacity)
	n := uint32(capacity)
	err := windows.RegEnumKeyEx(windows.Handle(h), uint32(index), &buf[0], &n, nil, nil, nil, nil)
	code := s.code("RegEnumKeyEx", err)
	if code != types.Success && code != types.MoreData {
		return "", code
	}
	return windows.UTF16ToString(buf[:min(int(n), capacity)]), code
}

func (s *Store) EnumValue(h registry.Handle, index, capacity int) (string, types.RegType, types.ResultCode) {
	if capacity <= 0 {
		return "", types.REG_NONE, types.InvalidParameter
	}
	buf := make([]uint16, capacity)
	n := uint32(capacity)
	var tag uint32
	r, _, _ := procRegEnumValueW.Call(
		uintptr(h),
		uintptr(index),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&n)),
		0,
		uintptr(unsafe.Pointer(&tag)),
		0,
		0,
	)
	code := s.code("RegEnumValue", errnoOf(r))
	if code != types.Success && code != types.MoreData {
		return "", types.REG_NONE, code
	}
	return windows.UTF16ToString(buf[:min(int(n), capacity)]), types.RegType(tag), code
}

func (s *Store) QueryValue(h registry.Handle, name string, buf []byte) (types.RegType, int, types.ResultCode) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return types.REG_NONE, 0, types.InvalidParameter
	}
	var (
		tag  uint32
		size = uint32(len(buf))
		data *byte
	)
	if len(buf) > 0 {
		data = &buf[0]
	}
	err = windows.RegQueryValueEx(windows.Handle(h), namep, nil, &tag, data, &size)
	code := s.code("RegQueryValueEx", err)

	// Without a data pointer the call only sizes the value, so an empty
	// fill buffer has to be checked by hand.
	if buf != nil && data == nil && code == types.Success && size > 0 {
		code = types.MoreData
	}
	return types.RegType(tag), int(size), code
}

func (s *Store) SetValue(h registry.Handle, name string, tag types.RegType, data []byte) types.ResultCode {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return types.InvalidParameter
	}
	var p *byte
	if len(data) > 0 {
		p = &data[0]
	}
	r, _, _ := procRegSetValueExW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(namep)),
		0,
		uintptr(tag),
		uintptr(unsafe.Pointer(p)),
		uintptr(len(data)),
	)
	return s.code("RegSetValueEx", errnoOf(r))
}

func (s *Store) DeleteKey(h registry.Handle, name string) types.ResultCode {
	return s.code("RegDeleteKey", winreg.DeleteKey(winreg.Key(h), name))
}

func (s *Store) DeleteValue(h registry.Handle, name string) types.ResultCode {
	return s.code("RegDeleteValue", winreg.Key(h).DeleteValue(name))
}

func errnoOf(r uintptr) error {
	if r == 0 {
		return nil
	}
	return syscall.Errno(r)
}

// code converts a Win32 error into a result code. Errors that carry no
// error number are logged and reported as an I/O failure.
func (s *Store) code(op string, err error) types.ResultCode {
	if err == nil {
		return types.Success
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return types.ResultCode(errno)
	}
	s.log.Error("winstore: registry call failed", "op", op, "error", err)
	return types.RegistryIOFailed
}
