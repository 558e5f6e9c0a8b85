package registry

import (
	"fmt"
	"strings"

	"github.com/joshuapare/regkey/pkg/types"
)

// Hive identifies a predefined root key. The numeric values are the Win32
// HKEY_* constants and double as the root's Handle in every Store.
type Hive uint32

const (
	ClassesRoot     Hive = 0x80000000
	CurrentUser     Hive = 0x80000001
	LocalMachine    Hive = 0x80000002
	Users           Hive = 0x80000003
	PerformanceData Hive = 0x80000004
	CurrentConfig   Hive = 0x80000005
	DynData         Hive = 0x80000006
)

var hiveNames = map[Hive]struct{ long, short string }{
	ClassesRoot:     {"HKEY_CLASSES_ROOT", "HKCR"},
	CurrentUser:     {"HKEY_CURRENT_USER", "HKCU"},
	LocalMachine:    {"HKEY_LOCAL_MACHINE", "HKLM"},
	Users:           {"HKEY_USERS", "HKU"},
	PerformanceData: {"HKEY_PERFORMANCE_DATA", "HKPD"},
	CurrentConfig:   {"HKEY_CURRENT_CONFIG", "HKCC"},
	DynData:         {"HKEY_DYN_DATA", "HKDD"},
}

// Hives returns every predefined hive in handle order.
func Hives() []Hive {
	return []Hive{ClassesRoot, CurrentUser, LocalMachine, Users, PerformanceData, CurrentConfig, DynData}
}

// String returns the canonical HKEY_* name.
func (h Hive) String() string {
	if n, ok := hiveNames[h]; ok {
		return n.long
	}
	return fmt.Sprintf("HKEY_0x%X", uint32(h))
}

// ShortName returns the common abbreviation (HKCU, HKLM, ...).
func (h Hive) ShortName() string {
	if n, ok := hiveNames[h]; ok {
		return n.short
	}
	return h.String()
}

// Handle returns the predefined handle of the hive root.
func (h Hive) Handle() Handle { return Handle(h) }

// Valid reports whether h is one of the predefined hives.
func (h Hive) Valid() bool {
	_, ok := hiveNames[h]
	return ok
}

// HiveOf reports whether handle is a predefined hive handle.
func HiveOf(handle Handle) (Hive, bool) {
	h := Hive(handle)
	return h, h.Valid()
}

// ParseHive resolves a hive by its canonical or short name, case-insensitively.
func ParseHive(name string) (Hive, error) {
	for h, n := range hiveNames {
		if strings.EqualFold(name, n.long) || strings.EqualFold(name, n.short) {
			return h, nil
		}
	}
	return 0, types.Errorf(types.ErrKindInvalidArgument, "unknown hive %q", name)
}

// ParsePath splits a fully-qualified path such as `HKCU\Software\Vendor` into
// its hive and the path below it. Leading and trailing separators and
// empty segments are dropped.
func ParsePath(path string) (Hive, string, error) {
	segs := SplitName(path)
	if len(segs) == 0 {
		return 0, "", types.Errorf(types.ErrKindInvalidArgument, "empty registry path")
	}
	h, err := ParseHive(segs[0])
	if err != nil {
		return 0, "", err
	}
	return h, strings.Join(segs[1:], Separator), nil
}

// SplitName splits a key path on Separator and drops empty segments.
func SplitName(path string) []string {
	parts := strings.Split(path, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OpenRoot returns the root Key of hive in store. Roots are writable, always
// valid, and never released by Close; closing a root only flushes it.
func OpenRoot(store Store, hive Hive, opts ...Option) *Key {
	k := &Key{
		store:    store,
		name:     hive.String(),
		handle:   nodeHandle{state: stateRoot, h: hive.Handle()},
		writable: true,
		log:      discardLogger,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}
