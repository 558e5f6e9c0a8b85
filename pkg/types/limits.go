package types

// ============================================================================
// Windows Registry Limits Constants
// ============================================================================
// These constants define the official limits imposed by Windows Registry.
// Stores enforce them on names and payloads they accept.

const (
	// WindowsMaxKeyNameLen is the hard limit for registry key names
	// in Windows (measured in UTF-16 code units, not bytes).
	WindowsMaxKeyNameLen = 255

	// WindowsMaxKeyNameLenHalf is half the Windows limit, useful for
	// strict validation scenarios.
	WindowsMaxKeyNameLenHalf = 128

	// WindowsMaxValueNameLen is the hard limit for registry value names
	// in Windows (measured in UTF-16 code units, not bytes).
	WindowsMaxValueNameLen = 16383

	// WindowsMaxValueNameLenSmall is a much smaller limit for strict
	// validation scenarios.
	WindowsMaxValueNameLenSmall = 255

	// WindowsMaxValueSize1MB is the standard maximum size for a single
	// registry value's data (1 MB).
	WindowsMaxValueSize1MB = 1 << 20

	// WindowsMaxValueSize64KB is a conservative maximum for safety-critical
	// or resource-constrained environments.
	WindowsMaxValueSize64KB = 64 << 10

	// WindowsMaxTreeDepthPractical is the practical limit for registry
	// tree depth. Windows documents 512 levels.
	WindowsMaxTreeDepthPractical = 512

	// WindowsMaxTreeDepthShallow is a conservative limit for safety-critical
	// applications.
	WindowsMaxTreeDepthShallow = 128
)

// Limits defines constraints a store applies to names and payloads.
type Limits struct {
	// MaxKeyNameLen is the maximum length of one key name segment in UTF-16 units.
	MaxKeyNameLen int

	// MaxValueNameLen is the maximum length of a value name in UTF-16 units.
	MaxValueNameLen int

	// MaxValueSize is the maximum size of a single value's data in bytes.
	MaxValueSize int

	// MaxTreeDepth is the maximum depth of the key tree below a hive root.
	MaxTreeDepth int
}

// DefaultLimits returns the standard Windows registry limits.
func DefaultLimits() Limits {
	return Limits{
		MaxKeyNameLen:   WindowsMaxKeyNameLen,
		MaxValueNameLen: WindowsMaxValueNameLen,
		MaxValueSize:    WindowsMaxValueSize1MB,
		MaxTreeDepth:    WindowsMaxTreeDepthPractical,
	}
}

// StrictLimits returns conservative limits for constrained environments.
func StrictLimits() Limits {
	return Limits{
		MaxKeyNameLen:   WindowsMaxKeyNameLenHalf,
		MaxValueNameLen: WindowsMaxValueNameLenSmall,
		MaxValueSize:    WindowsMaxValueSize64KB,
		MaxTreeDepth:    WindowsMaxTreeDepthShallow,
	}
}

// Normalize returns l with zero fields replaced by the defaults.
func (l Limits) Normalize() Limits {
	d := DefaultLimits()
	if l.MaxKeyNameLen <= 0 {
		l.MaxKeyNameLen = d.MaxKeyNameLen
	}
	if l.MaxValueNameLen <= 0 {
		l.MaxValueNameLen = d.MaxValueNameLen
	}
	if l.MaxValueSize <= 0 {
		l.MaxValueSize = d.MaxValueSize
	}
	if l.MaxTreeDepth <= 0 {
		l.MaxTreeDepth = d.MaxTreeDepth
	}
	return l
}
