// Package winstore is a registry.Store over the live Windows registry, built
// on advapi32 through golang.org/x/sys/windows. Store handles are Win32 HKEYs
// and result codes are Win32 error numbers, so both pass through unchanged.
//
// The package is empty on other platforms.
package winstore
