//go:build windows

package codec

import "golang.org/x/sys/windows/registry"

// ExpandEnvironment replaces %NAME% references using the system's
// ExpandEnvironmentStrings, so lookups are case-insensitive like Windows.
func ExpandEnvironment(s string) (string, error) {
	return registry.ExpandString(s)
}
