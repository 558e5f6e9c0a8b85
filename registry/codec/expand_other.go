//go:build !windows

package codec

import "os"

// ExpandEnvironment replaces %NAME% references with values from the process
// environment. Unknown names are kept verbatim.
func ExpandEnvironment(s string) (string, error) {
	return expandWith(s, os.LookupEnv), nil
}
