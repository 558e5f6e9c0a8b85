// Package types defines the shared vocabulary of regkey: registry value
// types (REG_*), the result codes a backing store reports, the typed error
// taxonomy returned to callers, and the size limits stores enforce.
//
// Design goals:
//   - Stable error categories so callers branch on intent, not text.
//   - Result codes numbered like their Win32 counterparts so a store that
//     talks to the real Windows registry can pass them through unchanged.
//   - No dependencies beyond the standard library.
package types
