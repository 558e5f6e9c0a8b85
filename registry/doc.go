// Package registry exposes a hierarchical, typed key/value store modeled on
// the Windows Registry.
//
// A Key wraps a handle in a pluggable Store. Keys are opened from one of the
// predefined hive roots:
//
//	root := registry.OpenRoot(memstore.New(), registry.CurrentUser)
//	k, err := root.CreateSubKey(`Software\Vendor\App`)
//	if err != nil {
//		return err
//	}
//	defer k.Close()
//
//	if err := k.SetValue("Retries", codec.Int32(3)); err != nil {
//		return err
//	}
//	v, err := k.GetValue("Retries", codec.Int32(1))
//
// Values are codec.Value tagged unions. Reads of a missing value return the
// caller's default. Failures are *types.Error values and match the
// types.Err* sentinels with errors.Is.
//
// Every child Key must be closed. A Key that becomes unreachable while still
// open is released by a runtime cleanup, which logs a warning.
package registry
