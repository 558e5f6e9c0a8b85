// Package storetest is a behavioral test suite every registry.Store must pass.
// Store packages call Run from their own tests.
package storetest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/registry/codec"
)

// NewStore returns an empty store for one subtest. It should register any
// cleanup the store needs with t.Cleanup.
type NewStore func(t *testing.T) registry.Store

// Run runs the full suite against stores produced by newStore.
func Run(t *testing.T, newStore NewStore) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s registry.Store, root *registry.Key)
	}{
		{"CreateThenOpen", testCreateThenOpen},
		{"OpenMissing", testOpenMissing},
		{"CaseInsensitiveNames", testCaseInsensitiveNames},
		{"ValueRoundTrip", testValueRoundTrip},
		{"GetMissingReturnsDefault", testGetMissingReturnsDefault},
		{"OverwriteChangesKind", testOverwriteChangesKind},
		{"ExpandString", testExpandString},
		{"ReopenSeesValue", testReopenSeesValue},
		{"NestedMultiString", testNestedMultiString},
		{"Enumeration", testEnumeration},
		{"DeleteValue", testDeleteValue},
		{"DeleteSubKey", testDeleteSubKey},
		{"DeleteSubKeyWithChildren", testDeleteSubKeyWithChildren},
		{"DeleteSubKeyTree", testDeleteSubKeyTree},
		{"DeleteEmptyNameLeavesHive", testDeleteEmptyNameLeavesHive},
		{"ClosedKey", testClosedKey},
		{"ReadOnlyKey", testReadOnlyKey},
		{"DeletedWhileOpen", testDeletedWhileOpen},
		{"Walk", testWalk},
		{"HivesAreIndependent", testHivesAreIndependent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			tt.fn(t, s, registry.OpenRoot(s, registry.CurrentUser))
		})
	}
}

func mustCreate(t *testing.T, parent *registry.Key, name string) *registry.Key {
	t.Helper()
	k, err := parent.CreateSubKey(name)
	require.NoError(t, err)
	t.Cleanup(func() { k.Close() })
	return k
}

func mustSet(t *testing.T, k *registry.Key, name string, v codec.Value) {
	t.Helper()
	require.NoError(t, k.SetValue(name, v))
}

func requireKind(t *testing.T, err error, want error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, want), "got %v, want %v", err, want)
}

func requireValue(t *testing.T, want, got codec.Value) {
	t.Helper()
	if !want.Equal(got) {
		t.Fatalf("value mismatch (-want +got):\n%s\nkinds: %s / %s",
			cmp.Diff(want.Interface(), got.Interface()), want.Kind(), got.Kind())
	}
}

func testCreateThenOpen(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "Software")
	require.Equal(t, `HKEY_CURRENT_USER\Software`, k.Name())
	require.True(t, k.Writable())
	require.False(t, k.IsRoot())

	again, err := root.OpenSubKey("Software", false)
	require.NoError(t, err)
	require.NotNil(t, again)
	defer again.Close()
	require.Equal(t, k.Name(), again.Name())
	require.False(t, again.Writable())

	// Creating an existing key opens it.
	same := mustCreate(t, root, "Software")
	require.Equal(t, k.Name(), same.Name())
}

func testOpenMissing(t *testing.T, _ registry.Store, root *registry.Key) {
	k, err := root.OpenSubKey("Nope", true)
	require.NoError(t, err)
	require.Nil(t, k)

	ok, err := root.SubKeyExists(`Nope\Deeper`)
	require.NoError(t, err)
	require.False(t, ok)
}

func testCaseInsensitiveNames(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "MixedCase")
	mustSet(t, k, "Value", codec.Int32(1))

	other, err := root.OpenSubKey("MIXEDCASE", false)
	require.NoError(t, err)
	require.NotNil(t, other)
	defer other.Close()

	v, err := other.GetValue("value", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(1), v)

	names, err := root.SubKeyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"MixedCase"}, names)
}

func testValueRoundTrip(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "RoundTrip")
	values := map[string]codec.Value{
		"int":         codec.Int32(-7),
		"string":      codec.String("héllo 😀"),
		"empty":       codec.String(""),
		"multi":       codec.Strings("a", "", "c"),
		"multi empty": codec.Strings(),
		"binary":      codec.Bytes([]byte{0, 1, 0xFF}),
		"no bytes":    codec.Bytes(nil),
		"":            codec.String("default value"),
	}
	for name, v := range values {
		mustSet(t, k, name, v)
	}
	for name, want := range values {
		got, err := k.GetValueOptions(name, codec.Value{}, registry.DoNotExpandEnvironmentNames)
		require.NoError(t, err, name)
		requireValue(t, want, got)
	}

	n, err := k.ValueCount()
	require.NoError(t, err)
	require.Equal(t, len(values), n)
}

func testGetMissingReturnsDefault(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "Defaults")
	def := codec.String("fallback")

	got, err := k.GetValue("missing", def)
	require.NoError(t, err)
	requireValue(t, def, got)

	got, err = k.GetValue("missing", codec.Value{})
	require.NoError(t, err)
	require.True(t, got.IsNull())
}

func testOverwriteChangesKind(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "Overwrite")
	mustSet(t, k, "v", codec.Int32(1))
	mustSet(t, k, "v", codec.Strings("x"))

	got, err := k.GetValue("v", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Strings("x"), got)

	kind, err := k.GetValueKind("v")
	require.NoError(t, err)
	require.Equal(t, types.REG_MULTI_SZ, kind)

	n, err := k.ValueCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func testExpandString(t *testing.T, _ registry.Store, root *registry.Key) {
	t.Setenv("REGKEY_STORETEST", "home")
	k := mustCreate(t, root, "Expand")
	require.NoError(t, k.SetValueKind("path", codec.String(`%REGKEY_STORETEST%\bin`), types.REG_EXPAND_SZ))

	got, err := k.GetValue("path", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.ExpandString(`home\bin`), got)

	got, err = k.GetValueOptions("path", codec.Value{}, registry.DoNotExpandEnvironmentNames)
	require.NoError(t, err)
	requireValue(t, codec.ExpandString(`%REGKEY_STORETEST%\bin`), got)

	err = k.SetValueKind("path", codec.String("1"), types.REG_DWORD)
	requireKind(t, err, types.ErrInvalidArgument)
}

func testReopenSeesValue(t *testing.T, _ registry.Store, root *registry.Key) {
	k, err := root.CreateSubKey("T")
	require.NoError(t, err)
	mustSet(t, k, "X", codec.Int32(42))
	require.NoError(t, k.Close())

	k, err = root.OpenSubKey("T", false)
	require.NoError(t, err)
	require.NotNil(t, k)
	defer k.Close()

	got, err := k.GetValue("X", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(42), got)
}

func testNestedMultiString(t *testing.T, _ registry.Store, root *registry.Key) {
	a := mustCreate(t, root, "A")
	b := mustCreate(t, a, "B")
	require.Equal(t, `HKEY_CURRENT_USER\A\B`, b.Name())
	mustSet(t, b, "L", codec.Strings("a", "b"))

	nested, err := root.OpenSubKey(`A\B`, false)
	require.NoError(t, err)
	require.NotNil(t, nested)
	defer nested.Close()

	got, err := nested.GetValue("L", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Strings("a", "b"), got)
}

func testEnumeration(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "Enum")
	for _, name := range []string{"gamma", "alpha", "beta"} {
		mustCreate(t, k, name)
	}
	mustSet(t, k, "one", codec.Int32(1))
	mustSet(t, k, "two", codec.Int32(2))

	subs, err := k.SubKeyNames()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, subs)

	n, err := k.SubKeyCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	vals, err := k.ValueNames()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"one", "two"}, vals)

	empty := mustCreate(t, k, "alpha")
	subs, err = empty.SubKeyNames()
	require.NoError(t, err)
	require.NotNil(t, subs)
	require.Empty(t, subs)
}

func testDeleteValue(t *testing.T, _ registry.Store, root *registry.Key) {
	k := mustCreate(t, root, "DelValue")
	mustSet(t, k, "v", codec.Int32(1))

	require.NoError(t, k.DeleteValue("v", true))
	got, err := k.GetValue("v", codec.Int32(9))
	require.NoError(t, err)
	requireValue(t, codec.Int32(9), got)

	require.NoError(t, k.DeleteValue("v", false))
	requireKind(t, k.DeleteValue("v", true), types.ErrInvalidArgument)
}

func testDeleteSubKey(t *testing.T, _ registry.Store, root *registry.Key) {
	k, err := root.CreateSubKey("Gone")
	require.NoError(t, err)
	require.NoError(t, k.Close())

	require.NoError(t, root.DeleteSubKey("Gone", true))
	ok, err := root.SubKeyExists("Gone")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, root.DeleteSubKey("Gone", false))
	requireKind(t, root.DeleteSubKey("Gone", true), types.ErrInvalidArgument)
}

func testDeleteSubKeyWithChildren(t *testing.T, _ registry.Store, root *registry.Key) {
	parent := mustCreate(t, root, "Parent")
	mustCreate(t, parent, "Child")
	mustSet(t, parent, "v", codec.Int32(1))

	requireKind(t, root.DeleteSubKey("Parent", true), types.ErrInvalidOperation)

	ok, err := root.SubKeyExists(`Parent\Child`)
	require.NoError(t, err)
	require.True(t, ok)
	got, err := parent.GetValue("v", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(1), got)
}

func testDeleteEmptyNameLeavesHive(t *testing.T, _ registry.Store, root *registry.Key) {
	vendor := mustCreate(t, root, `Software\Vendor`)
	mustSet(t, vendor, "v", codec.Int32(1))
	mustSet(t, root, "top", codec.String("x"))

	for _, name := range []string{"", `\`, `\\`} {
		requireKind(t, root.DeleteSubKeyTree(name), types.ErrInvalidArgument)
		requireKind(t, root.DeleteSubKey(name, true), types.ErrInvalidArgument)
		requireKind(t, vendor.DeleteSubKeyTree(name), types.ErrInvalidArgument)
	}

	subs, err := root.SubKeyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"Software"}, subs)
	vals, err := root.ValueNames()
	require.NoError(t, err)
	require.Equal(t, []string{"top"}, vals)
	got, err := vendor.GetValue("v", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(1), got)
}

func testDeleteSubKeyTree(t *testing.T, _ registry.Store, root *registry.Key) {
	top, err := root.CreateSubKey("Tree")
	require.NoError(t, err)
	for _, p := range []string{`a\b\c`, `a\d`, `e`} {
		k, err := top.CreateSubKey(p)
		require.NoError(t, err)
		mustSet(t, k, "leaf", codec.String(p))
		require.NoError(t, k.Close())
	}
	mustSet(t, top, "top", codec.Int32(1))
	require.NoError(t, top.Close())

	require.NoError(t, root.DeleteSubKeyTree("Tree"))

	ok, err := root.SubKeyExists("Tree")
	require.NoError(t, err)
	require.False(t, ok)

	requireKind(t, root.DeleteSubKeyTree("Tree"), types.ErrInvalidArgument)
}

func testClosedKey(t *testing.T, _ registry.Store, root *registry.Key) {
	k, err := root.CreateSubKey("Closed")
	require.NoError(t, err)
	require.NoError(t, k.Close())
	require.True(t, k.Closed())
	require.NoError(t, k.Close())
	require.NoError(t, k.Flush())

	_, err = k.GetValue("v", codec.Value{})
	requireKind(t, err, types.ErrDisposed)
	requireKind(t, k.SetValue("v", codec.Int32(1)), types.ErrDisposed)
	requireKind(t, k.DeleteValue("v", false), types.ErrDisposed)
	_, err = k.OpenSubKey("x", false)
	requireKind(t, err, types.ErrDisposed)
	_, err = k.CreateSubKey("x")
	requireKind(t, err, types.ErrDisposed)
	requireKind(t, k.DeleteSubKey("x", false), types.ErrDisposed)
	requireKind(t, k.DeleteSubKeyTree("x"), types.ErrDisposed)
	_, err = k.SubKeyCount()
	requireKind(t, err, types.ErrDisposed)
	_, err = k.ValueCount()
	requireKind(t, err, types.ErrDisposed)
	_, err = k.SubKeyNames()
	requireKind(t, err, types.ErrDisposed)
	_, err = k.ValueNames()
	requireKind(t, err, types.ErrDisposed)
}

func testReadOnlyKey(t *testing.T, _ registry.Store, root *registry.Key) {
	w := mustCreate(t, root, "RO")
	mustSet(t, w, "v", codec.Int32(1))

	k, err := root.OpenSubKeyReadOnly("RO")
	require.NoError(t, err)
	require.NotNil(t, k)
	defer k.Close()

	requireKind(t, k.SetValue("v", codec.Int32(2)), types.ErrAccessDenied)
	requireKind(t, k.DeleteValue("v", false), types.ErrAccessDenied)
	_, err = k.CreateSubKey("child")
	requireKind(t, err, types.ErrAccessDenied)
	requireKind(t, k.DeleteSubKey("child", false), types.ErrAccessDenied)

	got, err := k.GetValue("v", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(1), got)
}

func testDeletedWhileOpen(t *testing.T, _ registry.Store, root *registry.Key) {
	k, err := root.CreateSubKey("Doomed")
	require.NoError(t, err)
	defer k.Close()
	mustSet(t, k, "v", codec.Int32(1))

	require.NoError(t, root.DeleteSubKey("Doomed", true))

	got, err := k.GetValue("v", codec.String("def"))
	require.NoError(t, err)
	requireValue(t, codec.String("def"), got)

	requireKind(t, k.SetValue("v", codec.Int32(2)), types.ErrMarkedForDeletion)
	_, err = k.CreateSubKey("child")
	requireKind(t, err, types.ErrMarkedForDeletion)
	_, err = k.SubKeyNames()
	requireKind(t, err, types.ErrMarkedForDeletion)
	_, err = k.ValueCount()
	requireKind(t, err, types.ErrMarkedForDeletion)
	require.NoError(t, k.DeleteValue("v", true))

	sub, err := k.OpenSubKey("child", false)
	require.NoError(t, err)
	require.Nil(t, sub)
}

func testWalk(t *testing.T, _ registry.Store, root *registry.Key) {
	top := mustCreate(t, root, "W")
	for _, p := range []string{`a\x`, `b`, `skip\hidden`} {
		k, err := top.CreateSubKey(p)
		require.NoError(t, err)
		require.NoError(t, k.Close())
	}

	var seen []string
	depths := map[string]int{}
	err := top.Walk(func(k *registry.Key, depth int) error {
		seen = append(seen, k.Name())
		depths[k.Name()] = depth
		if k.Name() == `HKEY_CURRENT_USER\W\skip` {
			return registry.SkipKey
		}
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		`HKEY_CURRENT_USER\W`,
		`HKEY_CURRENT_USER\W\a`,
		`HKEY_CURRENT_USER\W\a\x`,
		`HKEY_CURRENT_USER\W\b`,
		`HKEY_CURRENT_USER\W\skip`,
	}, seen)
	require.Equal(t, 2, depths[`HKEY_CURRENT_USER\W\a\x`])

	stop := errors.New("stop")
	err = top.Walk(func(*registry.Key, int) error { return stop })
	require.ErrorIs(t, err, stop)
}

func testHivesAreIndependent(t *testing.T, s registry.Store, root *registry.Key) {
	mustCreate(t, root, "OnlyInCurrentUser")
	mustSet(t, root, "rootValue", codec.Int32(3))

	lm := registry.OpenRoot(s, registry.LocalMachine)
	require.Equal(t, "HKEY_LOCAL_MACHINE", lm.Name())
	ok, err := lm.SubKeyExists("OnlyInCurrentUser")
	require.NoError(t, err)
	require.False(t, ok)
	got, err := lm.GetValue("rootValue", codec.Value{})
	require.NoError(t, err)
	require.True(t, got.IsNull())

	// Roots survive Close.
	require.NoError(t, root.Close())
	require.False(t, root.Closed())
	got, err = root.GetValue("rootValue", codec.Value{})
	require.NoError(t, err)
	requireValue(t, codec.Int32(3), got)
}
