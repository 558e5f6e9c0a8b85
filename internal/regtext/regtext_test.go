package regtext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/registry/codec"
	"github.com/joshuapare/regkey/store/memstore"
)

const sample = `Windows Registry Editor Version 5.00

; exported by hand
[HKEY_CURRENT_USER\Software\Vendor]
@="default"
"Version"="1.0"
"Quote"="say \"hi\" \\o/"
"Count"=dword:ffffffff
"Path"=hex(2):25,00,41,00,25,00,00,00
"Multi"=hex(7):61,00,00,00,\
  62,00,00,00,00,00
"Blob"=hex:01,2,ff
"Stale"=-

[-HKEY_CURRENT_USER\Software\Old]

[hkey_current_user\software\vendor]
"Again"=""
`

func TestParse(t *testing.T) {
	const path = `HKEY_CURRENT_USER\Software\Vendor`

	ops, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, []Op{
		CreateKey{Path: path},
		SetValue{Path: path, Name: "", Value: codec.String("default")},
		SetValue{Path: path, Name: "Version", Value: codec.String("1.0")},
		SetValue{Path: path, Name: "Quote", Value: codec.String(`say "hi" \o/`)},
		SetValue{Path: path, Name: "Count", Value: codec.Int32(-1)},
		SetValue{Path: path, Name: "Path", Value: codec.ExpandString("%A%")},
		SetValue{Path: path, Name: "Multi", Value: codec.Strings("a", "b")},
		SetValue{Path: path, Name: "Blob", Value: codec.Bytes([]byte{0x01, 0x02, 0xff})},
		DeleteValue{Path: path, Name: "Stale"},
		DeleteKey{Path: `HKEY_CURRENT_USER\Software\Old`},
		SetValue{Path: `hkey_current_user\software\vendor`, Name: "Again", Value: codec.String("")},
	}, ops)
}

func TestParse_UTF16WithBOM(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, r := range RegFileHeader + "\r\n[HKCU\\A]\r\n\"x\"=\"\u00e9\"\r\n" {
		buf.Write([]byte{byte(r), byte(r >> 8)})
	}

	ops, err := Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, []Op{
		CreateKey{Path: `HKCU\A`},
		SetValue{Path: `HKCU\A`, Name: "x", Value: codec.String("\u00e9")},
	}, ops)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed section", body: `[HKCU\A`, wantErr: "malformed section"},
		{name: "value outside section", body: `"x"="y"`, wantErr: "outside of a key section"},
		{name: "short dword", body: "[HKCU\\A]\n\"x\"=dword:1", wantErr: "invalid dword"},
		{name: "bad dword", body: "[HKCU\\A]\n\"x\"=dword:zzzzzzzz", wantErr: "invalid dword"},
		{name: "bad hex", body: "[HKCU\\A]\n\"x\"=hex:0g", wantErr: "invalid hex byte"},
		{name: "long hex byte", body: "[HKCU\\A]\n\"x\"=hex:123", wantErr: "invalid hex byte"},
		{name: "unterminated string", body: "[HKCU\\A]\n\"x\"=\"abc", wantErr: "unterminated string"},
		{name: "unterminated name", body: "[HKCU\\A]\n\"x=\"abc", wantErr: "missing '='"},
		{name: "unknown payload", body: "[HKCU\\A]\n\"x\"=wat", wantErr: "unsupported value"},
		{name: "bare value line", body: "[HKCU\\A]\nx=1", wantErr: "malformed value line"},
		{name: "malformed hex type", body: "[HKCU\\A]\n\"x\"=hex(q):00", wantErr: "malformed hex type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(RegFileHeader + "\n" + tt.body + "\n"))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParse_UnsupportedType(t *testing.T) {
	_, err := Parse(strings.NewReader(RegFileHeader + "\n[HKCU\\A]\n\"q\"=hex(b):01,00,00,00,00,00,00,00\n"))
	require.ErrorIs(t, err, types.ErrUnsupportedType)
}

func TestParse_MissingHeader(t *testing.T) {
	for _, body := range []string{"", "\n\n", "[HKCU\\A]\n"} {
		_, err := Parse(strings.NewReader(body))
		require.ErrorIs(t, err, ErrMissingHeader)
	}

	ops, err := Parse(strings.NewReader(RegFileHeaderV4 + "\n[HKCU\\A]\n"))
	require.NoError(t, err)
	require.Equal(t, []Op{CreateKey{Path: `HKCU\A`}}, ops)
}

func seed(t *testing.T, s registry.Store) {
	t.Helper()
	root := registry.OpenRoot(s, registry.CurrentUser)
	k, err := root.CreateSubKey(`Software\Vendor`)
	require.NoError(t, err)
	defer k.Close()

	blob := make([]byte, 3*HexBytesPerLine+1)
	for i := range blob {
		blob[i] = byte(i)
	}
	for name, v := range map[string]codec.Value{
		"":           codec.String("default"),
		"Quote":      codec.String(`say "hi" \o/`),
		"Path":       codec.ExpandString(`%APPDATA%\Vendor`),
		"Count":      codec.Int32(-7),
		"Paths":      codec.Strings("a", "", "c"),
		"EmptyMulti": codec.Strings(),
		"Blob":       codec.Bytes(blob),
		"EmptyBlob":  codec.Bytes(nil),
	} {
		require.NoError(t, k.SetValue(name, v))
	}

	deep, err := k.CreateSubKey(`Sub\Deep`)
	require.NoError(t, err)
	require.NoError(t, deep.SetValue("Leaf", codec.String("x")))
	require.NoError(t, deep.Close())
}

func TestExportApplyRoundTrip(t *testing.T) {
	for _, utf16 := range []bool{false, true} {
		t.Run(map[bool]string{false: "utf8", true: "utf16"}[utf16], func(t *testing.T) {
			src := memstore.New()
			seed(t, src)

			root := registry.OpenRoot(src, registry.CurrentUser)
			k, err := root.OpenSubKey(`Software\Vendor`, false)
			require.NoError(t, err)
			defer k.Close()

			var buf bytes.Buffer
			require.NoError(t, Export(&buf, k, ExportOptions{UTF16: utf16}))
			if !utf16 {
				require.True(t, strings.HasPrefix(buf.String(), RegFileHeader+CRLF))
				require.Contains(t, buf.String(), `"Count"=dword:fffffff9`)
				require.Contains(t, buf.String(), Backslash+CRLF+"  ")
			}

			ops, err := Parse(&buf)
			require.NoError(t, err)

			dst := memstore.New()
			require.NoError(t, Apply(dst, ops))
			require.Zero(t, dst.OpenHandles())

			got, err := registry.OpenRoot(dst, registry.CurrentUser).OpenSubKey(`Software\Vendor`, false)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			names, err := k.ValueNames()
			require.NoError(t, err)
			gotNames, err := got.ValueNames()
			require.NoError(t, err)
			require.ElementsMatch(t, names, gotNames)

			for _, name := range names {
				want, err := k.GetValueOptions(name, codec.Value{}, registry.DoNotExpandEnvironmentNames)
				require.NoError(t, err)
				have, err := got.GetValueOptions(name, codec.Value{}, registry.DoNotExpandEnvironmentNames)
				require.NoError(t, err)
				require.True(t, want.Equal(have), "value %q: want %v, got %v", name, want, have)
			}

			deep, err := got.OpenSubKey(`Sub\Deep`, false)
			require.NoError(t, err)
			require.NotNil(t, deep)
			leaf, err := deep.GetValue("Leaf", codec.Value{})
			require.NoError(t, err)
			require.Equal(t, codec.String("x"), leaf)
			require.NoError(t, deep.Close())
		})
	}
}

func TestApply_Deletes(t *testing.T) {
	s := memstore.New()
	seed(t, s)

	ops, err := Parse(strings.NewReader(RegFileHeader + `

[-HKEY_CURRENT_USER\Software\Vendor\Sub]
[-HKEY_CURRENT_USER\Software\Missing]

[HKEY_CURRENT_USER\Software\Vendor]
"Quote"=-
"NotThere"=-

[HKCU\Software\Gone]
"x"=-
`))
	require.NoError(t, err)
	require.NoError(t, Apply(s, ops))
	require.Zero(t, s.OpenHandles())

	k, err := registry.OpenRoot(s, registry.CurrentUser).OpenSubKey(`Software\Vendor`, false)
	require.NoError(t, err)
	defer k.Close()

	exists, err := k.SubKeyExists("Sub")
	require.NoError(t, err)
	require.False(t, exists)

	v, err := k.GetValue("Quote", codec.Value{})
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestApply_HiveCannotBeDeleted(t *testing.T) {
	err := Apply(memstore.New(), []Op{DeleteKey{Path: "HKLM"}})
	require.ErrorContains(t, err, "cannot delete hive")
}

func TestApply_BadPath(t *testing.T) {
	err := Apply(memstore.New(), []Op{CreateKey{Path: `HKXX\A`}})
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestUnescapeRegString(t *testing.T) {
	tests := map[string]string{
		`plain`:       `plain`,
		`C:\\Windows`: `C:\Windows`,
		`a\"b`:        `a"b`,
		`trailing\`:   `trailing\`,
		`\\\"`:        `\"`,
	}
	for in, want := range tests {
		require.Equal(t, want, unescapeRegString(in), in)
		if in != `trailing\` {
			require.Equal(t, in, escapeString(want), want)
		}
	}
}
