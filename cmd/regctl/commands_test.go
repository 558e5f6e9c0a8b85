package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regkey/pkg/types"
)

const vendorPath = `HKCU\Software\Vendor`

func setValue(t *testing.T, typ string, args ...string) {
	t.Helper()
	setType = typ
	t.Cleanup(func() { setType = "sz" })
	mustRun(t, runSet, args...)
}

// seedVendor fills HKCU\Software with a small tree:
//
//	Software
//	├── Other
//	└── Vendor (7 values)
//	    └── Sub
//	        └── Deep
func seedVendor(t *testing.T) {
	t.Helper()
	useTestStore(t)

	setValue(t, "sz", vendorPath, "", "default")
	setValue(t, "sz", vendorPath, "Version", "1.0")
	setValue(t, "expand_sz", vendorPath, "Path", `%REGCTL_TEST_DIR%\bin`)
	setValue(t, "dword", vendorPath, "Count", "0x10")
	setValue(t, "dword", vendorPath, "Mask", "4294967295")
	setValue(t, "multi_sz", vendorPath, "Paths", "a", "b")
	setValue(t, "binary", vendorPath, "Blob", "de:ad:be:ef")
	setValue(t, "sz", vendorPath+`\Sub\Deep`, "Leaf", "x")
	setValue(t, "sz", `HKCU\Software\Other`, "", "")
}

func TestGetCommand(t *testing.T) {
	seedVendor(t)
	t.Setenv("REGCTL_TEST_DIR", "opt")

	tests := []struct {
		name     string
		value    string
		noExpand bool
		want     string
		wantErr  bool
	}{
		{name: "string", value: "Version", want: "1.0\n"},
		{name: "default value", value: "", want: "default\n"},
		{name: "expanded", value: "Path", want: `opt\bin` + "\n"},
		{name: "not expanded", value: "Path", noExpand: true, want: `%REGCTL_TEST_DIR%\bin` + "\n"},
		{name: "hex dword", value: "Count", want: "16\n"},
		{name: "unsigned dword wraps", value: "Mask", want: "-1\n"},
		{name: "multi string", value: "Paths", want: "a\nb\n"},
		{name: "binary", value: "Blob", want: "de ad be ef\n"},
		{name: "missing value", value: "Nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getNoExpand = tt.noExpand
			t.Cleanup(func() { getNoExpand = false })

			output, err := captureOutput(t, func() error {
				return runGet([]string{vendorPath, tt.value})
			})
			if tt.wantErr {
				require.ErrorContains(t, err, "does not exist")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, output)
		})
	}
}

func TestGetCommand_MissingKey(t *testing.T) {
	useTestStore(t)
	_, err := captureOutput(t, func() error {
		return runGet([]string{`HKCU\Software\Nope`, "x"})
	})
	require.ErrorContains(t, err, "does not exist")
}

func TestGetCommand_BadHive(t *testing.T) {
	useTestStore(t)
	err := runGet([]string{`HKXX\Software`, "x"})
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestKeysCommand(t *testing.T) {
	seedVendor(t)

	tests := []struct {
		name           string
		path           string
		recursive      bool
		wantJSON       bool
		want           string
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "direct sub-keys",
			path: `HKCU\Software`,
			want: "Other\nVendor\n",
		},
		{
			name:        "recursive",
			path:        `HKCU\Software`,
			recursive:   true,
			wantContain: []string{"Other\n", "Vendor\n", `Vendor\Sub` + "\n", `Vendor\Sub\Deep` + "\n"},
		},
		{
			name:           "json",
			path:           vendorPath,
			wantJSON:       true,
			wantContain:    []string{`"Sub"`, `"count": 1`},
			wantNotContain: []string{"Deep"},
		},
		{
			name:        "hive root",
			path:        "HKEY_CURRENT_USER",
			wantContain: []string{"Software\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonOut = tt.wantJSON
			keysRecursive = tt.recursive
			t.Cleanup(func() { jsonOut, keysRecursive = false, false })

			output, err := captureOutput(t, func() error {
				return runKeys([]string{tt.path})
			})
			require.NoError(t, err)

			if tt.wantJSON {
				assertJSON(t, output)
			}
			if tt.want != "" {
				require.Equal(t, tt.want, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestValuesCommand(t *testing.T) {
	seedVendor(t)

	output, err := captureOutput(t, func() error {
		return runValues([]string{vendorPath})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"(Default)", "REG_SZ", "REG_EXPAND_SZ", "REG_MULTI_SZ", "REG_BINARY",
		"REG_DWORD", "4 B", `%REGCTL_TEST_DIR%\bin`, "de ad be ef",
	})

	jsonOut = true
	t.Cleanup(func() { jsonOut = false })
	output, err = captureOutput(t, func() error {
		return runValues([]string{vendorPath})
	})
	require.NoError(t, err)

	var got struct {
		Count  int         `json:"count"`
		Values []valueInfo `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Equal(t, 7, got.Count)
	require.Len(t, got.Values, 7)
}

func TestSetCommand_ReadOnly(t *testing.T) {
	seedVendor(t)
	readOnly = true

	setType = "sz"
	err := runSet([]string{vendorPath, "Version", "2.0"})
	require.ErrorIs(t, err, types.ErrAccessDenied)

	readOnly = false
	output, err := captureOutput(t, func() error {
		return runGet([]string{vendorPath, "Version"})
	})
	require.NoError(t, err)
	require.Equal(t, "1.0\n", output)
}

func TestSetCommand_Overwrite(t *testing.T) {
	seedVendor(t)
	setValue(t, "dword", vendorPath, "Version", "2")

	output, err := captureOutput(t, func() error {
		return runGet([]string{vendorPath, "Version"})
	})
	require.NoError(t, err)
	require.Equal(t, "2\n", output)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.RegType
		data    []string
		want    string
		wantErr bool
	}{
		{name: "string", kind: types.REG_SZ, data: []string{"hello"}, want: "hello"},
		{name: "negative dword", kind: types.REG_DWORD, data: []string{"-2"}, want: "-2"},
		{name: "octal dword", kind: types.REG_DWORD, data: []string{"010"}, want: "8"},
		{name: "dword too large", kind: types.REG_DWORD, data: []string{"4294967296"}, wantErr: true},
		{name: "dword too small", kind: types.REG_DWORD, data: []string{"-2147483649"}, wantErr: true},
		{name: "dword not a number", kind: types.REG_DWORD, data: []string{"ten"}, wantErr: true},
		{name: "binary with spaces", kind: types.REG_BINARY, data: []string{"01 02 ff"}, want: "01 02 ff"},
		{name: "binary odd length", kind: types.REG_BINARY, data: []string{"abc"}, wantErr: true},
		{name: "empty multi string", kind: types.REG_MULTI_SZ, want: ""},
		{name: "string needs one argument", kind: types.REG_SZ, data: []string{"a", "b"}, wantErr: true},
		{name: "dword needs an argument", kind: types.REG_DWORD, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseValue(tt.kind, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.kind, v.Tag())
			require.Equal(t, tt.want, v.String())
		})
	}
}

func TestDeleteValueCommand(t *testing.T) {
	seedVendor(t)

	mustRun(t, runDeleteValue, vendorPath, "Version")
	_, err := captureOutput(t, func() error {
		return runGet([]string{vendorPath, "Version"})
	})
	require.ErrorContains(t, err, "does not exist")

	err = runDeleteValue([]string{vendorPath, "Version"})
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	deleteValueMissingOK = true
	t.Cleanup(func() { deleteValueMissingOK = false })
	require.NoError(t, runDeleteValue([]string{vendorPath, "Version"}))
}

func TestDeleteKeyCommand(t *testing.T) {
	seedVendor(t)
	t.Cleanup(func() { deleteKeyRecursive, deleteKeyMissingOK = false, false })

	err := runDeleteKey([]string{vendorPath})
	require.ErrorIs(t, err, types.ErrInvalidOperation)

	mustRun(t, runDeleteKey, `HKCU\Software\Other`)

	deleteKeyRecursive = true
	mustRun(t, runDeleteKey, vendorPath)

	output, err := captureOutput(t, func() error {
		return runKeys([]string{`HKCU\Software`})
	})
	require.NoError(t, err)
	require.Empty(t, output)

	err = runDeleteKey([]string{vendorPath})
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	deleteKeyMissingOK = true
	require.NoError(t, runDeleteKey([]string{vendorPath}))
	deleteKeyRecursive = false
	require.NoError(t, runDeleteKey([]string{vendorPath}))

	err = runDeleteKey([]string{"HKCU"})
	require.ErrorContains(t, err, "no parent")
}

func TestTreeCommand(t *testing.T) {
	seedVendor(t)
	t.Cleanup(func() { treeDepth, treeValues = 3, false })

	tests := []struct {
		name           string
		depth          int
		values         bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "unlimited",
			depth:       0,
			wantContain: []string{`HKEY_CURRENT_USER\Software`, "Other", "Vendor", "Sub", "Deep"},
		},
		{
			name:           "depth one",
			depth:          1,
			wantContain:    []string{"Other", "Vendor"},
			wantNotContain: []string{"Sub", "Deep"},
		},
		{
			name:        "with values",
			depth:       0,
			values:      true,
			wantContain: []string{"Version = 1.0 (REG_SZ)", "Count = 16 (REG_DWORD)", "Leaf = x (REG_SZ)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			treeDepth, treeValues = tt.depth, tt.values

			output, err := captureOutput(t, func() error {
				return runTree([]string{`HKCU\Software`})
			})
			require.NoError(t, err)
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestExportCommand_JSON(t *testing.T) {
	seedVendor(t)
	exportFormat, exportOutput = "json", ""
	t.Cleanup(func() { exportFormat, exportOutput = "json", "" })

	output, err := captureOutput(t, func() error {
		return runExport([]string{vendorPath})
	})
	require.NoError(t, err)

	var doc exportedKey
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	require.Equal(t, `HKEY_CURRENT_USER\Software\Vendor`, doc.Name)
	require.Len(t, doc.Values, 7)
	require.Len(t, doc.Keys, 1)
	require.Equal(t, "Sub", doc.Keys[0].Name)
	require.Len(t, doc.Keys[0].Keys, 1)
	require.Equal(t, "Deep", doc.Keys[0].Keys[0].Name)
	require.Equal(t, "Leaf", doc.Keys[0].Keys[0].Values[0].Name)
}

func TestExportCommand_YAMLFile(t *testing.T) {
	seedVendor(t)
	out := filepath.Join(t.TempDir(), "vendor.yaml")
	exportFormat, exportOutput = "yaml", out
	t.Cleanup(func() { exportFormat, exportOutput = "json", "" })

	mustRun(t, runExport, vendorPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc exportedKey
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, `HKEY_CURRENT_USER\Software\Vendor`, doc.Name)
	require.Len(t, doc.Values, 7)
	require.Equal(t, "Sub", doc.Keys[0].Name)
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	useTestStore(t)
	exportFormat = "xml"
	t.Cleanup(func() { exportFormat = "json" })
	require.ErrorContains(t, runExport([]string{vendorPath}), "unknown export format")
}

func TestExportImport_Reg(t *testing.T) {
	seedVendor(t)
	out := filepath.Join(t.TempDir(), "vendor.reg")
	exportFormat, exportOutput = "reg", out
	t.Cleanup(func() { exportFormat, exportOutput = "json", "" })

	mustRun(t, runExport, vendorPath)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assertContains(t, string(data), []string{
		"Windows Registry Editor Version 5.00",
		`[HKEY_CURRENT_USER\Software\Vendor]`,
		`"Version"="1.0"`,
		`"Mask"=dword:ffffffff`,
		`[HKEY_CURRENT_USER\Software\Vendor\Sub\Deep]`,
	})

	deleteKeyRecursive = true
	t.Cleanup(func() { deleteKeyRecursive = false })
	mustRun(t, runDeleteKey, vendorPath)

	mustRun(t, runImport, out)

	output, err := captureOutput(t, func() error {
		return runGet([]string{vendorPath + `\Sub\Deep`, "Leaf"})
	})
	require.NoError(t, err)
	require.Equal(t, "x\n", output)

	output, err = captureOutput(t, func() error {
		return runGet([]string{vendorPath, "Paths"})
	})
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", output)
}

func TestImport_BadFile(t *testing.T) {
	useTestStore(t)
	file := filepath.Join(t.TempDir(), "bad.reg")
	require.NoError(t, os.WriteFile(file, []byte("not a reg file\n"), 0o644))

	err := runImport([]string{file})
	require.ErrorContains(t, err, "failed to parse")
}
