package main

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry/codec"
)

var setType string

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVarP(&setType, "type", "t", "sz", "Value type (sz, expand_sz, dword, multi_sz, binary)")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <path> <name> [data...]",
		Short: "Set a value, creating the key if needed",
		Long: `The set command writes a value. Missing keys along the path are created.
Use "" as the name for the key's default value.

dword data accepts decimal, 0x hex or 0 octal and may be signed or unsigned.
binary data is hex; spaces and colons between bytes are ignored.
multi_sz takes one argument per string.

Example:
  regctl set HKCU\\Software\\Vendor Version 1.0.0
  regctl set HKCU\\Software\\Vendor Enabled 0x1 --type dword
  regctl set HKCU\\Software\\Vendor Paths a b c --type multi_sz
  regctl set HKCU\\Software\\Vendor Blob "de ad be ef" --type binary`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func runSet(args []string) (err error) {
	path, name, data := args[0], args[1], args[2:]

	kind, err := types.ParseRegType(setType)
	if err != nil {
		return err
	}
	v, err := parseValue(kind, data)
	if err != nil {
		return fmt.Errorf("failed to parse value: %w", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.createKey(path)
	if err != nil {
		return err
	}
	if err := k.SetValueKind(name, v, kind); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":    k.Name(),
			"name":    name,
			"type":    kind.String(),
			"success": true,
		})
	}

	printVerbose("Set %s\\%s (%s) = %s\n", k.Name(), displayName(name), kind, v)
	return nil
}

// parseValue builds a value of kind from command-line arguments.
func parseValue(kind types.RegType, data []string) (codec.Value, error) {
	if kind != types.REG_MULTI_SZ && len(data) != 1 {
		return codec.Value{}, fmt.Errorf("%s takes exactly one data argument, got %d", kind, len(data))
	}

	switch kind {
	case types.REG_SZ:
		return codec.String(data[0]), nil
	case types.REG_EXPAND_SZ:
		return codec.ExpandString(data[0]), nil
	case types.REG_MULTI_SZ:
		return codec.Strings(data...), nil
	case types.REG_DWORD:
		n, err := strconv.ParseInt(data[0], 0, 64)
		if err != nil {
			return codec.Value{}, err
		}
		if n < math.MinInt32 || n > math.MaxUint32 {
			return codec.Value{}, fmt.Errorf("%s does not fit in 32 bits", data[0])
		}
		return codec.Int32(int32(uint32(n))), nil
	case types.REG_BINARY:
		b, err := hex.DecodeString(strings.NewReplacer(" ", "", ":", "").Replace(data[0]))
		if err != nil {
			return codec.Value{}, err
		}
		return codec.Bytes(b), nil
	}
	return codec.Value{}, fmt.Errorf("cannot set %s values", kind)
}
