package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/registry/codec"
)

func init() {
	rootCmd.AddCommand(newValuesCmd())
}

func newValuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values <path>",
		Short: "List the values of a key",
		Long: `The values command lists every value of a key with its type, stored
size and data. Expandable strings are shown unexpanded.

Example:
  regctl values HKCU\\Software\\Vendor
  regctl values HKCU\\Software\\Vendor --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	}
	return cmd
}

// valueInfo is one row of the values listing.
type valueInfo struct {
	Name string `json:"name"           yaml:"name"`
	Type string `json:"type"           yaml:"type"`
	Size int    `json:"size,omitempty" yaml:"size,omitempty"`
	Data any    `json:"data"           yaml:"data"`
}

func runValues(args []string) (err error) {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.openKey(args[0], false)
	if err != nil {
		return err
	}

	values, err := listValues(k)
	if err != nil {
		return fmt.Errorf("failed to list values: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":   k.Name(),
			"values": values,
			"count":  len(values),
		})
	}

	for _, v := range values {
		printInfo("%-24s %-14s %8s  %v\n", displayName(v.Name), v.Type, humanize.Bytes(uint64(v.Size)), v.Data)
	}
	printVerbose("\nTotal: %d values\n", len(values))
	return nil
}

func listValues(k *registry.Key) ([]valueInfo, error) {
	names, err := k.ValueNames()
	if err != nil {
		return nil, err
	}
	values := make([]valueInfo, 0, len(names))
	for _, name := range names {
		v, err := k.GetValueOptions(name, codec.Value{}, registry.DoNotExpandEnvironmentNames)
		if errors.Is(err, types.ErrUnsupportedType) {
			tag, err := k.GetValueKind(name)
			if err != nil {
				return nil, err
			}
			values = append(values, valueInfo{Name: name, Type: tag.String(), Data: "<unsupported>"})
			continue
		}
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			// deleted since the names were read
			continue
		}
		tag, raw, err := codec.Encode(v)
		if err != nil {
			return nil, err
		}
		values = append(values, valueInfo{Name: name, Type: tag.String(), Size: len(raw), Data: displayData(v)})
	}
	return values, nil
}

// displayName renders the unnamed default value the way regedit does.
func displayName(name string) string {
	if name == "" {
		return "(Default)"
	}
	return name
}

// displayData is the printable payload of v. Binary data is rendered as hex.
func displayData(v codec.Value) any {
	if _, ok := v.BytesValue(); ok {
		return v.String()
	}
	return v.Interface()
}
