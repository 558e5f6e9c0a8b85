package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/registry/codec"
)

var getNoExpand bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getNoExpand, "no-expand", false, "Print expandable strings without expanding %VAR% references")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path> [name]",
		Short: "Print a value",
		Long: `The get command prints one value of a key. Without a name it prints the
key's default (unnamed) value.

Example:
  regctl get HKCU\\Software\\Vendor Version
  regctl get HKCU\\Environment Path --no-expand
  regctl get HKCU\\Software\\Vendor Version --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) (err error) {
	var name string
	if len(args) > 1 {
		name = args[1]
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.openKey(args[0], false)
	if err != nil {
		return err
	}

	var opts registry.ValueOptions
	if getNoExpand {
		opts |= registry.DoNotExpandEnvironmentNames
	}
	v, err := k.GetValueOptions(name, codec.Value{}, opts)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return fmt.Errorf("value %s does not exist in %s", displayName(name), k.Name())
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path": k.Name(),
			"name": name,
			"type": v.Tag().String(),
			"data": displayData(v),
		})
	}

	printVerbose("%s (%s)\n", displayName(name), v.Tag())
	if ss, ok := v.StringsValue(); ok {
		for _, line := range ss {
			printInfo("%s\n", line)
		}
		return nil
	}
	printInfo("%s\n", v)
	return nil
}
