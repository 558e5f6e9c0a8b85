package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteValueMissingOK bool

func init() {
	cmd := newDeleteValueCmd()
	cmd.Flags().BoolVar(&deleteValueMissingOK, "missing-ok", false, "Succeed when the value does not exist")
	rootCmd.AddCommand(cmd)
}

func newDeleteValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-value <path> <name>",
		Short: "Delete a value",
		Long: `The delete-value command removes one value from a key.

Example:
  regctl delete-value HKCU\\Software\\Vendor Version
  regctl delete-value HKCU\\Software\\Vendor Stale --missing-ok`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteValue(args)
		},
	}
	return cmd
}

func runDeleteValue(args []string) (err error) {
	path, name := args[0], args[1]

	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.openKey(path, true)
	if err != nil {
		return err
	}
	if err := k.DeleteValue(name, !deleteValueMissingOK); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":    k.Name(),
			"name":    name,
			"success": true,
		})
	}
	printVerbose("Deleted %s\\%s\n", k.Name(), displayName(name))
	return nil
}
