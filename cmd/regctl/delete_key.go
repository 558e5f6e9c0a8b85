package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteKeyRecursive bool
	deleteKeyMissingOK bool
)

func init() {
	cmd := newDeleteKeyCmd()
	cmd.Flags().BoolVarP(&deleteKeyRecursive, "recursive", "r", false, "Delete the key with all of its sub-keys")
	cmd.Flags().BoolVar(&deleteKeyMissingOK, "missing-ok", false, "Succeed when the key does not exist")
	rootCmd.AddCommand(cmd)
}

func newDeleteKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-key <path>",
		Short: "Delete a key",
		Long: `The delete-key command removes a key. A key that still has sub-keys is
only removed with --recursive.

Example:
  regctl delete-key HKCU\\Software\\Vendor\\Old
  regctl delete-key HKCU\\Software\\Vendor --recursive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteKey(args)
		},
	}
	return cmd
}

func runDeleteKey(args []string) (err error) {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	parent, name, err := s.parent(args[0])
	if err != nil {
		return err
	}

	if deleteKeyRecursive {
		exists, err := parent.SubKeyExists(name)
		if err != nil {
			return err
		}
		if exists || !deleteKeyMissingOK {
			err = parent.DeleteSubKeyTree(name)
		}
		if err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
	} else if err := parent.DeleteSubKey(name, !deleteKeyMissingOK); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":    args[0],
			"success": true,
		})
	}
	printVerbose("Deleted %s\n", args[0])
	return nil
}
