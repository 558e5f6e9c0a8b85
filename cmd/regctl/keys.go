package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkey/registry"
)

var keysRecursive bool

func init() {
	cmd := newKeysCmd()
	cmd.Flags().BoolVarP(&keysRecursive, "recursive", "r", false, "List all sub-keys recursively")
	rootCmd.AddCommand(cmd)
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <path>",
		Short: "List the sub-keys of a key",
		Long: `The keys command lists the sub-keys of a key, in store order.

Example:
  regctl keys HKCU\\Software
  regctl keys HKLM --recursive
  regctl keys HKCU\\Software\\Vendor --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	}
	return cmd
}

func runKeys(args []string) (err error) {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.openKey(args[0], false)
	if err != nil {
		return err
	}

	keys, err := listKeys(k, keysRecursive)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":  k.Name(),
			"keys":  keys,
			"count": len(keys),
		})
	}

	for _, key := range keys {
		printInfo("%s\n", key)
	}
	printVerbose("\nTotal: %d keys\n", len(keys))
	return nil
}

// listKeys returns the sub-key names of k, or with recursive set, every
// descendant's path relative to k.
func listKeys(k *registry.Key, recursive bool) ([]string, error) {
	if !recursive {
		return k.SubKeyNames()
	}
	prefix := k.Name() + registry.Separator
	keys := []string{}
	err := k.Walk(func(sub *registry.Key, depth int) error {
		if depth > 0 {
			keys = append(keys, strings.TrimPrefix(sub.Name(), prefix))
		}
		return nil
	})
	return keys, err
}
