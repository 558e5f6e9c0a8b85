package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkey/internal/logger"
	"github.com/joshuapare/regkey/internal/regtext"
	"github.com/joshuapare/regkey/registry"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.reg>",
		Short: "Apply a regedit .reg file",
		Long: `The import command applies the keys and values of a .reg file to the
store. [-Key] sections and "name"=- lines delete; deleting something that does
not exist is not an error.

Example:
  regctl import vendor.reg
  regctl import vendor.reg --db other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args)
		},
	}
	return cmd
}

func runImport(args []string) (err error) {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	ops, err := regtext.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	if err := regtext.Apply(s.store, ops, registry.WithLogger(logger.L)); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":       args[0],
			"operations": len(ops),
			"success":    true,
		})
	}
	printVerbose("Applied %d operations from %s\n", len(ops), args[0])
	return nil
}
