package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/joshuapare/regkey/registry"
)

var (
	treeDepth  int
	treeValues bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 3, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Show values too")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <path>",
		Short: "Display the key hierarchy",
		Long: `The tree command displays the keys below a path as a tree.

Example:
  regctl tree HKCU\\Software
  regctl tree HKLM --depth 1
  regctl tree HKCU\\Software\\Vendor --values --depth 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

func runTree(args []string) (err error) {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = closeSession(s, err) }()

	k, err := s.openKey(args[0], false)
	if err != nil {
		return err
	}

	tree, err := buildTree(k, treeDepth, treeValues)
	if err != nil {
		return fmt.Errorf("failed to display tree: %w", err)
	}
	printInfo("%s", tree.String())
	return nil
}

// buildTree renders k and its descendants down to maxDepth levels below it.
func buildTree(k *registry.Key, maxDepth int, withValues bool) (treeprint.Tree, error) {
	root := treeprint.New()
	branches := []treeprint.Tree{root}

	err := k.Walk(func(sub *registry.Key, depth int) error {
		name := sub.Name()
		if depth > 0 {
			name = lastSegment(name)
		}
		branch := branches[depth].AddBranch(name)
		branches = append(branches[:depth+1], branch)

		if withValues {
			values, err := listValues(sub)
			if err != nil {
				return err
			}
			for _, v := range values {
				branch.AddNode(fmt.Sprintf("%s = %v (%s)", displayName(v.Name), v.Data, v.Type))
			}
		}

		if maxDepth > 0 && depth >= maxDepth {
			return registry.SkipKey
		}
		return nil
	})
	return root, err
}

func lastSegment(path string) string {
	segs := registry.SplitName(path)
	if len(segs) == 0 {
		return path
	}
	return segs[len(segs)-1]
}
