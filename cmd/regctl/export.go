package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/regkey/internal/regtext"
	"github.com/joshuapare/regkey/registry"
)

var (
	exportFormat string
	exportOutput string
	exportUTF16  bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml, reg)")
	cmd.Flags().BoolVar(&exportUTF16, "utf16", false, "Write .reg output as UTF-16LE with a BOM, as regedit does")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export a key tree as JSON, YAML or a .reg file",
		Long: `The export command writes a key, its values and all of its sub-keys as a
JSON or YAML document, or as regedit .reg text that the import command reads
back. Expandable strings are exported unexpanded and binary data as hex.

Example:
  regctl export HKCU\\Software\\Vendor
  regctl export HKCU\\Software\\Vendor --format yaml -o vendor.yaml
  regctl export HKCU\\Software\\Vendor --format reg -o vendor.reg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
	return cmd
}

// exportedKey is one key of an export document.
type exportedKey struct {
	Name   string         `json:"name"             yaml:"name"`
	Values []valueInfo    `json:"values,omitempty" yaml:"values,omitempty"`
	Keys   []*exportedKey `json:"keys,omitempty"   yaml:"keys,omitempty"`
}

func runExport(args []string) (err error) {
	encode, err := exportEncoder(exportFormat)
	if err != nil {
		return err
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

	if exportOutput == "" {
		return encode(os.Stdout, k)
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return err
	}
	if err := encode(f, k); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printVerbose("Exported %s to %s\n", k.Name(), exportOutput)
	return nil
}

// exportEncoder returns the writer for format.
func exportEncoder(format string) (func(io.Writer, *registry.Key) error, error) {
	if format == "reg" {
		return func(w io.Writer, k *registry.Key) error {
			return regtext.Export(w, k, regtext.ExportOptions{UTF16: exportUTF16})
		}, nil
	}

	marshal, err := documentEncoder(format)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer, k *registry.Key) error {
		doc, err := exportTree(k)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		return marshal(w, doc)
	}, nil
}

func documentEncoder(format string) (func(io.Writer, any) error, error) {
	switch format {
	case "json":
		return func(w io.Writer, v any) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}, nil
	case "yaml", "yml":
		return func(w io.Writer, v any) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// exportTree collects k and all of its descendants.
func exportTree(k *registry.Key) (*exportedKey, error) {
	var root *exportedKey
	var stack []*exportedKey

	err := k.Walk(func(sub *registry.Key, depth int) error {
		values, err := listValues(sub)
		if err != nil {
			return err
		}
		node := &exportedKey{Name: sub.Name(), Values: values}
		if depth > 0 {
			node.Name = lastSegment(node.Name)
			parent := stack[depth-1]
			parent.Keys = append(parent.Keys, node)
		} else {
			root = node
		}
		stack = append(stack[:depth], node)
		return nil
	})
	return root, err
}
