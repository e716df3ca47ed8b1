package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeJSON prints v for scripts. Every --json flag routes through here so
// the indentation stays stable.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// addStructuredFlags registers the mutually exclusive --json and --yaml
// flags used by the listing commands.
func addStructuredFlags(cmd *cobra.Command, jsonOut, yamlOut *bool, what string) {
	cmd.Flags().BoolVar(jsonOut, "json", false, "Print "+what+" as JSON")
	cmd.Flags().BoolVar(yamlOut, "yaml", false, "Print "+what+" as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}
