// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Show prints the configuration after merging the config file, environment
variables, and defaults. API keys are listed by name only, never by value.`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if len(loadedSecrets) > 0 {
		keys := make([]string, 0, len(loadedSecrets))
		for k := range loadedSecrets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("\nAPI keys loaded:")
		for _, k := range keys {
			fmt.Printf("  %s: ****\n", k)
		}
	} else {
		fmt.Println("\nNo API keys loaded.")
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
