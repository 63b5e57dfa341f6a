package main

import (
	"fmt"
	"os"
	"strings"

	"buildmatrix/internal/project"

	"github.com/spf13/cobra"
)

var validateConfigFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a projects configuration file",
	Long: `Load a configuration file and report every problem found: unmapped
branches, empty JDK lists, invalid project or branch names.

Exits non-zero when the configuration is invalid.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", getEnvOrDefault("BUILDMATRIX_CONFIG_FILE", ""), "Path to projects.json configuration file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, err := findConfigFile(validateConfigFile)
	if err != nil {
		return err
	}

	config, err := project.LoadConfig(configFile)
	if err != nil {
		// LoadConfig already lists every problem per project
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("configuration is invalid")
	}

	names := project.NewRegistry(config).List()
	fmt.Printf("%s is valid: %d project(s)\n", configFile, len(names))
	if len(names) > 0 {
		fmt.Printf("  %s\n", strings.Join(names, "\n  "))
	}
	return nil
}
