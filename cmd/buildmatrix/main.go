package main

import (
	"fmt"
	"os"

	"buildmatrix/pkg/fileutil"

	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "buildmatrix",
	Short: "CI build-matrix resolution for Maven project repositories",
	Long: `Buildmatrix computes GitHub Actions build matrices for Maven-based projects.

Given a repository, a triggering event and a versioned configuration document it
resolves the branches to build, the JDK versions per branch and the designated
deploy JDK, and emits the result in the formats a workflow consumes.`,
	Version: version,
}

// Custom usage template that encourages 'help' subcommand pattern
const usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

Additional Commands:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} help [command]" for more information about a command.{{end}}
`

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Set custom usage template to encourage 'help' subcommand pattern
	rootCmd.SetUsageTemplate(usageTemplate)

	// Register subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Helper functions for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// findConfigFile resolves the config path: explicit flag first, then the
// default search locations for both supported formats.
func findConfigFile(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	var searchPaths []string
	for _, name := range []string{"projects.json", "projects.yaml"} {
		searchPaths = append(searchPaths, fileutil.DefaultConfigPaths(name)...)
	}
	found := fileutil.SearchPathsOptional(searchPaths)
	if found == "" {
		fmt.Fprintf(os.Stderr, "Error: No configuration file found in default locations:\n")
		for _, path := range searchPaths {
			fmt.Fprintf(os.Stderr, "  - %s\n", path)
		}
		fmt.Fprintf(os.Stderr, "Use --config flag to specify a custom location\n")
		return "", fmt.Errorf("configuration file not found")
	}
	return found, nil
}
