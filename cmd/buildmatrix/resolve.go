package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"buildmatrix/internal/matrix"
	"buildmatrix/internal/project"
	"buildmatrix/pkg/ghaction"

	"github.com/spf13/cobra"
)

var (
	resolveConfigFile string
	repository        string
	eventName         string
	refName           string
	branchOverride    string
	outputFormat      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the build matrix for one invocation",
	Long: `Resolve the build matrix for a repository and triggering event.

With --output github the matrix, branches and branch-jdk-mapping outputs are
appended to the file named by $GITHUB_OUTPUT, ready for fromJSON() in a
workflow. With --output json the full result is printed to stdout.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveConfigFile, "config", "c", getEnvOrDefault("BUILDMATRIX_CONFIG_FILE", ""), "Path to projects.json configuration file")
	resolveCmd.Flags().StringVar(&repository, "repository", getEnvOrDefault("GITHUB_REPOSITORY", ""), "Repository in org/name form")
	resolveCmd.Flags().StringVar(&eventName, "event", getEnvOrDefault("GITHUB_EVENT_NAME", ""), "Triggering event name")
	resolveCmd.Flags().StringVar(&refName, "ref", getEnvOrDefault("GITHUB_REF_NAME", ""), "Branch of the current run")
	resolveCmd.Flags().StringVar(&branchOverride, "branches", getEnvOrDefault("BUILDMATRIX_BRANCHES", ""), "Comma-separated branch override")
	resolveCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or github")
}

func runResolve(cmd *cobra.Command, args []string) error {
	configFile, err := findConfigFile(resolveConfigFile)
	if err != nil {
		return err
	}

	config, err := project.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	result, err := matrix.Resolve(matrix.Request{
		Repository:     repository,
		EventName:      eventName,
		RefName:        refName,
		BranchOverride: branchOverride,
	}, config)
	if err != nil {
		var inputErr *matrix.InputError
		var cfgErr *matrix.ConfigurationError
		switch {
		case errors.As(err, &inputErr):
			return fmt.Errorf("invalid input: %w", err)
		case errors.As(err, &cfgErr):
			return fmt.Errorf("configuration error: %w", err)
		}
		return err
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "github":
		return writeGitHubOutputs(result)
	default:
		return fmt.Errorf("unknown output format '%s' (expected json or github)", outputFormat)
	}
}

// writeGitHubOutputs appends the resolver outputs to $GITHUB_OUTPUT
func writeGitHubOutputs(result *matrix.Result) error {
	writer, file, err := ghaction.OpenDefault()
	if err != nil {
		return err
	}
	defer file.Close()

	matrixJSON, err := json.Marshal(result.Matrix)
	if err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}
	mappingJSON, err := json.Marshal(result.BranchJdkMapping)
	if err != nil {
		return fmt.Errorf("failed to encode branch-jdk-mapping: %w", err)
	}

	if err := writer.Set("matrix", string(matrixJSON)); err != nil {
		return err
	}
	if err := writer.Set("branches", result.Branches); err != nil {
		return err
	}
	return writer.Set("branch-jdk-mapping", string(mappingJSON))
}
