package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"buildmatrix/internal/matrix"
	"buildmatrix/internal/project"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

// Default Maven invocations per entry kind. Overridable for repositories
// with nonstandard build entry points.
const (
	defaultBuildCommand  = "./mvnw clean install -B -U"
	defaultDeployCommand = "./mvnw clean deploy -B -U -Pdocs"
)

var (
	planConfigFile    string
	planBuildCommand  string
	planDeployCommand string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the per-entry build commands a workflow would run",
	Long: `Resolve the build matrix and print, per matrix entry, the Maven command
the workflow would run: the deploy command on each branch's deploy-JDK entry
and the plain build command everywhere else.

Nothing is executed; this is a dry run for debugging workflow behavior.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planConfigFile, "config", "c", getEnvOrDefault("BUILDMATRIX_CONFIG_FILE", ""), "Path to projects.json configuration file")
	planCmd.Flags().StringVar(&repository, "repository", getEnvOrDefault("GITHUB_REPOSITORY", ""), "Repository in org/name form")
	planCmd.Flags().StringVar(&eventName, "event", getEnvOrDefault("GITHUB_EVENT_NAME", ""), "Triggering event name")
	planCmd.Flags().StringVar(&refName, "ref", getEnvOrDefault("GITHUB_REF_NAME", ""), "Branch of the current run")
	planCmd.Flags().StringVar(&branchOverride, "branches", getEnvOrDefault("BUILDMATRIX_BRANCHES", ""), "Comma-separated branch override")
	planCmd.Flags().StringVar(&planBuildCommand, "build-command", getEnvOrDefault("BUILDMATRIX_BUILD_COMMAND", defaultBuildCommand), "Build command template")
	planCmd.Flags().StringVar(&planDeployCommand, "deploy-command", getEnvOrDefault("BUILDMATRIX_DEPLOY_COMMAND", defaultDeployCommand), "Deploy command template")
}

func runPlan(cmd *cobra.Command, args []string) error {
	configFile, err := findConfigFile(planConfigFile)
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
		return err
	}

	// Validate both templates up front so a quoting mistake fails the
	// whole plan, not one row of it.
	buildWords, err := shellquote.Split(planBuildCommand)
	if err != nil {
		return fmt.Errorf("invalid build command template: %w", err)
	}
	deployWords, err := shellquote.Split(planDeployCommand)
	if err != nil {
		return fmt.Errorf("invalid deploy command template: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tJDK\tROLE\tCOMMAND")
	for _, entry := range result.Matrix {
		role := "build"
		words := buildWords
		if entry.IsDeploy() {
			role = "deploy"
			words = deployWords
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Branch, entry.JavaVersion, role, shellquote.Join(words...))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d entries across branches: %s\n", len(result.Matrix), strings.ReplaceAll(result.Branches, ",", ", "))
	return nil
}
