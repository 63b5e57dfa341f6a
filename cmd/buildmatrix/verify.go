package main

import (
	"fmt"
	"log/slog"
	"os"

	"buildmatrix/internal/project"
	"buildmatrix/internal/verify"

	"github.com/spf13/cobra"
)

var (
	verifyConfigFile string
	verifyOrg        string
	verifyToken      string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check configured branches against live GitHub repositories",
	Long: `Verify that every branch named in the configuration exists in the
repository it will be built from. Commercial variants are checked against
the -commercial repository.

Uses the GitHub API read-only; set --token (or GITHUB_TOKEN) for private
repositories and higher rate limits.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyConfigFile, "config", "c", getEnvOrDefault("BUILDMATRIX_CONFIG_FILE", ""), "Path to projects.json configuration file")
	verifyCmd.Flags().StringVar(&verifyOrg, "org", getEnvOrDefault("BUILDMATRIX_ORG", "spring-cloud"), "GitHub organization the repositories live in")
	verifyCmd.Flags().StringVar(&verifyToken, "token", os.Getenv("GITHUB_TOKEN"), "GitHub API token")
}

func runVerify(cmd *cobra.Command, args []string) error {
	configFile, err := findConfigFile(verifyConfigFile)
	if err != nil {
		return err
	}

	config, err := project.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	verifier := verify.NewVerifier(verifyToken, logger)

	findings, err := verifier.VerifyConfig(cmd.Context(), verifyOrg, config)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if len(findings) == 0 {
		fmt.Printf("All configured branches exist in %s\n", verifyOrg)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%d configured branch(es) not found:\n", len(findings))
	for _, finding := range findings {
		fmt.Fprintf(os.Stderr, "  - %s\n", finding)
	}
	return fmt.Errorf("configuration references missing branches")
}
