// Package verify cross-checks the configuration document against live
// GitHub repositories: every branch a variant names should exist in the
// repository it will be built from. All API access is read-only.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"buildmatrix/internal/matrix"
	"buildmatrix/internal/project"
)

// Finding reports one configured branch that does not exist in its repository
type Finding struct {
	Project    string
	Variant    string
	Repository string
	Branch     string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s (%s): branch '%s' not found in %s", f.Project, f.Variant, f.Branch, f.Repository)
}

// Verifier checks configured branches against the GitHub API
type Verifier struct {
	github *Client
	logger *slog.Logger
}

// NewVerifier creates a verifier. An empty token means unauthenticated
// access, which is fine for public repositories.
func NewVerifier(token string, logger *slog.Logger) *Verifier {
	return &Verifier{
		github: NewClient(token),
		logger: logger,
	}
}

// VerifyConfig checks every project in the configuration document and
// returns the branches that do not exist. API errors other than "branch
// not found" abort the run.
func (v *Verifier) VerifyConfig(ctx context.Context, org string, config project.Config) ([]Finding, error) {
	names := config.ProjectNames()
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		entry := config[name]

		if entry.OSS != nil {
			repo := name
			found, err := v.verifyVariant(ctx, org, repo, name, project.VariantOSS, entry.OSS)
			if err != nil {
				return nil, err
			}
			findings = append(findings, found...)
		}
		if entry.Commercial != nil {
			repo := name + matrix.CommercialSuffix
			found, err := v.verifyVariant(ctx, org, repo, name, project.VariantCommercial, entry.Commercial)
			if err != nil {
				return nil, err
			}
			findings = append(findings, found...)
		}
	}

	return findings, nil
}

func (v *Verifier) verifyVariant(ctx context.Context, org, repo, projectName, variantName string, variant *project.VariantConfig) ([]Finding, error) {
	var findings []Finding

	for _, branch := range ConfiguredBranches(variant) {
		exists, err := v.github.BranchExists(ctx, org, repo, branch)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s/%s branch '%s': %w", org, repo, branch, err)
		}
		if !exists {
			findings = append(findings, Finding{
				Project:    projectName,
				Variant:    variantName,
				Repository: fmt.Sprintf("%s/%s", org, repo),
				Branch:     branch,
			})
		}
		v.logger.Debug("checked branch", "repo", fmt.Sprintf("%s/%s", org, repo), "branch", branch, "exists", exists)
	}

	return findings, nil
}

// ConfiguredBranches returns every branch a variant names, deduplicated,
// in first-mention order: the scheduled and default lists, then explicit
// jdkVersions keys (the "default" fallback key is not a branch).
func ConfiguredBranches(variant *project.VariantConfig) []string {
	seen := map[string]bool{}
	var branches []string

	add := func(branch string) {
		if branch == "" || branch == project.DefaultKey || seen[branch] {
			return
		}
		seen[branch] = true
		branches = append(branches, branch)
	}

	for _, b := range variant.Branches.Scheduled {
		add(b)
	}
	for _, b := range variant.Branches.Default {
		add(b)
	}

	keys := make([]string, 0, len(variant.JDKVersions))
	for b := range variant.JDKVersions {
		keys = append(keys, b)
	}
	sort.Strings(keys)
	for _, b := range keys {
		add(b)
	}

	return branches
}
