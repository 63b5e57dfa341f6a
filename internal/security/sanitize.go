package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Safe patterns for validation
	branchPattern  = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)
	projectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateBranchName ensures a branch name is safe to pass to downstream
// checkout and build steps.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("branch name cannot start with '-'")
	}
	if strings.HasPrefix(branch, "/") {
		return fmt.Errorf("branch name cannot start with '/'")
	}
	// The character set alone would admit path traversal
	for _, segment := range strings.Split(branch, "/") {
		if segment == ".." {
			return fmt.Errorf("branch name cannot contain '..' path segments")
		}
	}
	if !branchPattern.MatchString(branch) {
		return fmt.Errorf("branch name contains invalid characters")
	}
	return nil
}

// ValidateProjectName ensures a project name is safe for use in paths and URLs.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with '-' or '.'")
	}
	if !projectPattern.MatchString(name) {
		return fmt.Errorf("project name contains invalid characters (only a-z, A-Z, 0-9, _, - allowed)")
	}
	return nil
}

// ValidateRepository ensures a repository string has the "org/name" form
// with safe characters in both halves.
func ValidateRepository(repository string) error {
	if repository == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	if strings.Count(repository, "/") != 1 {
		return fmt.Errorf("repository must have the form 'org/name'")
	}
	parts := strings.SplitN(repository, "/", 2)
	for _, part := range parts {
		if err := ValidateProjectName(part); err != nil {
			return fmt.Errorf("repository segment '%s' invalid: %w", part, err)
		}
	}
	return nil
}
