package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"buildmatrix/internal/security"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads and validates the configuration document from a file.
// JSON is the canonical format; files with a .yaml or .yml extension are
// decoded as YAML (the document shape is identical).
func LoadConfig(configPath string) (Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	if config == nil {
		config = Config{}
	}

	if errors := ValidateConfig(config); len(errors) > 0 {
		return nil, fmt.Errorf("invalid configuration in %s:\n%s",
			configPath, strings.Join(errors, "\n"))
	}

	return config, nil
}

// ValidateConfig validates the whole configuration document and returns
// one message per problem found
func ValidateConfig(config Config) []string {
	var errors []string

	for name, entry := range config {
		if name != DefaultsKey {
			if err := security.ValidateProjectName(name); err != nil {
				errors = append(errors, fmt.Sprintf("  - Project '%s': invalid name: %v", name, err))
			}
		}

		if entry.OSS == nil && entry.Commercial == nil {
			errors = append(errors, fmt.Sprintf("  - Project '%s': no oss or commercial variant configured", name))
			continue
		}

		if entry.OSS != nil {
			errors = append(errors, validateVariant(name, VariantOSS, entry.OSS)...)
		}
		if entry.Commercial != nil {
			errors = append(errors, validateVariant(name, VariantCommercial, entry.Commercial)...)
		}
	}

	return errors
}

// validateVariant checks one configuration profile of one project
func validateVariant(projectName, variantName string, variant *VariantConfig) []string {
	var errors []string

	prefix := fmt.Sprintf("  - Project '%s' (%s)", projectName, variantName)

	seen := map[string]bool{}
	check := func(listName string, branches []string) {
		for _, branch := range branches {
			if err := security.ValidateBranchName(branch); err != nil {
				errors = append(errors, fmt.Sprintf("%s: branches.%s: %v", prefix, listName, err))
				continue
			}
			if seen[branch] {
				continue
			}
			seen[branch] = true

			// Every listed branch must resolve to a non-empty JDK list,
			// either explicitly or through the default entry.
			versions, ok := variant.JDKVersions.ForBranch(branch)
			if !ok || len(versions) == 0 {
				errors = append(errors, fmt.Sprintf("%s: branch '%s' has no JDK versions and no default", prefix, branch))
			}
		}
	}
	check("scheduled", variant.Branches.Scheduled)
	check("default", variant.Branches.Default)

	for branch, versions := range variant.JDKVersions {
		if branch != DefaultKey {
			if err := security.ValidateBranchName(branch); err != nil {
				errors = append(errors, fmt.Sprintf("%s: jdkVersions: %v", prefix, err))
			}
		}
		if len(versions) == 0 {
			errors = append(errors, fmt.Sprintf("%s: jdkVersions['%s'] is empty", prefix, branch))
		}
		for _, v := range versions {
			if strings.TrimSpace(v) == "" {
				errors = append(errors, fmt.Sprintf("%s: jdkVersions['%s'] contains an empty version string", prefix, branch))
			}
		}
	}

	return errors
}
