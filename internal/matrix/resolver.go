package matrix

import (
	"slices"
	"strings"

	"buildmatrix/internal/project"
)

// ScheduledEvent is the GitHub event name for timer-triggered runs
const ScheduledEvent = "schedule"

// JDK versions eligible to be a branch's deploy JDK, in preference order
const (
	jdk8  = "8"
	jdk17 = "17"
)

// Request carries the inputs of one matrix resolution
type Request struct {
	// Repository is the "org/name" repository string.
	Repository string `json:"repository"`
	// EventName is the triggering GitHub event. Only the distinction
	// "is this a scheduled run" matters.
	EventName string `json:"eventName"`
	// RefName is the branch of the current run, used as the single branch
	// to build when the run is not scheduled and no override is given.
	RefName string `json:"refName"`
	// BranchOverride is an optional comma-separated branch list that takes
	// precedence over both the scheduled set and the ref.
	BranchOverride string `json:"branchOverride"`
}

// MatrixEntry is one (branch, JDK version) build unit. HasJdk8 is a
// branch-level flag replicated onto every entry of the branch: downstream
// steps use it to decide whether this entry's JDK is the deploy JDK.
type MatrixEntry struct {
	Branch      string `json:"branch"`
	JavaVersion string `json:"java-version"`
	HasJdk8     bool   `json:"has-jdk8"`
}

// IsDeploy reports whether this entry is the one designated to publish
// artifacts for its branch: JDK 8 when the branch has it, JDK 17 otherwise.
func (e MatrixEntry) IsDeploy() bool {
	if e.HasJdk8 {
		return e.JavaVersion == jdk8
	}
	return e.JavaVersion == jdk17
}

// ResolvedBranch is one branch with its JDK list and deploy JDK.
// DeployJDK is empty when the branch has neither JDK 8 nor 17.
type ResolvedBranch struct {
	Name         string
	JavaVersions []string
	HasJdk8      bool
	DeployJDK    string
}

// Result is a complete matrix resolution. Branches reflects the resolved
// branch list verbatim, comma-joined, duplicates included.
type Result struct {
	Matrix           []MatrixEntry       `json:"matrix"`
	Branches         string              `json:"branches"`
	BranchJdkMapping map[string][]string `json:"branchJdkMapping"`

	ResolvedBranches []ResolvedBranch `json:"-"`
}

// Resolve computes the build matrix for one invocation. It either fully
// succeeds or returns an InputError or ConfigurationError; callers never
// see a partial matrix.
func Resolve(req Request, cfg project.Config) (*Result, error) {
	key, variant, err := ClassifyRepository(req.Repository)
	if err != nil {
		return nil, err
	}

	variantCfg, ok := cfg.Variant(key, variant.String())
	if !ok {
		return nil, &ConfigurationError{
			Project: key,
			Variant: variant,
			Reason:  "no project entry and no applicable default",
		}
	}

	branches, err := branchSet(req, variantCfg)
	if err != nil {
		return nil, err
	}

	var entries []MatrixEntry
	resolved := make([]ResolvedBranch, 0, len(branches))
	mapping := make(map[string][]string, len(branches))

	for _, branch := range branches {
		versions, ok := variantCfg.JDKVersions.ForBranch(branch)
		if !ok || len(versions) == 0 {
			return nil, &ConfigurationError{
				Project: key,
				Variant: variant,
				Branch:  branch,
				Reason:  "no JDK versions configured and no default",
			}
		}

		hasJdk8 := slices.Contains(versions, jdk8)
		resolved = append(resolved, ResolvedBranch{
			Name:         branch,
			JavaVersions: versions,
			HasJdk8:      hasJdk8,
			DeployJDK:    deployJDK(versions, hasJdk8),
		})
		mapping[branch] = versions

		for _, version := range versions {
			entries = append(entries, MatrixEntry{
				Branch:      branch,
				JavaVersion: version,
				HasJdk8:     hasJdk8,
			})
		}
	}

	return &Result{
		Matrix:           entries,
		Branches:         strings.Join(branches, ","),
		BranchJdkMapping: mapping,
		ResolvedBranches: resolved,
	}, nil
}

// branchSet determines the ordered branch list, in priority order:
// explicit override, then the scheduled set on timer runs, then the ref.
func branchSet(req Request, variantCfg *project.VariantConfig) ([]string, error) {
	if strings.TrimSpace(req.BranchOverride) != "" {
		branches := splitOverride(req.BranchOverride)
		if len(branches) == 0 {
			return nil, &InputError{
				Field:  "branchOverride",
				Value:  req.BranchOverride,
				Reason: "contains no branch names",
			}
		}
		return branches, nil
	}

	if req.EventName == ScheduledEvent {
		return variantCfg.Branches.Scheduled, nil
	}

	if req.RefName == "" {
		return nil, &InputError{Field: "refName", Value: req.RefName, Reason: "cannot be empty on non-scheduled runs"}
	}
	return []string{req.RefName}, nil
}

// splitOverride splits a comma-separated override, trimming whitespace.
// Duplicates and unknown branch names pass through verbatim.
func splitOverride(override string) []string {
	var branches []string
	for _, branch := range strings.Split(override, ",") {
		branch = strings.TrimSpace(branch)
		if branch == "" {
			continue
		}
		branches = append(branches, branch)
	}
	return branches
}

func deployJDK(versions []string, hasJdk8 bool) string {
	if hasJdk8 {
		return jdk8
	}
	if slices.Contains(versions, jdk17) {
		return jdk17
	}
	return ""
}
