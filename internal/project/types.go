package project

// Config is the full project configuration document. Top-level keys are
// project names, plus the literal "defaults" entry holding fallback variants.
type Config map[string]Entry

// Entry holds the per-variant configuration for one project
type Entry struct {
	OSS        *VariantConfig `json:"oss,omitempty" yaml:"oss,omitempty"`
	Commercial *VariantConfig `json:"commercial,omitempty" yaml:"commercial,omitempty"`
}

// VariantConfig is one OSS or commercial configuration profile
type VariantConfig struct {
	Branches    BranchConfig `json:"branches" yaml:"branches"`
	JDKVersions JDKVersions  `json:"jdkVersions" yaml:"jdkVersions"`
}

// BranchConfig lists the branches to build per trigger kind
type BranchConfig struct {
	// Scheduled is the ordered branch list for timer-triggered runs.
	Scheduled []string `json:"scheduled" yaml:"scheduled"`
	// Default is the repository's primary branch list, informational for
	// non-scheduled runs (the actual ref being built is used instead).
	Default []string `json:"default" yaml:"default"`
}

// JDKVersions maps a branch name to its ordered JDK version list. The
// literal "default" key is the fallback for branches with no explicit entry.
type JDKVersions map[string][]string

const (
	// DefaultsKey is the top-level config entry holding fallback variants
	DefaultsKey = "defaults"

	// DefaultKey is the fallback entry inside a jdkVersions mapping
	DefaultKey = "default"
)

// VariantOSS and VariantCommercial name the two configuration profiles.
const (
	VariantOSS        = "oss"
	VariantCommercial = "commercial"
)

// ForBranch returns the JDK list for a branch, falling back to the
// "default" entry. The second return is false when neither exists.
func (j JDKVersions) ForBranch(branch string) ([]string, bool) {
	if versions, ok := j[branch]; ok {
		return versions, true
	}
	if versions, ok := j[DefaultKey]; ok {
		return versions, true
	}
	return nil, false
}

// variant returns the named profile of this entry, or nil
func (e Entry) variant(name string) *VariantConfig {
	switch name {
	case VariantOSS:
		return e.OSS
	case VariantCommercial:
		return e.Commercial
	}
	return nil
}

// Variant looks up a project's configuration profile. A missing project
// entry (or a project entry without the requested profile) falls back to
// the "defaults" entry. The second return is false when no profile applies.
func (c Config) Variant(projectName, variantName string) (*VariantConfig, bool) {
	if entry, ok := c[projectName]; ok {
		if v := entry.variant(variantName); v != nil {
			return v, true
		}
	}
	if defaults, ok := c[DefaultsKey]; ok {
		if v := defaults.variant(variantName); v != nil {
			return v, true
		}
	}
	return nil, false
}

// ProjectNames returns all configured project names, excluding "defaults"
func (c Config) ProjectNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		if name == DefaultsKey {
			continue
		}
		names = append(names, name)
	}
	return names
}
