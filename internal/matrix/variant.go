package matrix

import (
	"strings"

	"buildmatrix/internal/project"
)

// Variant tags a repository as OSS or commercial
type Variant string

const (
	VariantOSS        Variant = project.VariantOSS
	VariantCommercial Variant = project.VariantCommercial
)

// CommercialSuffix marks a repository as the commercial build of a project
const CommercialSuffix = "-commercial"

func (v Variant) String() string {
	return string(v)
}

// ClassifyRepository derives the configuration lookup key and variant from
// an "org/name" repository string. A name ending in "-commercial" selects
// the commercial variant and the suffix is stripped for the lookup key.
func ClassifyRepository(repository string) (string, Variant, error) {
	if repository == "" {
		return "", "", &InputError{Field: "repository", Value: repository, Reason: "cannot be empty"}
	}
	if strings.Count(repository, "/") != 1 {
		return "", "", &InputError{Field: "repository", Value: repository, Reason: "must have the form 'org/name'"}
	}

	name := repository[strings.Index(repository, "/")+1:]
	if name == "" {
		return "", "", &InputError{Field: "repository", Value: repository, Reason: "repository name is empty"}
	}

	if key, ok := strings.CutSuffix(name, CommercialSuffix); ok && key != "" {
		return key, VariantCommercial, nil
	}
	return name, VariantOSS, nil
}
