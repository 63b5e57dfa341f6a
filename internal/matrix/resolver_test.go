package matrix

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"buildmatrix/internal/project"
)

// testConfig mirrors a typical projects.json document with one fully
// configured project plus defaults for both variants.
func testConfig() project.Config {
	return project.Config{
		"foo": project.Entry{
			OSS: &project.VariantConfig{
				Branches: project.BranchConfig{
					Scheduled: []string{"main", "3.3.x"},
					Default:   []string{"main"},
				},
				JDKVersions: project.JDKVersions{
					"main":    {"17", "21", "25"},
					"3.3.x":   {"17", "21"},
					"default": {"17", "21", "25"},
				},
			},
			Commercial: &project.VariantConfig{
				Branches: project.BranchConfig{
					Scheduled: []string{"3.1.x"},
					Default:   []string{"main"},
				},
				JDKVersions: project.JDKVersions{
					"3.1.x": {"8", "11", "17"},
				},
			},
		},
		"defaults": project.Entry{
			OSS: &project.VariantConfig{
				Branches: project.BranchConfig{
					Scheduled: []string{"main"},
					Default:   []string{"main"},
				},
				JDKVersions: project.JDKVersions{
					"default": {"17"},
				},
			},
		},
	}
}

func TestResolve_ScheduledEvent(t *testing.T) {
	result, err := Resolve(Request{
		Repository: "spring-cloud/foo",
		EventName:  "schedule",
		RefName:    "main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Branches != "main,3.3.x" {
		t.Errorf("Expected branches 'main,3.3.x', got '%s'", result.Branches)
	}

	want := []MatrixEntry{
		{Branch: "main", JavaVersion: "17"},
		{Branch: "main", JavaVersion: "21"},
		{Branch: "main", JavaVersion: "25"},
		{Branch: "3.3.x", JavaVersion: "17"},
		{Branch: "3.3.x", JavaVersion: "21"},
	}
	if !reflect.DeepEqual(result.Matrix, want) {
		t.Errorf("Unexpected matrix: %+v", result.Matrix)
	}

	for _, entry := range result.Matrix {
		if entry.HasJdk8 {
			t.Errorf("Entry %+v should not have has-jdk8 set", entry)
		}
	}
}

func TestResolve_NonScheduledUsesRef(t *testing.T) {
	result, err := Resolve(Request{
		Repository: "spring-cloud/foo",
		EventName:  "push",
		RefName:    "3.3.x",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Branches != "3.3.x" {
		t.Errorf("Expected single branch '3.3.x', got '%s'", result.Branches)
	}
	if len(result.Matrix) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(result.Matrix))
	}
}

func TestResolve_OverrideTakesPrecedence(t *testing.T) {
	// Override wins over both the scheduled set and the ref
	result, err := Resolve(Request{
		Repository:     "spring-cloud/foo",
		EventName:      "schedule",
		RefName:        "main",
		BranchOverride: "3.3.x",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Branches != "3.3.x" {
		t.Errorf("Expected branches '3.3.x', got '%s'", result.Branches)
	}

	want := []MatrixEntry{
		{Branch: "3.3.x", JavaVersion: "17"},
		{Branch: "3.3.x", JavaVersion: "21"},
	}
	if !reflect.DeepEqual(result.Matrix, want) {
		t.Errorf("Unexpected matrix: %+v", result.Matrix)
	}
}

func TestResolve_OverrideSplitAndTrim(t *testing.T) {
	result, err := Resolve(Request{
		Repository:     "spring-cloud/foo",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: " main , 3.3.x ,main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Duplicates pass through verbatim
	if result.Branches != "main,3.3.x,main" {
		t.Errorf("Expected branches 'main,3.3.x,main', got '%s'", result.Branches)
	}
	if len(result.Matrix) != 8 {
		t.Errorf("Expected 8 entries (3+2+3), got %d", len(result.Matrix))
	}
}

func TestResolve_OverrideUnknownBranchUsesDefaultJdks(t *testing.T) {
	result, err := Resolve(Request{
		Repository:     "spring-cloud/foo",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: "4.0.x",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"17", "21", "25"}
	if !reflect.DeepEqual(result.BranchJdkMapping["4.0.x"], want) {
		t.Errorf("Expected default JDK list for unknown branch, got %v", result.BranchJdkMapping["4.0.x"])
	}
}

func TestResolve_HasJdk8Branch(t *testing.T) {
	result, err := Resolve(Request{
		Repository: "spring-cloud/foo-commercial",
		EventName:  "schedule",
		RefName:    "main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(result.Matrix) != 3 {
		t.Fatalf("Expected 3 entries for 3.1.x, got %d", len(result.Matrix))
	}
	for _, entry := range result.Matrix {
		if !entry.HasJdk8 {
			t.Errorf("Entry %+v should carry has-jdk8", entry)
		}
	}

	// Exactly one entry per branch is the deploy entry
	deployCount := 0
	for _, entry := range result.Matrix {
		if entry.IsDeploy() {
			deployCount++
			if entry.JavaVersion != "8" {
				t.Errorf("Deploy entry should be JDK 8, got %s", entry.JavaVersion)
			}
		}
	}
	if deployCount != 1 {
		t.Errorf("Expected exactly 1 deploy entry, got %d", deployCount)
	}

	if result.ResolvedBranches[0].DeployJDK != "8" {
		t.Errorf("Expected deploy JDK '8', got '%s'", result.ResolvedBranches[0].DeployJDK)
	}
}

func TestResolve_DeployJdk17WhenNo8(t *testing.T) {
	result, err := Resolve(Request{
		Repository: "spring-cloud/foo",
		EventName:  "push",
		RefName:    "main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	deployCount := 0
	for _, entry := range result.Matrix {
		if entry.IsDeploy() {
			deployCount++
			if entry.JavaVersion != "17" {
				t.Errorf("Deploy entry should be JDK 17, got %s", entry.JavaVersion)
			}
		}
	}
	if deployCount != 1 {
		t.Errorf("Expected exactly 1 deploy entry, got %d", deployCount)
	}
}

func TestResolve_CommercialSuffixSelectsCommercialVariant(t *testing.T) {
	// "foo-commercial" must look up config["foo"].commercial, not
	// config["foo-commercial"]
	result, err := Resolve(Request{
		Repository: "spring-cloud/foo-commercial",
		EventName:  "schedule",
		RefName:    "main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Branches != "3.1.x" {
		t.Errorf("Expected commercial scheduled branches '3.1.x', got '%s'", result.Branches)
	}
}

func TestResolve_MissingProjectFallsBackToDefaults(t *testing.T) {
	result, err := Resolve(Request{
		Repository: "spring-cloud/bar",
		EventName:  "schedule",
		RefName:    "main",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if result.Branches != "main" {
		t.Errorf("Expected defaults scheduled branch 'main', got '%s'", result.Branches)
	}
	if !reflect.DeepEqual(result.BranchJdkMapping["main"], []string{"17"}) {
		t.Errorf("Expected defaults JDK list, got %v", result.BranchJdkMapping["main"])
	}
}

func TestResolve_MissingProjectAndDefaultFails(t *testing.T) {
	// The testConfig has no commercial defaults
	_, err := Resolve(Request{
		Repository: "spring-cloud/bar-commercial",
		EventName:  "push",
		RefName:    "main",
	}, testConfig())
	if err == nil {
		t.Fatal("Expected configuration error")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %T", err)
	}
	if cfgErr.Project != "bar" || cfgErr.Variant != VariantCommercial {
		t.Errorf("Error should name the project and variant, got %+v", cfgErr)
	}
}

func TestResolve_MissingJdkMappingFails(t *testing.T) {
	// Commercial variant has no default JDK entry, so an override naming
	// an unmapped branch must fail naming that branch
	_, err := Resolve(Request{
		Repository:     "spring-cloud/foo-commercial",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: "2.0.x",
	}, testConfig())
	if err == nil {
		t.Fatal("Expected configuration error")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %T", err)
	}
	if cfgErr.Branch != "2.0.x" {
		t.Errorf("Error should name the branch, got '%s'", cfgErr.Branch)
	}
	if !strings.Contains(err.Error(), "2.0.x") {
		t.Errorf("Error message should contain the branch name: %v", err)
	}
}

func TestResolve_MalformedRepository(t *testing.T) {
	cases := []string{"", "no-slash", "too/many/slashes", "/", "org/"}

	for _, repository := range cases {
		_, err := Resolve(Request{
			Repository: repository,
			EventName:  "push",
			RefName:    "main",
		}, testConfig())
		if err == nil {
			t.Errorf("Expected input error for repository '%s'", repository)
			continue
		}

		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("Expected InputError for '%s', got %T", repository, err)
		}
	}
}

func TestResolve_EmptyRefOnPushFails(t *testing.T) {
	_, err := Resolve(Request{
		Repository: "spring-cloud/foo",
		EventName:  "push",
	}, testConfig())
	if err == nil {
		t.Fatal("Expected input error for empty ref")
	}

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected InputError, got %T", err)
	}
	if inputErr.Field != "refName" {
		t.Errorf("Error should name refName, got '%s'", inputErr.Field)
	}
}

func TestResolve_OverrideWithOnlySeparatorsFails(t *testing.T) {
	_, err := Resolve(Request{
		Repository:     "spring-cloud/foo",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: " , ,",
	}, testConfig())
	if err == nil {
		t.Fatal("Expected input error for override with no branch names")
	}

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected InputError, got %T", err)
	}
}

func TestResolve_MatrixSizeMatchesJdkLists(t *testing.T) {
	result, err := Resolve(Request{
		Repository:     "spring-cloud/foo",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: "main,3.3.x",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	total := 0
	for _, versions := range result.BranchJdkMapping {
		total += len(versions)
	}
	if len(result.Matrix) != total {
		t.Errorf("Matrix size %d does not match sum of JDK lists %d", len(result.Matrix), total)
	}
}

func TestResolve_HasJdk8ConsistentPerBranch(t *testing.T) {
	result, err := Resolve(Request{
		Repository:     "spring-cloud/foo-commercial",
		EventName:      "push",
		RefName:        "main",
		BranchOverride: "3.1.x",
	}, testConfig())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	perBranch := map[string]bool{}
	for i, entry := range result.Matrix {
		flag, seen := perBranch[entry.Branch]
		if seen && flag != entry.HasJdk8 {
			t.Errorf("Entry %d: has-jdk8 differs within branch '%s'", i, entry.Branch)
		}
		perBranch[entry.Branch] = entry.HasJdk8
	}
	if !perBranch["3.1.x"] {
		t.Error("Branch 3.1.x contains JDK 8 but has-jdk8 is not set")
	}
}
