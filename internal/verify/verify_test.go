package verify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"buildmatrix/internal/project"
)

func TestConfiguredBranches(t *testing.T) {
	variant := &project.VariantConfig{
		Branches: project.BranchConfig{
			Scheduled: []string{"main", "3.3.x"},
			Default:   []string{"main"},
		},
		JDKVersions: project.JDKVersions{
			"main":    {"17"},
			"4.0.x":   {"17", "21"},
			"default": {"17"},
		},
	}

	got := ConfiguredBranches(variant)
	want := []string{"main", "3.3.x", "4.0.x"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestConfiguredBranches_Empty(t *testing.T) {
	variant := &project.VariantConfig{
		JDKVersions: project.JDKVersions{
			"default": {"17"},
		},
	}

	if got := ConfiguredBranches(variant); len(got) != 0 {
		t.Errorf("Expected no branches, got %v", got)
	}
}

// fakeGitHub serves the branches endpoint for a fixed set of branches
func fakeGitHub(t *testing.T, existing map[string]bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/branches/{branch}", func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s/%s@%s", r.PathValue("owner"), r.PathValue("repo"), r.PathValue("branch"))
		if !existing[key] {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Branch not found"}`)
			return
		}
		fmt.Fprintf(w, `{"name": %q}`, r.PathValue("branch"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestBranchExists(t *testing.T) {
	server := fakeGitHub(t, map[string]bool{
		"spring-cloud/spring-cloud-function@main": true,
	})

	client := NewClient("")
	if err := client.WithBaseURL(server.URL); err != nil {
		t.Fatalf("Failed to set base URL: %v", err)
	}

	exists, err := client.BranchExists(context.Background(), "spring-cloud", "spring-cloud-function", "main")
	if err != nil {
		t.Fatalf("BranchExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected branch 'main' to exist")
	}

	exists, err = client.BranchExists(context.Background(), "spring-cloud", "spring-cloud-function", "2.0.x")
	if err != nil {
		t.Fatalf("BranchExists failed for missing branch: %v", err)
	}
	if exists {
		t.Error("Expected branch '2.0.x' to be missing")
	}
}

func TestVerifyConfig(t *testing.T) {
	server := fakeGitHub(t, map[string]bool{
		"spring-cloud/spring-cloud-function@main":             true,
		"spring-cloud/spring-cloud-function-commercial@3.1.x": true,
	})

	config := project.Config{
		"spring-cloud-function": project.Entry{
			OSS: &project.VariantConfig{
				Branches: project.BranchConfig{
					Scheduled: []string{"main", "3.3.x"},
					Default:   []string{"main"},
				},
				JDKVersions: project.JDKVersions{"default": {"17"}},
			},
			Commercial: &project.VariantConfig{
				Branches: project.BranchConfig{
					Scheduled: []string{"3.1.x"},
				},
				JDKVersions: project.JDKVersions{"3.1.x": {"8", "11", "17"}},
			},
		},
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	verifier := NewVerifier("", logger)
	if err := verifier.github.WithBaseURL(server.URL); err != nil {
		t.Fatalf("Failed to set base URL: %v", err)
	}

	findings, err := verifier.VerifyConfig(context.Background(), "spring-cloud", config)
	if err != nil {
		t.Fatalf("VerifyConfig failed: %v", err)
	}

	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d: %v", len(findings), findings)
	}
	if findings[0].Branch != "3.3.x" || findings[0].Variant != "oss" {
		t.Errorf("Unexpected finding: %+v", findings[0])
	}
}
