package verify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client is a thin read-only wrapper over the GitHub API
type Client struct {
	gh *github.Client
}

// NewClient creates a GitHub client, authenticated when a token is given
func NewClient(token string) *Client {
	if token == "" {
		return &Client{gh: github.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{gh: github.NewClient(tc)}
}

// WithBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) WithBaseURL(baseURL string) error {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// BranchExists reports whether a branch exists in the given repository.
// A 404 from the API is a clean "no"; other errors are returned.
func (c *Client) BranchExists(ctx context.Context, owner, repo, branch string) (bool, error) {
	_, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 0)
	if err == nil {
		return true, nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	return false, err
}
