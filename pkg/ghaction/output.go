// Package ghaction writes step outputs in the format GitHub Actions
// expects: key=value lines appended to the file named by $GITHUB_OUTPUT,
// with the heredoc delimiter form for multiline values.
package ghaction

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// OutputFileEnv is the environment variable naming the runner's output file
const OutputFileEnv = "GITHUB_OUTPUT"

// Writer appends step outputs to a GitHub Actions output file
type Writer struct {
	w io.Writer
}

// NewWriter wraps an already-open output destination
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// OpenDefault opens the file named by $GITHUB_OUTPUT for appending.
// The caller must close the returned file.
func OpenDefault() (*Writer, *os.File, error) {
	path := os.Getenv(OutputFileEnv)
	if path == "" {
		return nil, nil, fmt.Errorf("%s is not set", OutputFileEnv)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return NewWriter(file), file, nil
}

// Set writes one output. Single-line values use the key=value form;
// values containing a newline use the delimiter form.
func (o *Writer) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("output key cannot be empty")
	}
	if strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("output key '%s' contains invalid characters", key)
	}

	if !strings.Contains(value, "\n") {
		_, err := fmt.Fprintf(o.w, "%s=%s\n", key, value)
		return err
	}

	delimiter, err := randomDelimiter()
	if err != nil {
		return err
	}
	if strings.Contains(value, delimiter) {
		return fmt.Errorf("value collides with generated delimiter")
	}

	_, err = fmt.Fprintf(o.w, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	return err
}

// randomDelimiter generates a unique heredoc delimiter, mirroring what
// actions/toolkit does to prevent delimiter injection through values.
func randomDelimiter() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(buf), nil
}
