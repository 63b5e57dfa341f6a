package matrix

import "fmt"

// InputError reports a malformed caller-supplied value. The resolution
// produced no output.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

// ConfigurationError reports a failed lookup in the configuration document.
// Branch is empty when the project/variant lookup itself failed. The
// resolution produced no output.
type ConfigurationError struct {
	Project string
	Variant Variant
	Branch  string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Branch != "" {
		return fmt.Sprintf("project '%s' (%s): branch '%s': %s", e.Project, e.Variant, e.Branch, e.Reason)
	}
	return fmt.Sprintf("project '%s' (%s): %s", e.Project, e.Variant, e.Reason)
}
