package shape

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an Issue.
type Code string

const (
	// CodeInvalidType indicates a value of the wrong JSON type.
	CodeInvalidType Code = "invalid_type"
	// CodeMissingKey indicates a required object key is absent.
	CodeMissingKey Code = "missing_key"
	// CodeUnknownKey indicates an object key the schema does not declare.
	CodeUnknownKey Code = "unknown_key"
	// CodeInvalidDiscriminant indicates a union discriminant is missing or
	// names no variant allowed at this position.
	CodeInvalidDiscriminant Code = "invalid_discriminant"
	// CodeInvalidEnumValue indicates a string outside an enumeration.
	CodeInvalidEnumValue Code = "invalid_enum_value"
	// CodeInvariant indicates a structural rule was broken.
	CodeInvariant Code = "invariant_violation"
)

// Issue describes a single violation.
type Issue struct {
	Code     Code
	Path     Path
	Message  string
	Expected []string
	Actual   string
}

func (issue *Issue) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s at %s", issue.Code, issue.Message, issue.Path)
	if len(issue.Expected) > 0 {
		fmt.Fprintf(&sb, " (expected: %s)", strings.Join(issue.Expected, ", "))
	}
	if issue.Actual != "" {
		fmt.Fprintf(&sb, " (actual: %s)", issue.Actual)
	}
	return sb.String()
}

// Issues is the error returned when a value does not match a Schema. Issues
// are ordered depth-first over the value, object keys in declaration order.
type Issues []Issue

func (issues Issues) Error() string {
	switch len(issues) {
	case 0:
		return "no issues"
	case 1:
		return issues[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", issues[0].Error(), len(issues)-1)
	}
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var issues Issues
	if errors.As(err, &issues) {
		return issues, true
	}
	return nil, false
}
