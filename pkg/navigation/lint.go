package navigation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue describes a configuration problem. Issues never stop rendering: a
// malformed entry simply renders nothing.
type Issue struct {
	Key      string   `json:"key"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Severity, i.Message, i.Key)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("route", validateRoute)
	})
	return validate
}

func validateRoute(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.HasPrefix(value, "/") ||
		strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://")
}

// Lint checks entries against the data model. knownIcon may be nil to skip
// icon checks.
func Lint(entries []Entry, knownIcon func(string) bool) []Issue {
	var issues []Issue
	lintLevel("", entries, knownIcon, &issues)
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func lintLevel(parent string, entries []Entry, knownIcon func(string) bool, issues *[]Issue) {
	keys := siblingKeys(parent, entries)
	names := make(map[string]bool, len(entries))

	for i, entry := range entries {
		key := keys[i]

		lintFields(key, entry, issues)

		if entry.Name != "" {
			if names[entry.Name] {
				*issues = append(*issues, Issue{Key: key, Severity: SeverityError, Message: fmt.Sprintf("duplicate sibling name %q", entry.Name)})
			}
			names[entry.Name] = true
		}

		switch {
		case entry.IsHeader && entry.Href != "":
			*issues = append(*issues, Issue{Key: key, Severity: SeverityWarning, Message: "header entries are not navigable, href is ignored"})
		case !entry.IsHeader && len(entry.Children) > 0:
			*issues = append(*issues, Issue{Key: key, Severity: SeverityWarning, Message: "link entries cannot group children, children are ignored"})
		case !entry.IsHeader && entry.Href == "":
			*issues = append(*issues, Issue{Key: key, Severity: SeverityWarning, Message: "entry has neither href nor isHeader and renders nothing"})
		}

		if knownIcon != nil && entry.Icon != "" && !knownIcon(entry.Icon) {
			*issues = append(*issues, Issue{Key: key, Severity: SeverityWarning, Message: fmt.Sprintf("unknown icon %q", entry.Icon)})
		}

		if entry.IsHeader {
			lintLevel(key, entry.Children, knownIcon, issues)
		}
	}
}

func lintFields(key string, entry Entry, issues *[]Issue) {
	// Children are linted level by level so the struct check stays shallow.
	shallow := entry
	shallow.Children = nil

	err := entryValidator().Struct(shallow)
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		*issues = append(*issues, Issue{Key: key, Severity: SeverityError, Message: err.Error()})
		return
	}

	for _, fieldErr := range validationErrs {
		var message string
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", strings.ToLower(fieldErr.Field()))
		case "route":
			message = fmt.Sprintf("href %q must be an absolute path or http(s) URL", fieldErr.Value())
		default:
			message = fmt.Sprintf("%s failed %s validation", strings.ToLower(fieldErr.Field()), fieldErr.Tag())
		}
		*issues = append(*issues, Issue{Key: key, Severity: SeverityError, Message: message})
	}
}
