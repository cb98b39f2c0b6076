package render

import (
	"strings"

	"github.com/goliatone/go-admin/pkg/schema"
)

// ErrorsFromIssues groups validation issues into the Errors map renderers
// consume, keyed by dotted field path. Messages are trimmed and de-duplicated
// while preserving order.
func ErrorsFromIssues(issues []schema.Issue) map[string][]string {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			continue
		}
		if contains(out[issue.Field], message) {
			continue
		}
		out[issue.Field] = append(out[issue.Field], message)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MergeFormErrors concatenates form-level error messages, trimming whitespace
// and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	for _, message := range append(append([]string{}, existing...), extras...) {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" || contains(combined, trimmed) {
			continue
		}
		combined = append(combined, trimmed)
	}
	if len(combined) == 0 {
		return nil
	}
	return combined
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
