package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule validates one field's value. The concrete implementations form a
// closed set; Check returns every issue found, using the field's dotted path.
type Rule interface {
	Check(path string, value any) []Issue
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CustomRule wraps a descriptor's explicit validation function. The function
// runs verbatim on every value, empty ones included, so it can implement its
// own presence or emptiness logic; Required only adds the standard presence
// check on top.
type CustomRule struct {
	Label    string
	Required bool
	Func     func(value any) error
}

func (r CustomRule) Check(path string, value any) []Issue {
	var issues []Issue
	if r.Required && isEmpty(value) {
		issues = append(issues, requiredIssue(path, r.Label))
	}
	if r.Func != nil {
		if err := r.Func(value); err != nil {
			issues = append(issues, Issue{Field: path, Message: err.Error()})
		}
	}
	return issues
}

// StringRule validates text-like fields: presence, length bounds, optional
// regexp, optional email format.
type StringRule struct {
	Label     string
	Required  bool
	MinLength *int
	MaxLength *int
	Pattern   *regexp.Regexp
	Email     bool
}

func (r StringRule) Check(path string, value any) []Issue {
	text, ok := stringValue(value)
	if !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must be text", r.Label)}}
	}
	if strings.TrimSpace(text) == "" {
		if r.Required {
			return []Issue{requiredIssue(path, r.Label)}
		}
		return nil
	}

	var issues []Issue
	if r.MinLength != nil && len([]rune(text)) < *r.MinLength {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must be at least %d characters", r.Label, *r.MinLength)})
	}
	if r.MaxLength != nil && len([]rune(text)) > *r.MaxLength {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must be at most %d characters", r.Label, *r.MaxLength)})
	}
	if r.Email && !emailPattern.MatchString(text) {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must be a valid email address", r.Label)})
	}
	if r.Pattern != nil && !r.Pattern.MatchString(text) {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s has an invalid format", r.Label)})
	}
	return issues
}

// NumberRule validates numeric fields with optional inclusive bounds.
type NumberRule struct {
	Label    string
	Required bool
	Min      *float64
	Max      *float64
}

func (r NumberRule) Check(path string, value any) []Issue {
	if isEmpty(value) {
		if r.Required {
			return []Issue{requiredIssue(path, r.Label)}
		}
		return nil
	}

	number, ok := numberValue(value)
	if !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must be a number", r.Label)}}
	}

	var issues []Issue
	if r.Min != nil && number < *r.Min {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must be at least %s", r.Label, formatNumber(*r.Min))})
	}
	if r.Max != nil && number > *r.Max {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must be at most %s", r.Label, formatNumber(*r.Max))})
	}
	return issues
}

// BoolRule validates checkbox fields. Absent values read as false, so a
// checkbox never fails a presence check.
type BoolRule struct {
	Label string
}

func (r BoolRule) Check(path string, value any) []Issue {
	if isEmpty(value) {
		return nil
	}
	if _, ok := boolValue(value); !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must be true or false", r.Label)}}
	}
	return nil
}

// StringListRule validates multiselect fields as arrays of strings.
type StringListRule struct {
	Label    string
	Required bool
}

func (r StringListRule) Check(path string, value any) []Issue {
	if isEmpty(value) {
		if r.Required {
			return []Issue{requiredIssue(path, r.Label)}
		}
		return nil
	}

	items, ok := listValue(value)
	if !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must be a list", r.Label)}}
	}
	for i, item := range items {
		if _, ok := stringValue(item); !ok {
			return []Issue{{Field: fmt.Sprintf("%s.%d", path, i), Message: fmt.Sprintf("%s entries must be text", r.Label)}}
		}
	}
	return nil
}

// AnyRule is the permissive rule for file, image, select, and custom fields:
// only presence is enforced, and only when the field is required. A non-empty
// string, non-empty list, or any other defined value satisfies it.
type AnyRule struct {
	Label    string
	Required bool
}

func (r AnyRule) Check(path string, value any) []Issue {
	if r.Required && isEmpty(value) {
		return []Issue{requiredIssue(path, r.Label)}
	}
	return nil
}

// ArrayRule validates repeatable groups: item-count bounds plus the nested
// schema applied to every row. Required means at least one item.
type ArrayRule struct {
	Label    string
	Required bool
	MinItems *int
	MaxItems *int
	Items    Schema
}

func (r ArrayRule) Check(path string, value any) []Issue {
	if isEmpty(value) {
		if r.Required {
			return []Issue{{Field: path, Message: fmt.Sprintf("%s must have at least one item", r.Label)}}
		}
		return nil
	}

	rows, ok := listValue(value)
	if !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must be a list", r.Label)}}
	}

	var issues []Issue
	if r.Required && len(rows) == 0 {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must have at least one item", r.Label)})
	}
	if r.MinItems != nil && len(rows) < *r.MinItems {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must have at least %d items", r.Label, *r.MinItems)})
	}
	if r.MaxItems != nil && len(rows) > *r.MaxItems {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s must have at most %d items", r.Label, *r.MaxItems)})
	}

	for i, row := range rows {
		rowValues, ok := mapValue(row)
		if !ok {
			issues = append(issues, Issue{Field: fmt.Sprintf("%s.%d", path, i), Message: fmt.Sprintf("%s entries must be objects", r.Label)})
			continue
		}
		for _, issue := range r.Items.Validate(rowValues) {
			issue.Field = fmt.Sprintf("%s.%d.%s", path, i, issue.Field)
			issues = append(issues, issue)
		}
	}
	return issues
}

// DateRangeRule validates single dates or {startDate,endDate} pairs. In range
// mode the end date must not precede the start date.
type DateRangeRule struct {
	Label    string
	Required bool
	Range    bool
}

func (r DateRangeRule) Check(path string, value any) []Issue {
	if isEmpty(value) {
		if r.Required {
			return []Issue{requiredIssue(path, r.Label)}
		}
		return nil
	}

	if !r.Range {
		if _, ok := dateValue(value); !ok {
			return []Issue{{Field: path, Message: fmt.Sprintf("%s must be a valid date", r.Label)}}
		}
		return nil
	}

	pair, ok := mapValue(value)
	if !ok {
		return []Issue{{Field: path, Message: fmt.Sprintf("%s must have a start and end date", r.Label)}}
	}

	start, startOK := dateValue(pair["startDate"])
	end, endOK := dateValue(pair["endDate"])

	var issues []Issue
	if !startOK {
		if r.Required || !isEmpty(pair["startDate"]) {
			issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s start date must be a valid date", r.Label)})
		}
	}
	if !endOK {
		if r.Required || !isEmpty(pair["endDate"]) {
			issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s end date must be a valid date", r.Label)})
		}
	}
	if startOK && endOK && end.Before(start) {
		issues = append(issues, Issue{Field: path, Message: fmt.Sprintf("%s end date must not be before the start date", r.Label)})
	}
	return issues
}

func requiredIssue(path, label string) Issue {
	return Issue{Field: path, Message: fmt.Sprintf("%s is required", label)}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func boolValue(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true, true
		case "false", "off", "0", "no", "":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func listValue(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func mapValue(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func dateValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
