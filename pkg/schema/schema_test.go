package schema

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admin/pkg/descriptor"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuild_OneRulePerDescriptor(t *testing.T) {
	fields := []descriptor.Field{
		{Name: "name", Type: descriptor.TypeText, Required: true},
		{Name: "email", Type: descriptor.TypeEmail},
		{Name: "capacity", Type: descriptor.TypeNumber},
		{Name: "active", Type: descriptor.TypeCheckbox},
		{Name: "tags", Type: descriptor.TypeMultiSelect},
		{Name: "photo", Type: descriptor.TypeImage},
		{Name: "parent", Type: descriptor.TypePaginatedSelect, Config: descriptor.PaginatedSelectConfig{Endpoint: "/opts"}},
		{Name: "period", Type: descriptor.TypeDateRange, Config: descriptor.DateRangeConfig{Range: true}},
	}

	s, err := Build(fields)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Len() != len(fields) {
		t.Fatalf("expected %d rules, got %d", len(fields), s.Len())
	}

	want := make([]string, 0, len(fields))
	for _, field := range fields {
		want = append(want, field.Name)
	}
	got := s.Names()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rule names mismatch (-want +got):\n%s", diff)
	}

	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			t.Fatalf("duplicate rule name %q", sorted[i])
		}
	}
}

func TestBuild_RejectsDuplicateNames(t *testing.T) {
	_, err := Build([]descriptor.Field{
		{Name: "title", Type: descriptor.TypeText},
		{Name: "title", Type: descriptor.TypeText},
	})
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestValidate_RequiredTextMessageReferencesLabel(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "areaName", Label: "Area Name", Type: descriptor.TypeText, Required: true},
	})

	issues := s.Validate(map[string]any{"areaName": ""})
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %#v", issues)
	}
	if issues[0].Field != "areaName" {
		t.Fatalf("unexpected issue field %q", issues[0].Field)
	}
	if !strings.Contains(issues[0].Message, "Area Name") {
		t.Fatalf("expected message to reference label, got %q", issues[0].Message)
	}
}

func TestValidate_NumberBoundsInclusive(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "priority", Type: descriptor.TypeNumber, Config: descriptor.NumberConfig{Min: floatPtr(1), Max: floatPtr(10)}},
	})

	for _, value := range []any{0, 11, "0", 10.5} {
		if issues := s.Validate(map[string]any{"priority": value}); len(issues) == 0 {
			t.Errorf("expected %v to be rejected", value)
		}
	}
	for _, value := range []any{1, 10, "10", 5.5} {
		if issues := s.Validate(map[string]any{"priority": value}); len(issues) != 0 {
			t.Errorf("expected %v to be accepted, got %#v", value, issues)
		}
	}
}

func TestValidate_EmailFormat(t *testing.T) {
	s := MustBuild([]descriptor.Field{{Name: "contact", Type: descriptor.TypeEmail}})

	if issues := s.Validate(map[string]any{"contact": "not-an-email"}); len(issues) == 0 {
		t.Fatal("expected invalid email to be rejected")
	}
	if issues := s.Validate(map[string]any{"contact": "ops@example.com"}); len(issues) != 0 {
		t.Fatalf("expected valid email to pass, got %#v", issues)
	}
	// Optional email left empty is fine.
	if issues := s.Validate(map[string]any{}); len(issues) != 0 {
		t.Fatalf("expected empty optional email to pass, got %#v", issues)
	}
}

func TestValidate_TextLengthBounds(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "code", Type: descriptor.TypeText, Config: descriptor.TextConfig{MinLength: intPtr(2), MaxLength: intPtr(4)}},
	})

	if issues := s.Validate(map[string]any{"code": "a"}); len(issues) == 0 {
		t.Fatal("expected under-min-length value to be rejected")
	}
	if issues := s.Validate(map[string]any{"code": "abcde"}); len(issues) == 0 {
		t.Fatal("expected over-max-length value to be rejected")
	}
	if issues := s.Validate(map[string]any{"code": "abc"}); len(issues) != 0 {
		t.Fatalf("expected in-range value to pass, got %#v", issues)
	}
}

func TestValidate_DateRangeEndBeforeStart(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "period", Type: descriptor.TypeDateRange, Required: true, Config: descriptor.DateRangeConfig{Range: true}},
	})

	issues := s.Validate(map[string]any{
		"period": map[string]any{"startDate": "2026-05-10", "endDate": "2026-05-01"},
	})
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "end date") {
		t.Fatalf("expected end-before-start issue, got %#v", issues)
	}

	issues = s.Validate(map[string]any{
		"period": map[string]any{"startDate": "2026-05-01", "endDate": "2026-05-01"},
	})
	if len(issues) != 0 {
		t.Fatalf("expected equal start/end to pass, got %#v", issues)
	}

	issues = s.Validate(map[string]any{})
	if len(issues) != 1 {
		t.Fatalf("expected required issue for missing range, got %#v", issues)
	}
}

func TestValidate_SingleDate(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "publishedAt", Type: descriptor.TypeDateRange, Required: true},
	})

	if issues := s.Validate(map[string]any{"publishedAt": "2026-08-23"}); len(issues) != 0 {
		t.Fatalf("expected valid date to pass, got %#v", issues)
	}
	if issues := s.Validate(map[string]any{"publishedAt": "not a date"}); len(issues) == 0 {
		t.Fatal("expected invalid date to be rejected")
	}
}

func TestValidate_ArrayNestedFields(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{
			Name:     "contacts",
			Type:     descriptor.TypeArray,
			Required: true,
			Config: descriptor.ArrayConfig{
				MaxItems: intPtr(2),
				Fields: []descriptor.Field{
					{Name: "name", Type: descriptor.TypeText, Required: true},
					{Name: "email", Type: descriptor.TypeEmail},
				},
			},
		},
	})

	// Required array with no items.
	issues := s.Validate(map[string]any{"contacts": []any{}})
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "at least one item") {
		t.Fatalf("expected at-least-one-item issue, got %#v", issues)
	}

	// Nested failure carries the indexed path.
	issues = s.Validate(map[string]any{"contacts": []any{
		map[string]any{"name": "", "email": "bad"},
	}})
	var fieldsSeen []string
	for _, issue := range issues {
		fieldsSeen = append(fieldsSeen, issue.Field)
	}
	want := []string{"contacts.0.name", "contacts.0.email"}
	if diff := cmp.Diff(want, fieldsSeen); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}

	// Item-count ceiling.
	row := map[string]any{"name": "n"}
	issues = s.Validate(map[string]any{"contacts": []any{row, row, row}})
	if len(issues) != 1 || !strings.Contains(issues[0].Message, "at most 2 items") {
		t.Fatalf("expected max items issue, got %#v", issues)
	}
}

func TestValidate_ExplicitRuleUsedVerbatim(t *testing.T) {
	called := false
	s := MustBuild([]descriptor.Field{
		{
			Name: "slug",
			Type: descriptor.TypeText,
			Validate: func(value any) error {
				called = true
				if value == "taken" {
					return errors.New("slug is already in use")
				}
				return nil
			},
		},
	})

	issues := s.Validate(map[string]any{"slug": "taken"})
	if !called {
		t.Fatal("expected escape-hatch rule to run")
	}
	if len(issues) != 1 || issues[0].Message != "slug is already in use" {
		t.Fatalf("expected verbatim message, got %#v", issues)
	}
}

func TestValidate_ExplicitRuleSeesEmptyValues(t *testing.T) {
	// An escape-hatch rule owns its own presence logic, so it must run even
	// when the field is optional and the value is absent or empty.
	s := MustBuild([]descriptor.Field{
		{
			Name: "code",
			Type: descriptor.TypeText,
			Validate: func(value any) error {
				text, _ := value.(string)
				if text == "" {
					return errors.New("code cannot be blank")
				}
				return nil
			},
		},
	})

	issues := s.Validate(map[string]any{})
	if len(issues) != 1 || issues[0].Message != "code cannot be blank" {
		t.Fatalf("expected explicit rule to run on missing value, got %#v", issues)
	}

	issues = s.Validate(map[string]any{"code": ""})
	if len(issues) != 1 || issues[0].Message != "code cannot be blank" {
		t.Fatalf("expected explicit rule to run on empty value, got %#v", issues)
	}

	if issues := s.Validate(map[string]any{"code": "ok"}); len(issues) != 0 {
		t.Fatalf("expected passing value to produce no issues, got %#v", issues)
	}
}

func TestValidate_ExplicitRuleWithRequiredStacks(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{
			Name:     "code",
			Type:     descriptor.TypeText,
			Required: true,
			Validate: func(value any) error {
				if value == nil {
					return errors.New("code must be supplied")
				}
				return nil
			},
		},
	})

	issues := s.Validate(map[string]any{})
	if len(issues) != 2 {
		t.Fatalf("expected presence check plus explicit rule, got %#v", issues)
	}
	if !strings.Contains(issues[0].Message, "required") {
		t.Errorf("first issue should be the presence check, got %q", issues[0].Message)
	}
	if issues[1].Message != "code must be supplied" {
		t.Errorf("second issue should be the explicit rule, got %q", issues[1].Message)
	}
}

func TestValidate_RequiredImagePresence(t *testing.T) {
	s := MustBuild([]descriptor.Field{
		{Name: "photo", Type: descriptor.TypeImage, Required: true},
	})

	if issues := s.Validate(map[string]any{}); len(issues) != 1 {
		t.Fatalf("expected required issue, got %#v", issues)
	}
	if issues := s.Validate(map[string]any{"photo": "https://cdn.example.com/a.png"}); len(issues) != 0 {
		t.Fatalf("expected non-empty string to satisfy presence, got %#v", issues)
	}
	if issues := s.Validate(map[string]any{"photo": []any{"a.png"}}); len(issues) != 0 {
		t.Fatalf("expected non-empty list to satisfy presence, got %#v", issues)
	}
}

func TestValidate_PureNoMutation(t *testing.T) {
	s := MustBuild([]descriptor.Field{{Name: "name", Type: descriptor.TypeText, Required: true}})
	values := map[string]any{"name": "x"}
	_ = s.Validate(values)
	if len(values) != 1 || values["name"] != "x" {
		t.Fatalf("validate mutated input: %#v", values)
	}
}
