package descriptor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultLabel(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"name":        "Name",
		"createdAt":   "Created At",
		"start_date":  "Start Date",
		"image-url":   "Image Url",
		"maxRetries2": "Max Retries 2",
	}
	for input, want := range cases {
		if got := DefaultLabel(input); got != want {
			t.Errorf("DefaultLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	fields := []Field{
		{Name: "title", Type: TypeText},
		{Name: "title", Type: TypeTextarea},
	}
	err := Validate(fields)
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	if !strings.Contains(err.Error(), "duplicate field name") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownType(t *testing.T) {
	err := Validate([]Field{{Name: "x", Type: FieldType("wysiwyg")}})
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestValidate_ArrayRequiresNestedFields(t *testing.T) {
	err := Validate([]Field{{Name: "rows", Type: TypeArray}})
	if err == nil || !strings.Contains(err.Error(), "requires nested fields") {
		t.Fatalf("expected nested fields error, got %v", err)
	}
}

func TestValidate_PaginatedSelectRequiresEndpoint(t *testing.T) {
	err := Validate([]Field{{Name: "area", Type: TypePaginatedSelect}})
	if err == nil || !strings.Contains(err.Error(), "requires an endpoint") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	fields := []Field{
		{Name: "", Type: TypeText},
		{Name: "area", Type: TypePaginatedSelect},
	}
	err := Validate(fields)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "has no name") || !strings.Contains(msg, "requires an endpoint") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestDecodeConfig_FromMap(t *testing.T) {
	field := Field{
		Name: "priority",
		Type: TypeNumber,
		Config: map[string]any{
			"min": 1,
			"max": 10,
		},
	}
	cfg, err := field.NumberConfig()
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Min == nil || *cfg.Min != 1 {
		t.Fatalf("expected min 1, got %#v", cfg.Min)
	}
	if cfg.Max == nil || *cfg.Max != 10 {
		t.Fatalf("expected max 10, got %#v", cfg.Max)
	}
}

func TestDecodeConfig_FromTypedStruct(t *testing.T) {
	min := 2
	field := Field{
		Name:   "tags",
		Type:   TypeArray,
		Config: ArrayConfig{Fields: []Field{{Name: "tag", Type: TypeText}}, MinItems: &min},
	}
	cfg, err := field.ArrayConfig()
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if len(cfg.Fields) != 1 || cfg.Fields[0].Name != "tag" {
		t.Fatalf("unexpected nested fields: %#v", cfg.Fields)
	}
	if cfg.MinItems == nil || *cfg.MinItems != 2 {
		t.Fatalf("unexpected minItems: %#v", cfg.MinItems)
	}
}

func TestParse_YAMLDefinition(t *testing.T) {
	doc := []byte(`
id: createArea
title: New Area
endpoint: /api/areas
fields:
  - name: name
    type: text
    required: true
  - name: parentArea
    type: paginatedSelect
    config:
      endpoint: /api/areas/options
      pageSize: 10
  - name: active
    type: checkbox
`)
	form, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if form.Method != "POST" {
		t.Fatalf("expected default POST method, got %q", form.Method)
	}
	if form.Fields[0].Label != "Name" {
		t.Fatalf("expected derived label, got %q", form.Fields[0].Label)
	}

	cfg, err := form.Fields[1].PaginatedSelectConfig()
	if err != nil {
		t.Fatalf("decode paginated config: %v", err)
	}
	want := PaginatedSelectConfig{Endpoint: "/api/areas/options", PageSize: 10}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsInvalidDefinition(t *testing.T) {
	doc := []byte(`
id: broken
fields:
  - name: count
    type: number
    config: { min: 10, max: 1 }
`)
	if _, err := Parse(doc); err == nil || !strings.Contains(err.Error(), "max below min") {
		t.Fatalf("expected bounds error, got %v", err)
	}
}

func TestFieldByName(t *testing.T) {
	form := Form{Fields: []Field{{Name: "a", Type: TypeText}, {Name: "b", Type: TypeText}}}
	if _, ok := form.FieldByName("b"); !ok {
		t.Fatal("expected to find field b")
	}
	if _, ok := form.FieldByName("missing"); ok {
		t.Fatal("did not expect to find missing field")
	}
}
