package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/schema"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) RenderForm(context.Context, descriptor.Form, Options) ([]byte, error) {
	return nil, nil
}
func (s stubRenderer) RenderDetail(context.Context, descriptor.Form, map[string]any, Options) ([]byte, error) {
	return nil, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	renderer, err := registry.Get("html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if renderer.Name() != "html" {
		t.Errorf("Name() = %q, want html", renderer.Name())
	}

	if !registry.Has("html") {
		t.Error("Has(html) = false, want true")
	}
	if registry.Has("json") {
		t.Error("Has(json) = true, want false")
	}
}

func TestRegistryDuplicateRejected(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(stubRenderer{name: "html"})

	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistryListSorted(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(stubRenderer{name: "json"})
	registry.MustRegister(stubRenderer{name: "html"})

	if diff := cmp.Diff([]string{"html", "json"}, registry.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsFromIssues(t *testing.T) {
	issues := []schema.Issue{
		{Field: "email", Message: "Email is required"},
		{Field: "email", Message: "Email is required"},
		{Field: "contacts.0.name", Message: " Name is required "},
		{Field: "noop", Message: "   "},
	}

	want := map[string][]string{
		"email":           {"Email is required"},
		"contacts.0.name": {"Name is required"},
	}
	if diff := cmp.Diff(want, ErrorsFromIssues(issues)); diff != "" {
		t.Errorf("ErrorsFromIssues() mismatch (-want +got):\n%s", diff)
	}

	if got := ErrorsFromIssues(nil); got != nil {
		t.Errorf("ErrorsFromIssues(nil) = %v, want nil", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := MergeFormErrors([]string{"first", ""}, " second ", "first")
	if diff := cmp.Diff([]string{"first", "second"}, got); diff != "" {
		t.Errorf("MergeFormErrors() mismatch (-want +got):\n%s", diff)
	}
}
