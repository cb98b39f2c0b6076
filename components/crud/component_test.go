package crud

import (
	"net/http"
	"testing"

	"github.com/goliatone/go-admin/pkg/descriptor"
)

func TestUpdateFormSwapsSchema(t *testing.T) {
	component, router := testComponent(t)

	// Drop the email requirement; a previously invalid payload now passes.
	relaxed := userForm()
	relaxed.Fields = []descriptor.Field{
		{Name: "name", Type: descriptor.TypeText, Required: true},
		{Name: "email", Type: descriptor.TypeEmail},
		{Name: "active", Type: descriptor.TypeCheckbox},
	}
	if err := component.UpdateForm("users", relaxed); err != nil {
		t.Fatalf("UpdateForm() error = %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, "/admin/users", `{"name":"Ada"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 after relaxing schema; body: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateFormRejectsBadDefinition(t *testing.T) {
	component := New()
	if err := component.Register(Resource{Name: "users", Form: userForm(), Store: NewMemoryStore()}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	broken := userForm()
	broken.Fields = []descriptor.Field{{Name: "x", Type: descriptor.FieldType("hologram")}}
	if err := component.UpdateForm("users", broken); err == nil {
		t.Fatal("expected error for unknown field type")
	}

	if err := component.UpdateForm("ghosts", userForm()); err == nil {
		t.Fatal("expected error for unregistered resource")
	}
}
