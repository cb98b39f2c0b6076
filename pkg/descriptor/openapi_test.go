package descriptor

import (
	"context"
	"testing"
)

const openapiDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "areas", "version": "1.0.0"},
  "paths": {
    "/api/areas": {
      "post": {
        "operationId": "createArea",
        "summary": "Create area",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["name"],
                "properties": {
                  "name": {"type": "string", "minLength": 2, "maxLength": 64},
                  "contactEmail": {"type": "string", "format": "email"},
                  "capacity": {"type": "integer", "minimum": 1, "maximum": 500},
                  "active": {"type": "boolean"},
                  "kind": {"type": "string", "enum": ["region", "zone"]},
                  "tags": {"type": "array", "items": {"type": "string"}}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestFromOpenAPI(t *testing.T) {
	form, err := FromOpenAPI(context.Background(), []byte(openapiDoc), "createArea")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if form.Endpoint != "/api/areas" || form.Method != "POST" {
		t.Fatalf("unexpected endpoint/method: %q %q", form.Endpoint, form.Method)
	}

	byName := make(map[string]Field, len(form.Fields))
	for _, field := range form.Fields {
		byName[field.Name] = field
	}

	name, ok := byName["name"]
	if !ok || name.Type != TypeText || !name.Required {
		t.Fatalf("unexpected name field: %#v", name)
	}
	textCfg, err := name.TextConfig()
	if err != nil || textCfg.MinLength == nil || *textCfg.MinLength != 2 {
		t.Fatalf("unexpected text config: %#v (%v)", textCfg, err)
	}

	if email := byName["contactEmail"]; email.Type != TypeEmail {
		t.Fatalf("expected email type, got %q", email.Type)
	}

	capacity := byName["capacity"]
	if capacity.Type != TypeNumber {
		t.Fatalf("expected number type, got %q", capacity.Type)
	}
	numCfg, err := capacity.NumberConfig()
	if err != nil || numCfg.Min == nil || *numCfg.Min != 1 || numCfg.Max == nil || *numCfg.Max != 500 {
		t.Fatalf("unexpected number config: %#v (%v)", numCfg, err)
	}

	if active := byName["active"]; active.Type != TypeCheckbox {
		t.Fatalf("expected checkbox type, got %q", active.Type)
	}

	kind := byName["kind"]
	if kind.Type != TypeSelect {
		t.Fatalf("expected select type, got %q", kind.Type)
	}
	selCfg, err := kind.SelectConfig()
	if err != nil || len(selCfg.Options) != 2 || selCfg.Options[0].Value != "region" {
		t.Fatalf("unexpected select config: %#v (%v)", selCfg, err)
	}

	if tags := byName["tags"]; tags.Type != TypeMultiSelect {
		t.Fatalf("expected multiselect type, got %q", tags.Type)
	}
}

func TestFromOpenAPI_MissingOperation(t *testing.T) {
	if _, err := FromOpenAPI(context.Background(), []byte(openapiDoc), "deleteArea"); err == nil {
		t.Fatal("expected missing operation error")
	}
}
