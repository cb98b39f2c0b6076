package descriptor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI derives a form definition from the request body of one OpenAPI 3
// operation. String/number/boolean/array properties map to the matching field
// types, enums become selects, and min/max constraints carry over into the
// per-type configs. Properties the mapping cannot express (nested objects
// without array wrappers, multi-typed schemas) become custom fields so the
// caller can attach an explicit rule.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (Form, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Form{}, fmt.Errorf("descriptor: load openapi document: %w", err)
	}

	op, method, path, err := findOperation(spec, operationID)
	if err != nil {
		return Form{}, err
	}

	schema := requestSchema(op)
	if schema == nil {
		return Form{}, fmt.Errorf("descriptor: operation %q has no usable request body schema", operationID)
	}

	form := Form{
		ID:          operationID,
		Title:       strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		Endpoint:    path,
		Method:      method,
		Fields:      propertiesToFields(schema),
	}
	if err := ValidateForm(form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, string, string, error) {
	if spec.Paths == nil {
		return nil, "", "", fmt.Errorf("descriptor: openapi document has no paths")
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		candidates := map[string]*openapi3.Operation{
			"GET": item.Get, "PUT": item.Put, "POST": item.Post,
			"DELETE": item.Delete, "PATCH": item.Patch,
		}
		for method, op := range candidates {
			if op != nil && op.OperationID == operationID {
				return op, method, path, nil
			}
		}
	}
	return nil, "", "", fmt.Errorf("descriptor: operation %q not found", operationID)
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func propertiesToFields(schema *openapi3.Schema) []Field {
	if schema == nil || len(schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := propertyToField(name, ref.Value)
		_, field.Required = required[name]
		fields = append(fields, field)
	}
	return fields
}

func propertyToField(name string, prop *openapi3.Schema) Field {
	field := Field{
		Name:        name,
		Label:       DefaultLabel(name),
		Description: strings.TrimSpace(prop.Description),
		Default:     prop.Default,
	}

	if len(prop.Enum) > 0 {
		field.Type = TypeSelect
		field.Config = SelectConfig{Options: enumChoices(prop.Enum)}
		return field
	}

	switch schemaType(prop) {
	case "string":
		field.Type = stringFieldType(prop.Format)
		if cfg, ok := textConfigFromSchema(prop); ok {
			field.Config = cfg
		}
	case "integer", "number":
		field.Type = TypeNumber
		if cfg, ok := numberConfigFromSchema(prop); ok {
			field.Config = cfg
		}
	case "boolean":
		field.Type = TypeCheckbox
	case "array":
		field = arrayField(field, prop)
	default:
		field.Type = TypeCustom
	}
	return field
}

func arrayField(field Field, prop *openapi3.Schema) Field {
	items := itemSchema(prop)
	if items == nil {
		field.Type = TypeCustom
		return field
	}

	if schemaType(items) == "object" && len(items.Properties) > 0 {
		cfg := ArrayConfig{Fields: propertiesToFields(items)}
		if prop.MinItems != 0 {
			value := int(prop.MinItems)
			cfg.MinItems = &value
		}
		if prop.MaxItems != nil {
			value := int(*prop.MaxItems)
			cfg.MaxItems = &value
		}
		field.Type = TypeArray
		field.Config = cfg
		return field
	}

	field.Type = TypeMultiSelect
	if len(items.Enum) > 0 {
		field.Config = SelectConfig{Options: enumChoices(items.Enum)}
	}
	return field
}

func itemSchema(prop *openapi3.Schema) *openapi3.Schema {
	if prop.Items == nil {
		return nil
	}
	return prop.Items.Value
}

func schemaType(prop *openapi3.Schema) string {
	if prop == nil || prop.Type == nil {
		return ""
	}
	values := prop.Type.Slice()
	if len(values) != 1 {
		return ""
	}
	return values[0]
}

func stringFieldType(format string) FieldType {
	switch strings.ToLower(format) {
	case "email":
		return TypeEmail
	case "password":
		return TypePassword
	case "binary", "byte":
		return TypeFile
	case "date", "date-time":
		return TypeDateRange
	default:
		return TypeText
	}
}

func textConfigFromSchema(prop *openapi3.Schema) (TextConfig, bool) {
	var cfg TextConfig
	found := false
	if prop.MinLength != 0 {
		value := int(prop.MinLength)
		cfg.MinLength = &value
		found = true
	}
	if prop.MaxLength != nil {
		value := int(*prop.MaxLength)
		cfg.MaxLength = &value
		found = true
	}
	if prop.Pattern != "" {
		cfg.Pattern = prop.Pattern
		found = true
	}
	return cfg, found
}

func numberConfigFromSchema(prop *openapi3.Schema) (NumberConfig, bool) {
	var cfg NumberConfig
	found := false
	if prop.Min != nil {
		value := *prop.Min
		cfg.Min = &value
		found = true
	}
	if prop.Max != nil {
		value := *prop.Max
		cfg.Max = &value
		found = true
	}
	return cfg, found
}

func enumChoices(values []any) []Choice {
	out := make([]Choice, 0, len(values))
	for _, value := range values {
		text := fmt.Sprint(value)
		out = append(out, Choice{Label: DefaultLabel(text), Value: text})
	}
	return out
}
