package descriptor

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks a field list for structural problems: empty or duplicate
// names, unknown types, and malformed per-type configuration. All problems are
// reported at once rather than stopping at the first.
func Validate(fields []Field) error {
	return validateFields(fields, "")
}

// ValidateForm validates the form header plus its fields.
func ValidateForm(form Form) error {
	var err error
	if form.ID == "" {
		err = multierr.Append(err, fmt.Errorf("descriptor: form id is required"))
	}
	return multierr.Append(err, Validate(form.Fields))
}

func validateFields(fields []Field, path string) error {
	var err error
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		name := field.Name
		if name == "" {
			err = multierr.Append(err, fmt.Errorf("descriptor: field at %s has no name", describePath(path)))
			continue
		}
		fieldPath := joinFieldPath(path, name)

		if _, dup := seen[name]; dup {
			err = multierr.Append(err, fmt.Errorf("descriptor: duplicate field name %q", fieldPath))
		}
		seen[name] = struct{}{}

		if !field.Type.Known() {
			err = multierr.Append(err, fmt.Errorf("descriptor: field %q has unknown type %q", fieldPath, field.Type))
			continue
		}

		err = multierr.Append(err, validateConfig(field, fieldPath))
	}
	return err
}

func validateConfig(field Field, path string) error {
	switch field.Type {
	case TypeArray:
		cfg, cfgErr := field.ArrayConfig()
		if cfgErr != nil {
			return fmt.Errorf("descriptor: field %q: %w", path, cfgErr)
		}
		if len(cfg.Fields) == 0 {
			return fmt.Errorf("descriptor: array field %q requires nested fields", path)
		}
		var err error
		if cfg.MinItems != nil && *cfg.MinItems < 0 {
			err = multierr.Append(err, fmt.Errorf("descriptor: array field %q has negative minItems", path))
		}
		if cfg.MinItems != nil && cfg.MaxItems != nil && *cfg.MaxItems < *cfg.MinItems {
			err = multierr.Append(err, fmt.Errorf("descriptor: array field %q has maxItems below minItems", path))
		}
		return multierr.Append(err, validateFields(cfg.Fields, path))
	case TypeNumber:
		cfg, cfgErr := field.NumberConfig()
		if cfgErr != nil {
			return fmt.Errorf("descriptor: field %q: %w", path, cfgErr)
		}
		if cfg.Min != nil && cfg.Max != nil && *cfg.Max < *cfg.Min {
			return fmt.Errorf("descriptor: number field %q has max below min", path)
		}
	case TypePaginatedSelect:
		cfg, cfgErr := field.PaginatedSelectConfig()
		if cfgErr != nil {
			return fmt.Errorf("descriptor: field %q: %w", path, cfgErr)
		}
		if cfg.Endpoint == "" {
			return fmt.Errorf("descriptor: paginatedSelect field %q requires an endpoint", path)
		}
	case TypeSelect, TypeMultiSelect:
		if _, cfgErr := field.SelectConfig(); cfgErr != nil {
			return fmt.Errorf("descriptor: field %q: %w", path, cfgErr)
		}
	}
	return nil
}

func joinFieldPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func describePath(path string) string {
	if path == "" {
		return "top level"
	}
	return fmt.Sprintf("%q", path)
}
