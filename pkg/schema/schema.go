package schema

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-admin/pkg/descriptor"
)

// Issue is one validation failure scoped to a field. Field holds the dotted
// path ("name", "rows.0.title"); Message is ready for display and references
// the field's label.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema maps every field name to exactly one validation rule, preserving the
// descriptor order.
type Schema struct {
	rules map[string]Rule
	order []string
}

// Build derives a schema from the field list. Each descriptor contributes one
// rule: the explicit escape-hatch rule when present, otherwise a rule derived
// from the field type. Build fails on duplicate names so the rule set stays a
// bijection over the descriptors.
func Build(fields []descriptor.Field) (Schema, error) {
	s := Schema{rules: make(map[string]Rule, len(fields))}
	for _, field := range fields {
		if field.Name == "" {
			return Schema{}, fmt.Errorf("schema: field without a name")
		}
		if _, exists := s.rules[field.Name]; exists {
			return Schema{}, fmt.Errorf("schema: duplicate field name %q", field.Name)
		}
		rule, err := ruleFor(field)
		if err != nil {
			return Schema{}, err
		}
		s.rules[field.Name] = rule
		s.order = append(s.order, field.Name)
	}
	return s, nil
}

// MustBuild panics on build failure. Useful for static, code-constructed
// descriptor lists.
func MustBuild(fields []descriptor.Field) Schema {
	s, err := Build(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Len reports the number of rules.
func (s Schema) Len() int { return len(s.order) }

// Names returns field names in descriptor order.
func (s Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// Rule returns the rule bound to a field name.
func (s Schema) Rule(name string) (Rule, bool) {
	rule, ok := s.rules[name]
	return rule, ok
}

// Validate checks a value map against every rule. Missing keys validate as
// nil values, so required fields fail with their field-specific message.
func (s Schema) Validate(values map[string]any) []Issue {
	var issues []Issue
	for _, name := range s.order {
		issues = append(issues, s.rules[name].Check(name, values[name])...)
	}
	return issues
}

func ruleFor(field descriptor.Field) (Rule, error) {
	label := field.DisplayLabel()

	if field.Validate != nil {
		return CustomRule{Label: label, Required: field.Required, Func: field.Validate}, nil
	}

	switch field.Type {
	case descriptor.TypeText, descriptor.TypeTextarea, descriptor.TypePassword, descriptor.TypeHidden, descriptor.TypeEmail:
		cfg, err := field.TextConfig()
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", field.Name, err)
		}
		rule := StringRule{
			Label:     label,
			Required:  field.Required,
			MinLength: cfg.MinLength,
			MaxLength: cfg.MaxLength,
			Email:     field.Type == descriptor.TypeEmail,
		}
		if cfg.Pattern != "" {
			pattern, err := regexp.Compile(cfg.Pattern)
			if err != nil {
				return nil, fmt.Errorf("schema: field %q: invalid pattern: %w", field.Name, err)
			}
			rule.Pattern = pattern
		}
		return rule, nil

	case descriptor.TypeNumber:
		cfg, err := field.NumberConfig()
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", field.Name, err)
		}
		return NumberRule{Label: label, Required: field.Required, Min: cfg.Min, Max: cfg.Max}, nil

	case descriptor.TypeCheckbox:
		return BoolRule{Label: label}, nil

	case descriptor.TypeMultiSelect:
		return StringListRule{Label: label, Required: field.Required}, nil

	case descriptor.TypeArray:
		cfg, err := field.ArrayConfig()
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", field.Name, err)
		}
		nested, err := Build(cfg.Fields)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", field.Name, err)
		}
		return ArrayRule{
			Label:    label,
			Required: field.Required,
			MinItems: cfg.MinItems,
			MaxItems: cfg.MaxItems,
			Items:    nested,
		}, nil

	case descriptor.TypeDateRange:
		cfg, err := field.DateRangeConfig()
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", field.Name, err)
		}
		return DateRangeRule{Label: label, Required: field.Required, Range: cfg.Range}, nil

	case descriptor.TypeSelect, descriptor.TypePaginatedSelect,
		descriptor.TypeImage, descriptor.TypeFile, descriptor.TypeCustom:
		// Validity of uploads and remote selections is deferred to the upload
		// or selection step; only presence is enforced here.
		return AnyRule{Label: label, Required: field.Required}, nil

	default:
		return nil, fmt.Errorf("schema: field %q has unsupported type %q", field.Name, field.Type)
	}
}
