package descriptor

// FieldType is the closed enumeration of input kinds a form definition can
// declare. Renderers and the schema generator switch over this tag; unknown
// values are rejected during descriptor validation rather than at render time.
type FieldType string

const (
	TypeText            FieldType = "text"
	TypeTextarea        FieldType = "textarea"
	TypeEmail           FieldType = "email"
	TypePassword        FieldType = "password"
	TypeNumber          FieldType = "number"
	TypeCheckbox        FieldType = "checkbox"
	TypeSelect          FieldType = "select"
	TypeMultiSelect     FieldType = "multiselect"
	TypePaginatedSelect FieldType = "paginatedSelect"
	TypeImage           FieldType = "image"
	TypeFile            FieldType = "file"
	TypeArray           FieldType = "array"
	TypeDateRange       FieldType = "daterange"
	TypeHidden          FieldType = "hidden"
	TypeCustom          FieldType = "custom"
)

// Known reports whether the type is part of the closed enumeration.
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeTextarea, TypeEmail, TypePassword, TypeNumber,
		TypeCheckbox, TypeSelect, TypeMultiSelect, TypePaginatedSelect,
		TypeImage, TypeFile, TypeArray, TypeDateRange, TypeHidden, TypeCustom:
		return true
	default:
		return false
	}
}

// Field describes one form input: its key, label, type, and per-type
// configuration. Fields are constructed by the calling page (or loaded from a
// form definition file) and stay immutable for the lifetime of the form.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`

	// Config carries the per-type configuration sub-object. It may hold one of
	// the typed *Config structs or a loosely-typed map decoded from YAML/JSON;
	// the typed accessors normalise either shape.
	Config any `json:"config,omitempty" yaml:"config,omitempty"`

	// Validate is the explicit validation escape hatch. When set it replaces
	// the rule the schema generator would derive from Type.
	Validate func(value any) error `json:"-" yaml:"-"`

	// Metadata carries renderer hints that have no typed home.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DisplayLabel returns the configured label, falling back to a humanised form
// of the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return DefaultLabel(f.Name)
}

// Choice is a static option for select and multiselect fields.
type Choice struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Form is a complete form definition: identity, submission target, and the
// ordered field list.
type Form struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FieldByName returns the field with the given name.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
