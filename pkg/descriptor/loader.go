package descriptor

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML form definition, fills in derived labels, and validates
// the result. JSON documents parse too since YAML is a superset.
func Parse(data []byte) (Form, error) {
	var form Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return Form{}, fmt.Errorf("descriptor: parse form definition: %w", err)
	}

	applyDefaults(&form)
	if err := ValidateForm(form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// LoadFile reads and parses a form definition from disk.
func LoadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("descriptor: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS reads and parses a form definition from an fs.FS, typically an
// embed.FS shipped alongside the application.
func LoadFS(fsys fs.FS, path string) (Form, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Form{}, fmt.Errorf("descriptor: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadReader parses a form definition from an arbitrary reader.
func LoadReader(r io.Reader) (Form, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Form{}, fmt.Errorf("descriptor: read form definition: %w", err)
	}
	return Parse(data)
}

func applyDefaults(form *Form) {
	if form.Method == "" {
		form.Method = http.MethodPost
	}
	form.Method = strings.ToUpper(form.Method)
	applyFieldDefaults(form.Fields)
}

func applyFieldDefaults(fields []Field) {
	for i := range fields {
		if fields[i].Label == "" {
			fields[i].Label = DefaultLabel(fields[i].Name)
		}
		if fields[i].Type != TypeArray {
			continue
		}
		// Nested labels are derived when the config is already typed; map
		// configs are labelled lazily by DisplayLabel at render time.
		if cfg, ok := fields[i].Config.(ArrayConfig); ok {
			applyFieldDefaults(cfg.Fields)
			fields[i].Config = cfg
		}
	}
}
