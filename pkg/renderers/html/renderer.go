package html

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
	"github.com/goliatone/go-admin/pkg/render/template"
	"github.com/goliatone/go-admin/pkg/render/template/gotemplate"
)

// Renderer implements render.Renderer, producing server-rendered HTML forms
// and detail views. Field controls are composed directly; page chrome comes
// from the embedded templates.
type Renderer struct {
	templates  template.TemplateRenderer
	sanitizer  *bluemonday.Policy
	components componentSet
}

// Option configures the renderer.
type Option func(*Renderer)

// WithTemplates replaces the embedded chrome templates.
func WithTemplates(templates template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if templates != nil {
			r.templates = templates
		}
	}
}

// WithSanitizer replaces the policy applied to field descriptions and
// rich-text detail values.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.sanitizer = policy
		}
	}
}

// New constructs an HTML renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		sanitizer:  bluemonday.UGCPolicy(),
		components: defaultComponents(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if r.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(templatesFS()))
		if err != nil {
			return nil, fmt.Errorf("html: load templates: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "html" }

// ContentType reports the serialization format used by the renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// RenderForm produces the full form markup for a definition.
func (r *Renderer) RenderForm(ctx context.Context, form descriptor.Form, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fields strings.Builder
	for _, field := range form.Fields {
		if err := r.renderField(&fields, field, field.Name, opts); err != nil {
			return nil, err
		}
	}

	method := strings.ToUpper(form.Method)
	if method == "" {
		method = "POST"
	}
	// Browsers only submit GET/POST; other verbs ride along as an override
	// input the backend understands.
	formMethod := method
	var hidden strings.Builder
	if method != "GET" && method != "POST" {
		formMethod = "POST"
		hidden.WriteString(`<input type="hidden" name="_method" value="` + html.EscapeString(method) + `">`)
	}
	for _, name := range sortedKeys(opts.Hidden) {
		hidden.WriteString(`<input type="hidden" name="` + html.EscapeString(name) + `" value="` + html.EscapeString(opts.Hidden[name]) + `">`)
	}

	rendered, err := r.templates.RenderTemplate("form", map[string]any{
		"id":       form.ID,
		"title":    form.Title,
		"endpoint": form.Endpoint,
		"method":   formMethod,
		"message":  opts.Message,
		"hidden":   hidden.String(),
		"fields":   fields.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("html: render form %q: %w", form.ID, err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) renderField(b *strings.Builder, field descriptor.Field, path string, opts render.Options) error {
	component, err := r.components.lookup(field.Type)
	if err != nil {
		return err
	}

	if field.Type == descriptor.TypeHidden {
		return component(b, r, field, path, opts)
	}

	b.WriteString(`<div class="field" data-field="` + html.EscapeString(path) + `" data-type="` + html.EscapeString(string(field.Type)) + `">`)
	if field.Type != descriptor.TypeCheckbox {
		b.WriteString(`<label for="` + controlID(path) + `">` + html.EscapeString(field.DisplayLabel()))
		if field.Required {
			b.WriteString(`<span class="required" aria-hidden="true">*</span>`)
		}
		b.WriteString(`</label>`)
	}

	if err := component(b, r, field, path, opts); err != nil {
		return err
	}

	if field.Description != "" {
		b.WriteString(`<p class="description">` + r.sanitizer.Sanitize(field.Description) + `</p>`)
	}
	if messages := opts.Errors[path]; len(messages) > 0 {
		b.WriteString(`<ul class="field-errors">`)
		for _, message := range messages {
			b.WriteString(`<li>` + html.EscapeString(message) + `</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
	return nil
}

func controlID(path string) string {
	return "f-" + strings.NewReplacer(".", "-", "[", "-", "]", "").Replace(path)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
