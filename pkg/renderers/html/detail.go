package html

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
)

// RenderDetail produces a read-only view of a record using the same field
// definitions that drive the form. Hidden fields are omitted.
func (r *Renderer) RenderDetail(ctx context.Context, form descriptor.Form, record map[string]any, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows strings.Builder
	for _, field := range form.Fields {
		if field.Type == descriptor.TypeHidden {
			continue
		}
		rows.WriteString(`<div class="detail-row" data-field="` + html.EscapeString(field.Name) + `">`)
		rows.WriteString(`<dt>` + html.EscapeString(field.DisplayLabel()) + `</dt><dd>`)
		if err := r.renderValue(&rows, field, record[field.Name]); err != nil {
			return nil, err
		}
		rows.WriteString(`</dd></div>`)
	}

	rendered, err := r.templates.RenderTemplate("detail", map[string]any{
		"id":    form.ID,
		"title": form.Title,
		"rows":  rows.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("html: render detail %q: %w", form.ID, err)
	}
	return []byte(rendered), nil
}

func (r *Renderer) renderValue(b *strings.Builder, field descriptor.Field, value any) error {
	if value == nil {
		b.WriteString(`<span class="empty">&mdash;</span>`)
		return nil
	}

	switch field.Type {
	case descriptor.TypeCheckbox:
		if truthy(value) {
			b.WriteString("Yes")
		} else {
			b.WriteString("No")
		}

	case descriptor.TypeSelect:
		cfg, err := field.SelectConfig()
		if err != nil {
			return fmt.Errorf("html: field %q: %w", field.Name, err)
		}
		b.WriteString(html.EscapeString(choiceLabel(cfg.Options, stringify(value))))

	case descriptor.TypeMultiSelect:
		cfg, err := field.SelectConfig()
		if err != nil {
			return fmt.Errorf("html: field %q: %w", field.Name, err)
		}
		labels := make([]string, 0, 4)
		for item := range stringSet(value) {
			labels = append(labels, choiceLabel(cfg.Options, item))
		}
		sort.Strings(labels)
		b.WriteString(html.EscapeString(strings.Join(labels, ", ")))

	case descriptor.TypeImage:
		b.WriteString(`<img class="detail-image" src="` + html.EscapeString(stringify(value)) + `" alt="` + html.EscapeString(field.DisplayLabel()) + `">`)

	case descriptor.TypeFile:
		src := stringify(value)
		b.WriteString(`<a href="` + html.EscapeString(src) + `">` + html.EscapeString(src) + `</a>`)

	case descriptor.TypeDateRange:
		if pair, ok := value.(map[string]any); ok {
			b.WriteString(html.EscapeString(stringify(pair["startDate"])))
			b.WriteString(` &ndash; `)
			b.WriteString(html.EscapeString(stringify(pair["endDate"])))
		} else {
			b.WriteString(html.EscapeString(stringify(value)))
		}

	case descriptor.TypeArray:
		cfg, err := field.ArrayConfig()
		if err != nil {
			return fmt.Errorf("html: field %q: %w", field.Name, err)
		}
		rows, _ := value.([]any)
		b.WriteString(`<ul class="detail-list">`)
		for _, row := range rows {
			rowValues, _ := row.(map[string]any)
			b.WriteString(`<li>`)
			for i, nested := range cfg.Fields {
				if i > 0 {
					b.WriteString(`, `)
				}
				b.WriteString(html.EscapeString(nested.DisplayLabel()) + `: `)
				if err := r.renderValue(b, nested, rowValues[nested.Name]); err != nil {
					return err
				}
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)

	case descriptor.TypeTextarea:
		// Textarea values may carry user-authored markup; sanitize instead of
		// escaping so rich text survives.
		b.WriteString(r.sanitizer.Sanitize(stringify(value)))

	default:
		b.WriteString(html.EscapeString(stringify(value)))
	}
	return nil
}

func choiceLabel(choices []descriptor.Choice, value string) string {
	for _, choice := range choices {
		if choice.Value == value {
			return choice.Label
		}
	}
	return value
}
