package html

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
)

// componentFunc renders one control for a field. The outer chrome (label,
// description, errors) is owned by the renderer; components only emit the
// input itself.
type componentFunc func(b *strings.Builder, r *Renderer, field descriptor.Field, path string, opts render.Options) error

// componentSet is the closed mapping from field type to control renderer.
// Every FieldType in the descriptor enum has exactly one entry; lookup
// failures indicate a descriptor that should have been rejected upstream.
type componentSet map[descriptor.FieldType]componentFunc

func (s componentSet) lookup(t descriptor.FieldType) (componentFunc, error) {
	component, ok := s[t]
	if !ok {
		return nil, fmt.Errorf("html: no component registered for field type %q", t)
	}
	return component, nil
}

func defaultComponents() componentSet {
	return componentSet{
		descriptor.TypeText:            textInput("text"),
		descriptor.TypeEmail:           textInput("email"),
		descriptor.TypePassword:        textInput("password"),
		descriptor.TypeHidden:          textInput("hidden"),
		descriptor.TypeTextarea:        textareaInput,
		descriptor.TypeNumber:          numberInput,
		descriptor.TypeCheckbox:        checkboxInput,
		descriptor.TypeSelect:          selectInput,
		descriptor.TypeMultiSelect:     multiSelectInput,
		descriptor.TypePaginatedSelect: paginatedSelectInput,
		descriptor.TypeImage:           uploadInput,
		descriptor.TypeFile:            uploadInput,
		descriptor.TypeArray:           arrayGroup,
		descriptor.TypeDateRange:       dateRangeInput,
		descriptor.TypeCustom:          customField,
	}
}

func textInput(inputType string) componentFunc {
	return func(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
		b.WriteString(`<input type="` + inputType + `" id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
		if value := stringify(valueFor(opts, path)); value != "" && inputType != "password" {
			b.WriteString(` value="` + html.EscapeString(value) + `"`)
		}
		writeCommonAttrs(b, field)
		b.WriteString(`>`)
		return nil
	}
}

func textareaInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	b.WriteString(`<textarea id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	writeCommonAttrs(b, field)
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(stringify(valueFor(opts, path))))
	b.WriteString(`</textarea>`)
	return nil
}

func numberInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.NumberConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	b.WriteString(`<input type="number" id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	if value := stringify(valueFor(opts, path)); value != "" {
		b.WriteString(` value="` + html.EscapeString(value) + `"`)
	}
	if cfg.Min != nil {
		b.WriteString(` min="` + formatFloat(*cfg.Min) + `"`)
	}
	if cfg.Max != nil {
		b.WriteString(` max="` + formatFloat(*cfg.Max) + `"`)
	}
	if cfg.Step != 0 {
		b.WriteString(` step="` + formatFloat(cfg.Step) + `"`)
	}
	writeCommonAttrs(b, field)
	b.WriteString(`>`)
	return nil
}

func checkboxInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	b.WriteString(`<label class="checkbox"><input type="checkbox" id="` + controlID(path) + `" name="` + html.EscapeString(path) + `" value="true"`)
	if truthy(valueFor(opts, path)) {
		b.WriteString(` checked`)
	}
	b.WriteString(`> ` + html.EscapeString(field.DisplayLabel()) + `</label>`)
	return nil
}

func selectInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.SelectConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	selected := stringify(valueFor(opts, path))
	b.WriteString(`<select id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	writeCommonAttrs(b, field)
	b.WriteString(`>`)
	if !field.Required {
		b.WriteString(`<option value=""></option>`)
	}
	for _, choice := range cfg.Options {
		b.WriteString(`<option value="` + html.EscapeString(choice.Value) + `"`)
		if choice.Value == selected && selected != "" {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + html.EscapeString(choice.Label) + `</option>`)
	}
	b.WriteString(`</select>`)
	return nil
}

func multiSelectInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.SelectConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	selected := stringSet(valueFor(opts, path))
	b.WriteString(`<select multiple id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	writeCommonAttrs(b, field)
	b.WriteString(`>`)
	for _, choice := range cfg.Options {
		b.WriteString(`<option value="` + html.EscapeString(choice.Value) + `"`)
		if _, ok := selected[choice.Value]; ok {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + html.EscapeString(choice.Label) + `</option>`)
	}
	b.WriteString(`</select>`)
	return nil
}

func paginatedSelectInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.PaginatedSelectConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	searchParam := cfg.SearchParam
	if searchParam == "" {
		searchParam = "search"
	}

	b.WriteString(`<select id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	b.WriteString(` data-paginated-select data-endpoint="` + html.EscapeString(cfg.Endpoint) + `"`)
	b.WriteString(` data-page-size="` + strconv.Itoa(pageSize) + `"`)
	b.WriteString(` data-search-param="` + html.EscapeString(searchParam) + `"`)
	if cfg.DebounceMillis > 0 {
		b.WriteString(` data-debounce="` + strconv.Itoa(cfg.DebounceMillis) + `"`)
	}
	writeCommonAttrs(b, field)
	b.WriteString(`>`)
	// The runtime loads pages lazily; only the current selection renders now.
	if value := stringify(valueFor(opts, path)); value != "" {
		b.WriteString(`<option value="` + html.EscapeString(value) + `" selected>` + html.EscapeString(value) + `</option>`)
	}
	b.WriteString(`</select>`)
	return nil
}

func uploadInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.ImageConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	current := stringify(valueFor(opts, path))
	if current != "" && field.Type == descriptor.TypeImage {
		b.WriteString(`<img class="upload-preview" src="` + html.EscapeString(current) + `" alt="">`)
	}

	b.WriteString(`<input type="file" id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
	if len(cfg.Accept) > 0 {
		b.WriteString(` accept="` + html.EscapeString(strings.Join(cfg.Accept, ",")) + `"`)
	} else if field.Type == descriptor.TypeImage {
		b.WriteString(` accept="image/*"`)
	}
	if cfg.Multiple {
		b.WriteString(` multiple`)
	}
	if cfg.UploadURL != "" {
		b.WriteString(` data-upload-url="` + html.EscapeString(cfg.UploadURL) + `"`)
	}
	if cfg.MaxSize > 0 {
		b.WriteString(` data-max-size="` + strconv.FormatInt(cfg.MaxSize, 10) + `"`)
	}
	b.WriteString(`>`)
	return nil
}

func arrayGroup(b *strings.Builder, r *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.ArrayConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	b.WriteString(`<fieldset class="array-group" data-array="` + html.EscapeString(path) + `"`)
	if cfg.MinItems != nil {
		b.WriteString(` data-min-items="` + strconv.Itoa(*cfg.MinItems) + `"`)
	}
	if cfg.MaxItems != nil {
		b.WriteString(` data-max-items="` + strconv.Itoa(*cfg.MaxItems) + `"`)
	}
	b.WriteString(`>`)

	rows, _ := valueFor(opts, path).([]any)
	for i, row := range rows {
		rowValues, _ := row.(map[string]any)
		rowPath := fmt.Sprintf("%s.%d", path, i)

		childOpts := opts
		childOpts.Values = make(map[string]any, len(cfg.Fields))
		for _, nested := range cfg.Fields {
			childOpts.Values[rowPath+"."+nested.Name] = rowValues[nested.Name]
		}

		b.WriteString(`<div class="array-row" data-row="` + strconv.Itoa(i) + `">`)
		for _, nested := range cfg.Fields {
			if err := r.renderField(b, nested, rowPath+"."+nested.Name, childOpts); err != nil {
				return err
			}
		}
		b.WriteString(`<button type="button" class="remove-row">Remove</button></div>`)
	}

	// Blank row template the runtime clones when the user adds an item.
	templateOpts := opts
	templateOpts.Values = nil
	templateOpts.Errors = nil
	b.WriteString(`<template data-array-template>`)
	b.WriteString(`<div class="array-row">`)
	for _, nested := range cfg.Fields {
		if err := r.renderField(b, nested, path+".__INDEX__."+nested.Name, templateOpts); err != nil {
			return err
		}
	}
	b.WriteString(`<button type="button" class="remove-row">Remove</button></div>`)
	b.WriteString(`</template>`)
	b.WriteString(`<button type="button" class="add-row">Add</button>`)
	b.WriteString(`</fieldset>`)
	return nil
}

func dateRangeInput(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	cfg, err := field.DateRangeConfig()
	if err != nil {
		return fmt.Errorf("html: field %q: %w", path, err)
	}

	if !cfg.Range {
		b.WriteString(`<input type="date" id="` + controlID(path) + `" name="` + html.EscapeString(path) + `"`)
		if value := stringify(valueFor(opts, path)); value != "" {
			b.WriteString(` value="` + html.EscapeString(value) + `"`)
		}
		b.WriteString(`>`)
		return nil
	}

	pair, _ := valueFor(opts, path).(map[string]any)
	b.WriteString(`<div class="daterange" data-daterange="` + html.EscapeString(path) + `">`)
	b.WriteString(`<input type="date" name="` + html.EscapeString(path) + `.startDate" aria-label="Start date"`)
	if value := stringify(pair["startDate"]); value != "" {
		b.WriteString(` value="` + html.EscapeString(value) + `"`)
	}
	b.WriteString(`>`)
	b.WriteString(`<input type="date" name="` + html.EscapeString(path) + `.endDate" aria-label="End date"`)
	if value := stringify(pair["endDate"]); value != "" {
		b.WriteString(` value="` + html.EscapeString(value) + `"`)
	}
	b.WriteString(`>`)
	b.WriteString(`</div>`)
	return nil
}

func customField(b *strings.Builder, _ *Renderer, field descriptor.Field, path string, opts render.Options) error {
	b.WriteString(`<div class="custom-field" data-custom="` + html.EscapeString(path) + `"`)
	if value := stringify(valueFor(opts, path)); value != "" {
		b.WriteString(` data-value="` + html.EscapeString(value) + `"`)
	}
	b.WriteString(`></div>`)
	return nil
}

func writeCommonAttrs(b *strings.Builder, field descriptor.Field) {
	if field.Placeholder != "" {
		b.WriteString(` placeholder="` + html.EscapeString(field.Placeholder) + `"`)
	}
	if field.Required {
		b.WriteString(` required`)
	}
}

func valueFor(opts render.Options, path string) any {
	if opts.Values == nil {
		return nil
	}
	return opts.Values[path]
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func stringSet(value any) map[string]struct{} {
	out := make(map[string]struct{})
	switch v := value.(type) {
	case []string:
		for _, item := range v {
			out[item] = struct{}{}
		}
	case []any:
		for _, item := range v {
			out[stringify(item)] = struct{}{}
		}
	}
	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
