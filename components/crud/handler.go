package crud

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
)

type listMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type listResponse struct {
	Data []map[string]any `json:"data"`
	Meta listMeta         `json:"meta"`
}

type recordResponse struct {
	Data map[string]any `json:"data"`
}

type errorResponse struct {
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	state, ok := c.lookup(mux.Vars(r)["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	query := r.URL.Query()
	page := parseIntDefault(query.Get("page"), 1)
	pageSize := parseIntDefault(query.Get("pageSize"), c.pageSize)

	result, err := state.resource.Store.List(r.Context(), ListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   query.Get("search"),
	})
	if err != nil {
		c.storeError(w, r, state, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: result.Records,
		Meta: listMeta{Total: result.Total, Page: page, PageSize: pageSize},
	})
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	state, ok := c.lookup(mux.Vars(r)["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	values, err := decodeValues(r, state.resource.Form.Fields)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if issues := state.schema.Validate(values); len(issues) > 0 {
		c.writeValidationFailure(w, r, state, values, render.ErrorsFromIssues(issues))
		return
	}

	record, err := state.resource.Store.Create(r.Context(), values)
	if err != nil {
		c.storeError(w, r, state, err)
		return
	}

	c.logger.WithFields(map[string]any{
		"resource": state.resource.Name,
		"id":       record["id"],
	}).Info("record created")

	if wantsHTML(r) {
		id, _ := record["id"].(string)
		http.Redirect(w, r, r.URL.Path+"/"+id, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse{Data: record})
}

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, ok := c.lookup(vars["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	record, err := state.resource.Store.Get(r.Context(), vars["id"])
	if err != nil {
		c.storeError(w, r, state, err)
		return
	}

	if wantsHTML(r) {
		c.renderDetailPage(w, r, state, record)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Data: record})
}

func (c *Component) handleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, ok := c.lookup(vars["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	values, err := decodeValues(r, state.resource.Form.Fields)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if issues := state.schema.Validate(values); len(issues) > 0 {
		c.writeValidationFailure(w, r, state, values, render.ErrorsFromIssues(issues))
		return
	}

	record, err := state.resource.Store.Update(r.Context(), vars["id"], values)
	if err != nil {
		c.storeError(w, r, state, err)
		return
	}

	c.logger.WithFields(map[string]any{
		"resource": state.resource.Name,
		"id":       vars["id"],
	}).Info("record updated")

	if wantsHTML(r) {
		http.Redirect(w, r, strings.TrimSuffix(r.URL.Path, "/"+vars["id"]), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Data: record})
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, ok := c.lookup(vars["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	if err := state.resource.Store.Delete(r.Context(), vars["id"]); err != nil {
		c.storeError(w, r, state, err)
		return
	}

	c.logger.WithFields(map[string]any{
		"resource": state.resource.Name,
		"id":       vars["id"],
	}).Info("record deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (c *Component) handleNewForm(w http.ResponseWriter, r *http.Request) {
	state, ok := c.lookup(mux.Vars(r)["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}
	c.renderFormPage(w, r, state, http.StatusOK, render.Options{})
}

func (c *Component) handleEditForm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, ok := c.lookup(vars["resource"])
	if !ok {
		c.writeError(w, http.StatusNotFound, "unknown resource")
		return
	}

	record, err := state.resource.Store.Get(r.Context(), vars["id"])
	if err != nil {
		c.storeError(w, r, state, err)
		return
	}
	c.renderFormPage(w, r, state, http.StatusOK, render.Options{Values: record})
}

func (c *Component) renderFormPage(w http.ResponseWriter, r *http.Request, state resourceState, status int, opts render.Options) {
	renderer, err := c.htmlRenderer()
	if err != nil {
		c.writeError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	body, err := renderer.RenderForm(r.Context(), state.resource.Form, opts)
	if err != nil {
		c.logger.WithError(err).WithField("resource", state.resource.Name).Error("form render failed")
		c.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	w.Write(body)
}

func (c *Component) renderDetailPage(w http.ResponseWriter, r *http.Request, state resourceState, record map[string]any) {
	renderer, err := c.htmlRenderer()
	if err != nil {
		c.writeError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	body, err := renderer.RenderDetail(r.Context(), state.resource.Form, record, render.Options{})
	if err != nil {
		c.logger.WithError(err).WithField("resource", state.resource.Name).Error("detail render failed")
		c.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (c *Component) htmlRenderer() (render.Renderer, error) {
	if c.renderers == nil {
		return nil, errors.New("crud: no renderer registry configured")
	}
	return c.renderers.Get("html")
}

func (c *Component) writeValidationFailure(w http.ResponseWriter, r *http.Request, state resourceState, values map[string]any, fieldErrors map[string][]string) {
	if wantsHTML(r) {
		c.renderFormPage(w, r, state, http.StatusUnprocessableEntity, render.Options{
			Values:  values,
			Errors:  fieldErrors,
			Message: "Please fix the errors below.",
		})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: fieldErrors})
}

func (c *Component) storeError(w http.ResponseWriter, r *http.Request, state resourceState, err error) {
	if errors.Is(err, ErrNotFound) {
		c.writeError(w, http.StatusNotFound, "record not found")
		return
	}
	c.logger.WithError(err).WithFields(map[string]any{
		"resource": state.resource.Name,
		"path":     r.URL.Path,
	}).Error("store operation failed")
	c.writeError(w, http.StatusInternalServerError, "internal error")
}

func (c *Component) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

// decodeValues extracts submitted field values from either a JSON body or an
// HTML form post. Only fields declared on the form are read; unknown keys are
// dropped.
func decodeValues(r *http.Request, fields []descriptor.Field) (map[string]any, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, errors.New("crud: invalid JSON body")
		}
		values := make(map[string]any, len(fields))
		for _, field := range fields {
			if value, ok := raw[field.Name]; ok {
				values[field.Name] = value
			}
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("crud: invalid form body")
	}
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		switch field.Type {
		case descriptor.TypeMultiSelect:
			if items, ok := r.PostForm[field.Name]; ok {
				values[field.Name] = items
			}
		case descriptor.TypeCheckbox:
			// Unchecked boxes are absent from form posts.
			values[field.Name] = r.PostForm.Get(field.Name) != ""
		case descriptor.TypeDateRange:
			start := r.PostForm.Get(field.Name + ".startDate")
			end := r.PostForm.Get(field.Name + ".endDate")
			if start != "" || end != "" {
				values[field.Name] = map[string]any{"startDate": start, "endDate": end}
			} else if single := r.PostForm.Get(field.Name); single != "" {
				values[field.Name] = single
			}
		default:
			if raw, ok := r.PostForm[field.Name]; ok && len(raw) > 0 {
				values[field.Name] = raw[0]
			}
		}
	}
	return values, nil
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "text/html") {
		return true
	}
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data")
}
