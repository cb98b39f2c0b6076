package crud

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Routes mounts the CRUD endpoints on router under basePath:
//
//	GET    {base}/{resource}          list (JSON)
//	POST   {base}/{resource}          create
//	GET    {base}/{resource}/new      HTML create form
//	GET    {base}/{resource}/{id}     detail (HTML or JSON by Accept)
//	GET    {base}/{resource}/{id}/edit HTML edit form
//	PUT    {base}/{resource}/{id}     update
//	DELETE {base}/{resource}/{id}     delete
//
// Form posts may tunnel PUT/DELETE through POST with a _method field.
func (c *Component) Routes(router *mux.Router, basePath string) error {
	if router == nil {
		return fmt.Errorf("crud: missing router")
	}

	sub := router.PathPrefix(normalizeBase(basePath)).Subrouter()
	sub.Use(c.requestLogger)

	sub.HandleFunc("/{resource}", c.handleList).Methods(http.MethodGet)
	sub.HandleFunc("/{resource}", c.handleCreate).Methods(http.MethodPost)
	sub.HandleFunc("/{resource}/new", c.handleNewForm).Methods(http.MethodGet)
	sub.HandleFunc("/{resource}/{id}", c.handleGet).Methods(http.MethodGet)
	sub.HandleFunc("/{resource}/{id}/edit", c.handleEditForm).Methods(http.MethodGet)
	sub.HandleFunc("/{resource}/{id}", c.handleUpdate).Methods(http.MethodPut)
	sub.HandleFunc("/{resource}/{id}", c.handleDelete).Methods(http.MethodDelete)
	sub.HandleFunc("/{resource}/{id}", c.handleMethodOverride).Methods(http.MethodPost)
	return nil
}

// handleMethodOverride tunnels PUT/DELETE through a POST form submission
// carrying a _method field.
func (c *Component) handleMethodOverride(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	switch strings.ToUpper(r.PostForm.Get("_method")) {
	case http.MethodPut:
		r.Method = http.MethodPut
		c.handleUpdate(w, r)
	case http.MethodDelete:
		r.Method = http.MethodDelete
		c.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		c.writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func normalizeBase(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (c *Component) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		c.logger.WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(started).String(),
		}).Debug("request handled")
	})
}
