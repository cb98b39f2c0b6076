package render

import (
	"context"

	"github.com/goliatone/go-admin/pkg/descriptor"
)

// Renderer converts a form definition into a byte representation (HTML, JSON
// for API clients, etc.). RenderDetail produces the read-only record view for
// the same definition.
type Renderer interface {
	Name() string
	ContentType() string
	RenderForm(ctx context.Context, form descriptor.Form, opts Options) ([]byte, error)
	RenderDetail(ctx context.Context, form descriptor.Form, record map[string]any, opts Options) ([]byte, error)
}

// Options carry per-request data renderers can use without mutating the form
// definition.
type Options struct {
	// Values pre-populates controls, keyed by field name.
	Values map[string]any
	// Errors surfaces validation feedback keyed by dotted field path.
	Errors map[string][]string
	// Message is a single form-level message (submission failure text).
	Message string
	// Hidden adds hidden inputs (CSRF tokens, version fields) to form output.
	Hidden map[string]string
}
