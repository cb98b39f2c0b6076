package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/schema"
)

// Status is the submission lifecycle tag: idle -> submitting -> {success |
// error} -> idle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// DefaultResetDelay is how long the success state stays visible before the
// form resets to idle and clears its values.
const DefaultResetDelay = 2 * time.Second

// ErrSubmitInFlight is returned when Submit is called while a prior submission
// is still running.
var ErrSubmitInFlight = errors.New("form: submission already in flight")

// SubmitFunc performs the actual submission. A nil return is success; any
// error surfaces to the user and keeps the form editable.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// ValidateFunc is the optional synchronous custom-validation pass executed
// after schema validation and before the submit callback. Returned messages
// block submission; the first one is surfaced.
type ValidateFunc func(values map[string]any) []string

// FieldObserver is notified whenever a field value changes, for cross-field
// reactions such as clearing a dependent select.
type FieldObserver func(name string, previous, next any)

// ValidationError carries the field-scoped issues that blocked a submission.
type ValidationError struct {
	Issues []schema.Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "form: validation failed"
	}
	return e.Issues[0].Message
}

// Form ties the schema, value state, and submission handling together. All
// methods are safe for concurrent use; there is one logical writer per form
// instance.
type Form struct {
	def        descriptor.Form
	schema     schema.Schema
	submit     SubmitFunc
	validate   ValidateFunc
	observer   FieldObserver
	resetDelay time.Duration
	schedule   func(time.Duration, func()) *time.Timer

	mu      sync.Mutex
	values  map[string]any
	status  Status
	message string
	issues  []schema.Issue
	timer   *time.Timer
}

// Option configures a Form.
type Option func(*Form)

// WithCustomValidation registers the synchronous custom-validation pass.
func WithCustomValidation(fn ValidateFunc) Option {
	return func(f *Form) { f.validate = fn }
}

// WithFieldObserver registers a change observer.
func WithFieldObserver(observer FieldObserver) Option {
	return func(f *Form) { f.observer = observer }
}

// WithResetDelay overrides the success display window.
func WithResetDelay(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.resetDelay = d
		}
	}
}

// New builds a form for the given definition. The validation schema is derived
// once here; descriptor problems surface immediately rather than at submit
// time.
func New(def descriptor.Form, submit SubmitFunc, opts ...Option) (*Form, error) {
	if submit == nil {
		return nil, fmt.Errorf("form: submit callback is required")
	}
	s, err := schema.Build(def.Fields)
	if err != nil {
		return nil, err
	}

	f := &Form{
		def:        def,
		schema:     s,
		submit:     submit,
		resetDelay: DefaultResetDelay,
		schedule:   time.AfterFunc,
		status:     StatusIdle,
		values:     defaultValues(def.Fields),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Definition returns the form's descriptor definition.
func (f *Form) Definition() descriptor.Form { return f.def }

// Schema returns the derived validation schema.
func (f *Form) Schema() schema.Schema { return f.schema }

// Status reports the current lifecycle state.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Message returns the surfaced error message, empty outside the error state.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Issues returns the field-scoped issues from the last failed validation.
func (f *Form) Issues() []schema.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]schema.Issue(nil), f.issues...)
}

// Values returns a copy of the current value map.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyValues(f.values)
}

// SetValue applies one field value and notifies the observer on change.
// Values are rejected while a submission is in flight.
func (f *Form) SetValue(name string, value any) {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return
	}
	previous, had := f.values[name]
	f.values[name] = value
	observer := f.observer
	f.mu.Unlock()

	if observer != nil && (!had || !reflect.DeepEqual(previous, value)) {
		observer(name, previous, value)
	}
}

// SetValues applies a batch of values, notifying the observer per change.
func (f *Form) SetValues(values map[string]any) {
	for name, value := range values {
		f.SetValue(name, value)
	}
}

// Submit runs the full submission lifecycle: schema validation, the optional
// custom pass, then the submit callback. Validation failures and callback
// errors move the form to the error state with values retained so the user
// can correct and resubmit; nothing retries automatically. Success holds for
// the reset delay, then clears values and returns to idle.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.status = StatusSubmitting
	f.message = ""
	f.issues = nil
	values := copyValues(f.values)
	f.mu.Unlock()

	if issues := f.schema.Validate(values); len(issues) > 0 {
		err := &ValidationError{Issues: issues}
		f.fail(issues[0].Message, issues)
		return err
	}

	if f.validate != nil {
		if messages := f.validate(values); len(messages) > 0 {
			f.fail(messages[0], nil)
			return errors.New(messages[0])
		}
	}

	if err := f.submit(ctx, values); err != nil {
		f.fail(err.Error(), nil)
		return err
	}

	f.mu.Lock()
	f.status = StatusSuccess
	f.timer = f.schedule(f.resetDelay, f.resetAfterSuccess)
	f.mu.Unlock()
	return nil
}

// Reset returns the form to idle with descriptor defaults. It refuses to run
// while a submission is in flight, mirroring the disabled cancel control.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrSubmitInFlight
	}
	f.resetLocked()
	return nil
}

func (f *Form) fail(message string, issues []schema.Issue) {
	f.mu.Lock()
	f.status = StatusError
	f.message = message
	f.issues = issues
	f.mu.Unlock()
}

func (f *Form) resetAfterSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != StatusSuccess {
		return
	}
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.status = StatusIdle
	f.message = ""
	f.issues = nil
	f.values = defaultValues(f.def.Fields)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func defaultValues(fields []descriptor.Field) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Default != nil {
			values[field.Name] = field.Default
		}
	}
	return values
}

func copyValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		out[name] = value
	}
	return out
}
