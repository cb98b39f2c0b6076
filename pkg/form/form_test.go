package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admin/pkg/descriptor"
)

func areaForm() descriptor.Form {
	return descriptor.Form{
		ID: "createArea",
		Fields: []descriptor.Field{
			{Name: "name", Label: "Name", Type: descriptor.TypeText, Required: true},
			{Name: "active", Type: descriptor.TypeCheckbox, Default: true},
		},
	}
}

func TestSubmit_SuccessClearsValuesAfterDelay(t *testing.T) {
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		return nil
	}, WithResetDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.SetValue("name", "North")
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := f.Status(); got != StatusSuccess {
		t.Fatalf("expected success status, got %q", got)
	}

	deadline := time.After(2 * time.Second)
	for f.Status() != StatusIdle {
		select {
		case <-deadline:
			t.Fatal("form never reset to idle")
		case <-time.After(5 * time.Millisecond):
		}
	}

	want := map[string]any{"active": true}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("expected values cleared to defaults (-want +got):\n%s", diff)
	}
}

func TestSubmit_CallbackErrorKeepsValues(t *testing.T) {
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		return errors.New("area name already exists")
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.SetValue("name", "North")
	submitErr := f.Submit(context.Background())
	if submitErr == nil {
		t.Fatal("expected submit error")
	}

	if got := f.Status(); got != StatusError {
		t.Fatalf("expected error status, got %q", got)
	}
	if got := f.Message(); got != "area name already exists" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := f.Values()["name"]; got != "North" {
		t.Fatalf("expected values retained, got %#v", got)
	}
}

func TestSubmit_SchemaValidationBlocksCallback(t *testing.T) {
	called := false
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	submitErr := f.Submit(context.Background())
	if submitErr == nil {
		t.Fatal("expected validation error")
	}
	var validationErr *ValidationError
	if !errors.As(submitErr, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", submitErr)
	}
	if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "name" {
		t.Fatalf("unexpected issues: %#v", validationErr.Issues)
	}
	if called {
		t.Fatal("submit callback must not run on validation failure")
	}
	if got := f.Message(); got != "Name is required" {
		t.Fatalf("unexpected surfaced message %q", got)
	}
}

func TestSubmit_CustomValidationRunsBeforeCallback(t *testing.T) {
	called := false
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		called = true
		return nil
	}, WithCustomValidation(func(values map[string]any) []string {
		if values["name"] == "forbidden" {
			return []string{"that name is reserved", "second message ignored"}
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.SetValue("name", "forbidden")
	submitErr := f.Submit(context.Background())
	if submitErr == nil || submitErr.Error() != "that name is reserved" {
		t.Fatalf("expected first custom message, got %v", submitErr)
	}
	if called {
		t.Fatal("submit callback must not run when custom validation fails")
	}
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	release := make(chan struct{})
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		<-release
		return nil
	}, WithResetDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	f.SetValue("name", "North")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.Submit(context.Background())
	}()

	deadline := time.After(2 * time.Second)
	for f.Status() != StatusSubmitting {
		select {
		case <-deadline:
			t.Fatal("form never entered submitting state")
		case <-time.After(time.Millisecond):
		}
	}

	if err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	if err := f.Reset(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected reset rejected while submitting, got %v", err)
	}

	close(release)
	wg.Wait()
}

func TestSetValue_ObserverSeesChanges(t *testing.T) {
	type change struct {
		name     string
		previous any
		next     any
	}
	var changes []change

	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		return nil
	}, WithFieldObserver(func(name string, previous, next any) {
		changes = append(changes, change{name, previous, next})
	}))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.SetValue("name", "North")
	f.SetValue("name", "North") // unchanged, no notification
	f.SetValue("name", "South")

	want := []change{
		{"name", nil, "North"},
		{"name", "North", "South"},
	}
	if diff := cmp.Diff(want, changes, cmp.AllowUnexported(change{})); diff != "" {
		t.Fatalf("observer changes mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_ErrorThenCorrectedResubmit(t *testing.T) {
	attempts := 0
	f, err := New(areaForm(), func(ctx context.Context, values map[string]any) error {
		attempts++
		if attempts == 1 {
			return errors.New("upstream unavailable")
		}
		return nil
	}, WithResetDelay(5*time.Millisecond))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	f.SetValue("name", "North")
	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected first submit to fail")
	}
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("expected user-initiated retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}
