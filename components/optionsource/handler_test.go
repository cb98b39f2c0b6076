package optionsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admin/pkg/options"
)

func catalog(n int) []options.Option {
	out := make([]options.Option, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, options.Option{
			Label: fmt.Sprintf("User %02d", i),
			Value: fmt.Sprintf("u-%02d", i),
		})
	}
	return out
}

func getPage(t *testing.T, handler http.Handler, target string) pageResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var page pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return page
}

func TestHandlerPaginates(t *testing.T) {
	handler := Handler(WithCatalog(catalog(25)))

	page := getPage(t, handler, "/options?page=2&pageSize=10")

	if len(page.Data) != 10 {
		t.Fatalf("len(data) = %d, want 10", len(page.Data))
	}
	if page.Data[0].Value != "u-11" {
		t.Errorf("first item = %q, want u-11", page.Data[0].Value)
	}
	want := pageMeta{Total: 25, Page: 2, PageSize: 10, HasMore: true}
	if diff := cmp.Diff(want, page.Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerLastPage(t *testing.T) {
	handler := Handler(WithCatalog(catalog(25)))

	page := getPage(t, handler, "/options?page=3&pageSize=10")

	if len(page.Data) != 5 {
		t.Fatalf("len(data) = %d, want 5", len(page.Data))
	}
	if page.Meta.HasMore {
		t.Error("hasMore = true on the last page")
	}
}

func TestHandlerSearchFilters(t *testing.T) {
	handler := Handler(WithCatalog([]options.Option{
		{Label: "Rosalind Franklin", Value: "rosalind"},
		{Label: "Alan Turing", Value: "alan"},
		{Label: "Grace Hopper", Value: "grace"},
	}))

	page := getPage(t, handler, "/options?search=al")

	values := make([]string, 0, len(page.Data))
	for _, item := range page.Data {
		values = append(values, item.Value)
	}
	// "Alan" is a prefix match and ranks first; "Rosalind" matches inside.
	if diff := cmp.Diff([]string{"alan", "rosalind"}, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if page.Meta.Total != 2 {
		t.Errorf("total = %d, want 2", page.Meta.Total)
	}
}

func TestHandlerClampsPageSize(t *testing.T) {
	handler := Handler(WithCatalog(catalog(50)), WithMaxPageSize(20))

	page := getPage(t, handler, "/options?pageSize=500")

	if len(page.Data) != 20 {
		t.Errorf("len(data) = %d, want clamped 20", len(page.Data))
	}
	if page.Meta.PageSize != 20 {
		t.Errorf("meta pageSize = %d, want 20", page.Meta.PageSize)
	}
}

func TestHandlerDefaultsPageSize(t *testing.T) {
	handler := Handler(WithCatalog(catalog(30)))

	page := getPage(t, handler, "/options")

	if len(page.Data) != 10 {
		t.Errorf("len(data) = %d, want default 10", len(page.Data))
	}
	if page.Meta.Page != 1 {
		t.Errorf("page = %d, want 1", page.Meta.Page)
	}
}

func TestHandlerOutOfRangePageEmpty(t *testing.T) {
	handler := Handler(WithCatalog(catalog(5)))

	page := getPage(t, handler, "/options?page=9")

	if len(page.Data) != 0 {
		t.Errorf("len(data) = %d, want 0", len(page.Data))
	}
	if page.Meta.HasMore {
		t.Error("hasMore = true past the end of the catalog")
	}
	if page.Data == nil {
		t.Error("data should encode as [] not null")
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	handler := Handler(WithCatalog(catalog(5)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/options", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Error("missing Allow header")
	}
}

func TestHandlerGuard(t *testing.T) {
	handler := Handler(
		WithCatalog(catalog(5)),
		WithGuard(func(r *http.Request) error {
			if r.Header.Get("Authorization") == "" {
				return StatusError{Code: http.StatusUnauthorized, Err: errors.New("missing token")}
			}
			return nil
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with auth = %d, want 200", rec.Code)
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/admin/api", WithRoutePath("/users/options"), WithCatalog(catalog(3)))
	if err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}
	if pattern != "/admin/api/users/options" {
		t.Errorf("pattern = %q, want /admin/api/users/options", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/users/options", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegisterRoutesMissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/admin"); err == nil {
		t.Fatal("expected error for nil mux")
	}
}
