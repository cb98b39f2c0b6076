package crud

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no record matches the given ID.
var ErrNotFound = errors.New("crud: record not found")

// ListParams narrow a List call. Page is 1-based; Search is matched against
// record values in a store-defined way.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

// ListResult carries one page of records plus the total match count.
type ListResult struct {
	Records []map[string]any
	Total   int
}

// Store persists records for one resource. Records are open maps keyed by
// field name; the "id" key is owned by the store.
type Store interface {
	List(ctx context.Context, params ListParams) (ListResult, error)
	Get(ctx context.Context, id string) (map[string]any, error)
	Create(ctx context.Context, values map[string]any) (map[string]any, error)
	Update(ctx context.Context, id string, values map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id string) error
}
