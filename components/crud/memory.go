package crud

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for development and tests. Records get
// uuid identifiers and are listed in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]any
	order   []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]any)}
}

// List returns one page of records, optionally filtered by a
// case-insensitive substring match over string values.
func (s *MemoryStore) List(_ context.Context, params ListParams) (ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]map[string]any, 0, len(s.order))
	for _, id := range s.order {
		record := s.records[id]
		if params.Search != "" && !recordMatches(record, params.Search) {
			continue
		}
		matched = append(matched, cloneRecord(record))
	}

	total := len(matched)
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = total
	}

	start := (page - 1) * pageSize
	if start >= total {
		return ListResult{Records: []map[string]any{}, Total: total}, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return ListResult{Records: matched[start:end], Total: total}, nil
}

// Get returns a copy of the record with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(record), nil
}

// Create stores a new record, assigning it a uuid under "id".
func (s *MemoryStore) Create(_ context.Context, values map[string]any) (map[string]any, error) {
	record := cloneRecord(values)
	id := uuid.NewString()
	record["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record
	s.order = append(s.order, id)
	return cloneRecord(record), nil
}

// Update merges values into the existing record. The "id" key cannot be
// overwritten.
func (s *MemoryStore) Update(_ context.Context, id string, values map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	for key, value := range values {
		if key == "id" {
			continue
		}
		record[key] = value
	}
	return cloneRecord(record), nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func recordMatches(record map[string]any, search string) bool {
	needle := strings.ToLower(search)
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value, ok := record[key].(string); ok {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

func cloneRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for key, value := range record {
		out[key] = value
	}
	return out
}
