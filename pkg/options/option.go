package options

import "context"

// Option is the uniform {label, value} pair every raw record is mapped into.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PageRequest identifies one page of an option list. Page numbering starts at
// 1; Search may be empty.
type PageRequest struct {
	Page     int
	PageSize int
	Search   string
}

// Page is one fetched slice of a remote option list.
type Page struct {
	Options []Option
	Number  int
	Total   int
	HasMore bool
}

// Source fetches pages of options. RemoteSource implements it over HTTP;
// tests and static lists can provide their own.
type Source interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req PageRequest) (Page, error)

// FetchPage calls the wrapped function.
func (f SourceFunc) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	return f(ctx, req)
}

// Transform maps a raw record to an option. Returning false drops the record.
type Transform func(record map[string]any) (Option, bool)
