package optionsource

import (
	"net/http"

	"github.com/goliatone/go-admin/pkg/options"
)

// GuardFunc rejects requests before they reach the catalog. Return a
// StatusError to control the response code.
type GuardFunc func(r *http.Request) error

// Options configure the handler and routing helpers.
type Options struct {
	RoutePath       string
	PageParam       string
	PageSizeParam   string
	SearchParam     string
	DefaultPageSize int
	MaxPageSize     int
	Guard           GuardFunc

	// Catalog is the full option list served by the handler. Filtering and
	// paging happen in memory.
	Catalog []options.Option
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/options",
		PageParam:       "page",
		PageSizeParam:   "pageSize",
		SearchParam:     "search",
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
}

// NewOptions applies overrides on top of defaults and normalizes the result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/options"
	}
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.PageSizeParam == "" {
		opts.PageSizeParam = "pageSize"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "search"
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.Catalog != nil {
		opts.Catalog = append([]options.Option{}, opts.Catalog...)
	}
	return opts
}

// WithRoutePath overrides the route path used by routing helpers.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithSearchParam overrides the search query parameter name.
func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

// WithPageParams overrides the page and page-size query parameter names.
func WithPageParams(page, pageSize string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if page != "" {
			o.PageParam = page
		}
		if pageSize != "" {
			o.PageSizeParam = pageSize
		}
	}
}

// WithDefaultPageSize sets the page size used when the request omits one.
func WithDefaultPageSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultPageSize = size
	}
}

// WithMaxPageSize caps the page size a client may request.
func WithMaxPageSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxPageSize = size
	}
}

// WithGuard installs a request guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithCatalog sets the option list served by the handler.
func WithCatalog(catalog []options.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if catalog == nil {
			o.Catalog = nil
			return
		}
		o.Catalog = append([]options.Option{}, catalog...)
	}
}

func clampPageSize(size int, opts Options) int {
	if size <= 0 {
		size = opts.DefaultPageSize
	}
	if opts.MaxPageSize > 0 && size > opts.MaxPageSize {
		return opts.MaxPageSize
	}
	return size
}
