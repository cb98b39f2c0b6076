// Package options loads remote option lists for paginated select fields. A
// Source fetches {label, value} pages over HTTP (or anything else), and the
// Fetcher layers incremental loading on top: debounced search, load-more
// appends, and a has-more signal inferred from the returned item count.
package options
