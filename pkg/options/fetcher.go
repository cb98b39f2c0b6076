package options

import (
	"context"
	"sync"
	"time"
)

// State is the fetcher lifecycle tag.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// DefaultDebounce is the quiet period Search waits for before firing.
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is a point-in-time copy of fetcher state handed to observers.
type Snapshot struct {
	State   State
	Options []Option
	Page    int
	Total   int
	HasMore bool
	Search  string
	Err     error
}

// Fetcher manages incremental, searchable, paginated loading of a remote
// option list. Init replaces the list with page 1, Search debounces rapid
// calls and resets to page 1, LoadMore appends the next page while a prior
// page reported more results.
//
// Overlapping requests on one fetcher are not serialized: the last response
// to arrive wins, which can briefly resurface stale options after a rapid
// search reset. The stakes are a transient option list, so the race is
// accepted rather than coordinated away.
type Fetcher struct {
	source   Source
	pageSize int
	debounce time.Duration
	observer func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	options []Option
	page    int
	total   int
	hasMore bool
	search  string
	err     error
	timer   *time.Timer
	pending string
	closed  bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithDebounce overrides the search debounce interval.
func WithDebounce(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithFetchPageSize sets the page size requested from the source.
func WithFetchPageSize(size int) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.pageSize = size
		}
	}
}

// WithObserver registers a callback invoked with a snapshot after every state
// change. The callback runs on the fetcher's goroutines; it must not call
// back into the fetcher synchronously.
func WithObserver(observer func(Snapshot)) FetcherOption {
	return func(f *Fetcher) {
		f.observer = observer
	}
}

// NewFetcher constructs a fetcher over the given source.
func NewFetcher(source Source, opts ...FetcherOption) *Fetcher {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Fetcher{
		source:   source,
		pageSize: DefaultPageSize,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Init fetches page 1 with an empty search, replacing any existing options.
func (f *Fetcher) Init() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.search = ""
	f.mu.Unlock()
	f.fetch("", 1, true)
}

// Search schedules a debounced page-1 fetch for the given term. Calls landing
// inside the quiet period coalesce; only the final term fires.
func (f *Fetcher) Search(term string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	f.pending = term
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return
		}
		term := f.pending
		f.search = term
		f.mu.Unlock()
		f.fetch(term, 1, true)
	})
}

// LoadMore fetches the next page and appends it. It is a no-op while a fetch
// is in flight or when the previous page reported exhaustion.
func (f *Fetcher) LoadMore() {
	f.mu.Lock()
	if f.closed || f.state == StateLoading || !f.hasMore {
		f.mu.Unlock()
		return
	}
	search := f.search
	next := f.page + 1
	f.mu.Unlock()
	f.fetch(search, next, false)
}

// Snapshot returns a copy of the current state.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Close cancels the pending debounce timer and the context handed to in-flight
// fetches. The fetcher ignores all triggers afterwards.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
	f.cancel()
}

func (f *Fetcher) fetch(search string, page int, replace bool) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.state = StateLoading
	f.err = nil
	snapshot := f.snapshotLocked()
	f.mu.Unlock()
	f.notify(snapshot)

	go func() {
		result, err := f.source.FetchPage(f.ctx, PageRequest{
			Page:     page,
			PageSize: f.pageSize,
			Search:   search,
		})

		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return
		}
		if err != nil {
			f.state = StateError
			f.err = err
		} else {
			if replace {
				f.options = append([]Option(nil), result.Options...)
			} else {
				f.options = append(f.options, result.Options...)
			}
			f.page = result.Number
			f.total = result.Total
			f.hasMore = result.HasMore
			f.state = StateLoaded
		}
		snapshot := f.snapshotLocked()
		f.mu.Unlock()
		f.notify(snapshot)
	}()
}

func (f *Fetcher) snapshotLocked() Snapshot {
	return Snapshot{
		State:   f.state,
		Options: append([]Option(nil), f.options...),
		Page:    f.page,
		Total:   f.total,
		HasMore: f.hasMore,
		Search:  f.search,
		Err:     f.err,
	}
}

func (f *Fetcher) notify(snapshot Snapshot) {
	if f.observer != nil {
		f.observer(snapshot)
	}
}
