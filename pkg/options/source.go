package options

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultPageSize is used when no page size is configured.
	DefaultPageSize = 10

	defaultPageParam     = "page"
	defaultPageSizeParam = "pageSize"
	defaultSearchParam   = "search"
)

// RemoteSource fetches option pages from an HTTP endpoint: GET with
// {page, pageSize, search} query parameters and an Accept-Language header.
// Responses are decoded tolerantly; see decodePage for the accepted shapes.
type RemoteSource struct {
	endpoint      string
	client        *http.Client
	pageSize      int
	pageParam     string
	pageSizeParam string
	searchParam   string
	language      string
	labelKey      string
	valueKey      string
	transform     Transform
}

// RemoteOption configures a RemoteSource.
type RemoteOption func(*RemoteSource)

// WithHTTPClient overrides the HTTP client used for fetches.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(s *RemoteSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithPageSize sets the page size sent with every request. The same value
// drives the has-more heuristic.
func WithPageSize(size int) RemoteOption {
	return func(s *RemoteSource) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithSearchParam renames the search query parameter.
func WithSearchParam(name string) RemoteOption {
	return func(s *RemoteSource) {
		if name = strings.TrimSpace(name); name != "" {
			s.searchParam = name
		}
	}
}

// WithLanguage sets the Accept-Language header sent with every request.
func WithLanguage(language string) RemoteOption {
	return func(s *RemoteSource) {
		s.language = strings.TrimSpace(language)
	}
}

// WithOptionKeys names the record keys used to build {label, value} pairs when
// no transform is configured.
func WithOptionKeys(labelKey, valueKey string) RemoteOption {
	return func(s *RemoteSource) {
		if labelKey = strings.TrimSpace(labelKey); labelKey != "" {
			s.labelKey = labelKey
		}
		if valueKey = strings.TrimSpace(valueKey); valueKey != "" {
			s.valueKey = valueKey
		}
	}
}

// WithTransform maps raw records to options, replacing the key-lookup default.
func WithTransform(transform Transform) RemoteOption {
	return func(s *RemoteSource) {
		s.transform = transform
	}
}

// NewRemoteSource constructs a source for the given endpoint URL.
func NewRemoteSource(endpoint string, opts ...RemoteOption) (*RemoteSource, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("options: endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("options: invalid endpoint %q: %w", endpoint, err)
	}

	s := &RemoteSource{
		endpoint:      endpoint,
		client:        http.DefaultClient,
		pageSize:      DefaultPageSize,
		pageParam:     defaultPageParam,
		pageSizeParam: defaultPageSizeParam,
		searchParam:   defaultSearchParam,
		labelKey:      "label",
		valueKey:      "value",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// PageSize reports the configured page size.
func (s *RemoteSource) PageSize() int { return s.pageSize }

// FetchPage requests one page. HasMore is inferred from the returned item
// count: a full page implies more may exist, a short page implies exhaustion.
// The heuristic over-reports when the last page exactly fills pageSize; a
// server-provided total corrects it when available.
func (s *RemoteSource) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	target, err := url.Parse(s.endpoint)
	if err != nil {
		return Page{}, fmt.Errorf("options: parse endpoint: %w", err)
	}
	query := target.Query()
	query.Set(s.pageParam, strconv.Itoa(req.Page))
	query.Set(s.pageSizeParam, strconv.Itoa(pageSize))
	if search := strings.TrimSpace(req.Search); search != "" {
		query.Set(s.searchParam, search)
	}
	target.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("options: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if s.language != "" {
		httpReq.Header.Set("Accept-Language", s.language)
	}

	res, err := s.client.Do(httpReq)
	if err != nil {
		return Page{}, fmt.Errorf("options: fetch page %d: %w", req.Page, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("options: fetch page %d: unexpected status %d", req.Page, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Page{}, fmt.Errorf("options: read response: %w", err)
	}

	return s.decodePage(body, req.Page, pageSize)
}

// decodePage accepts several response shapes: the option list may live under
// "data", "items", or be the raw top-level array; the total count may live
// under "meta.total", "total", or be inferred from the page arithmetic.
func (s *RemoteSource) decodePage(body []byte, pageNumber, pageSize int) (Page, error) {
	root := gjson.ParseBytes(body)

	list := root.Get("data")
	if !list.Exists() {
		list = root.Get("items")
	}
	if !list.Exists() && root.IsArray() {
		list = root
	}
	if !list.Exists() || !list.IsArray() {
		return Page{}, fmt.Errorf("options: response has no option list")
	}

	items := list.Array()
	opts := make([]Option, 0, len(items))
	for _, item := range items {
		if option, ok := s.mapRecord(item); ok {
			opts = append(opts, option)
		}
	}

	page := Page{
		Options: opts,
		Number:  pageNumber,
		HasMore: len(items) == pageSize,
	}

	explicitTotal := false
	if total := root.Get("meta.total"); total.Exists() {
		page.Total = int(total.Int())
		explicitTotal = true
	} else if total := root.Get("total"); total.Exists() {
		page.Total = int(total.Int())
		explicitTotal = true
	} else {
		page.Total = (pageNumber-1)*pageSize + len(items)
	}

	// An authoritative total trims the heuristic's false positive on an
	// exactly-full final page. Inferred totals stay heuristic-only.
	if explicitTotal && pageNumber*pageSize >= page.Total {
		page.HasMore = false
	}
	return page, nil
}

func (s *RemoteSource) mapRecord(item gjson.Result) (Option, bool) {
	if !item.IsObject() {
		text := item.String()
		if text == "" {
			return Option{}, false
		}
		return Option{Label: text, Value: text}, true
	}

	if s.transform != nil {
		record, _ := item.Value().(map[string]any)
		return s.transform(record)
	}

	label := item.Get(s.labelKey).String()
	value := item.Get(s.valueKey).String()
	if label == "" {
		for _, key := range []string{"name", "title", "label"} {
			if candidate := item.Get(key).String(); candidate != "" {
				label = candidate
				break
			}
		}
	}
	if value == "" {
		if candidate := item.Get("id"); candidate.Exists() {
			value = candidate.String()
		}
	}
	if value == "" {
		value = label
	}
	if label == "" {
		label = value
	}
	if value == "" {
		return Option{}, false
	}
	return Option{Label: label, Value: value}, true
}
