package optionsource

import (
	"sort"
	"strings"

	"github.com/goliatone/go-admin/pkg/options"
)

// Filter returns catalog entries whose label or value contains query,
// case-insensitively. Prefix matches on the label rank first, then
// alphabetical order. An empty query returns the whole catalog.
func Filter(catalog []options.Option, query string) []options.Option {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]options.Option{}, catalog...)
	}

	matches := make([]matchedOption, 0, 32)
	for _, option := range catalog {
		label := strings.ToLower(option.Label)
		value := strings.ToLower(option.Value)
		if !strings.Contains(label, query) && !strings.Contains(value, query) {
			continue
		}
		matches = append(matches, matchedOption{
			option:   option,
			isPrefix: strings.HasPrefix(label, query),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].option.Label < matches[j].option.Label
	})

	out := make([]options.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

// Paginate slices one page out of filtered results. Pages are 1-based; an
// out-of-range page yields an empty slice.
func Paginate(filtered []options.Option, page, pageSize int) []options.Option {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return []options.Option{}
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return append([]options.Option{}, filtered[start:end]...)
}

type matchedOption struct {
	option   options.Option
	isPrefix bool
}
