package domain

import (
	"fmt"
	"strings"
)

// PageSize is the number of list items fetched per page
const PageSize = 10

// SearchResult is an opaque record returned by the search endpoint.
// Only the configured display fields are ever read from it.
type SearchResult map[string]any

// Display joins the given fields with a single space. Missing or null
// fields contribute an empty string.
func (r SearchResult) Display(fields []string) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// ListItem represents a single post shown by the paginated list
type ListItem struct {
	ID    int
	Title string
	Body  string
}

// PageState tracks the paginated list between fetches
type PageState struct {
	Page    int // zero-based
	Total   int
	Loading bool
}

// NewPageState returns the state a freshly mounted list starts with
func NewPageState() PageState {
	return PageState{Page: 0, Total: 0, Loading: true}
}

// TotalPages returns ceil(total/pageSize)
func (s PageState) TotalPages(pageSize int) int {
	if pageSize <= 0 || s.Total <= 0 {
		return 0
	}
	return (s.Total + pageSize - 1) / pageSize
}

// Offset returns the item offset of the current page
func (s PageState) Offset(pageSize int) int {
	return s.Page * pageSize
}
