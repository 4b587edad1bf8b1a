package core

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter narrows a character listing on the server side.
// Empty fields are not sent.
type Filter struct {
	Name    string `json:"name,omitempty"`
	Species string `json:"species,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// IsZero returns true if the filter has no criteria.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Name) == "" && strings.TrimSpace(f.Species) == "" && f.Page <= 1
}

// Query renders the filter as URL query parameters.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if name := strings.TrimSpace(f.Name); name != "" {
		q.Set("name", name)
	}
	if species := strings.TrimSpace(f.Species); species != "" {
		q.Set("species", species)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// WithPage returns a copy of the filter targeting the given page.
func (f Filter) WithPage(page int) Filter {
	f.Page = page
	return f
}

// ParseFilter parses a filter prompt such as "rick species:human".
// Bare words form the name; "species:" and "name:" prefixes set fields explicitly.
func ParseFilter(input string) Filter {
	var f Filter
	var nameParts []string
	for _, field := range strings.Fields(input) {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			nameParts = append(nameParts, field)
			continue
		}
		switch strings.ToLower(key) {
		case "species", "s":
			f.Species = value
		case "name", "n":
			nameParts = append(nameParts, value)
		default:
			nameParts = append(nameParts, field)
		}
	}
	f.Name = strings.Join(nameParts, " ")
	return f
}

// String renders the filter back in prompt form.
func (f Filter) String() string {
	var parts []string
	if f.Name != "" {
		parts = append(parts, f.Name)
	}
	if f.Species != "" {
		parts = append(parts, "species:"+f.Species)
	}
	return strings.Join(parts, " ")
}
