package tabular

import (
	"fmt"
	"sort"
	"strings"
)

// Format describes one known column-naming scheme. Required lists canonical
// field names that must resolve for the format to match; Aliases maps each
// canonical field to the header spellings that may carry it. Matching is
// case-insensitive and ignores surrounding whitespace.
type Format struct {
	Name     string
	Required []string
	Aliases  map[string][]string
}

// Mapping binds canonical fields to column positions for one detected format.
type Mapping struct {
	Format  *Format
	columns map[string]int
}

// MissingColumnsError is fatal: no candidate format could resolve its required
// fields, so the run aborts before any row is processed.
type MissingColumnsError struct {
	Missing []string
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf(
		"no known column scheme matches: missing %s (found columns: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Headers, ", "),
	)
}

// Detect tries each candidate format in priority order and returns the first
// whose required fields all resolve against the header row. A candidate whose
// table matches only partially falls through to the next one.
func Detect(headers []string, candidates []*Format) (*Mapping, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimPrefix(h, "\uFEFF")
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	missing := map[string]struct{}{}
	for _, f := range candidates {
		m, miss := f.match(normalized)
		if len(miss) == 0 {
			return m, nil
		}
		for _, c := range miss {
			missing[c] = struct{}{}
		}
	}

	names := make([]string, 0, len(missing))
	for c := range missing {
		names = append(names, c)
	}
	sort.Strings(names)
	return nil, &MissingColumnsError{Missing: names, Headers: headers}
}

func (f *Format) match(normalized []string) (*Mapping, []string) {
	columns := make(map[string]int, len(f.Aliases))
	for field, aliases := range f.Aliases {
		for i, h := range normalized {
			if containsFold(aliases, h) {
				columns[field] = i
				break
			}
		}
	}

	var missing []string
	for _, field := range f.Required {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}
	return &Mapping{Format: f, columns: columns}, nil
}

func containsFold(aliases []string, header string) bool {
	for _, a := range aliases {
		if strings.EqualFold(a, header) {
			return true
		}
	}
	return false
}

// Get returns the raw value of a canonical field for one row, or "" when the
// format has no column for it or the row is short.
func (m *Mapping) Get(row Row, field string) string {
	i, ok := m.columns[field]
	if !ok || i >= len(row.Fields) {
		return ""
	}
	return row.Fields[i]
}

// GetTrimmed is Get with surrounding whitespace removed.
func (m *Mapping) GetTrimmed(row Row, field string) string {
	return strings.TrimSpace(m.Get(row, field))
}

// Has reports whether the detected format resolved a column for field.
func (m *Mapping) Has(field string) bool {
	_, ok := m.columns[field]
	return ok
}

const maxOptionSlots = 3

// OptionValue scans the numbered option-slot column pairs of a storefront
// export for a slot whose declared name matches target (case-insensitive)
// and returns its paired value.
func (m *Mapping) OptionValue(row Row, target string) string {
	for i := 1; i <= maxOptionSlots; i++ {
		name := m.GetTrimmed(row, fmt.Sprintf("option%d_name", i))
		if strings.EqualFold(name, target) {
			return m.GetTrimmed(row, fmt.Sprintf("option%d_value", i))
		}
	}
	return ""
}
