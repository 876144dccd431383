package listquery

import "sort"

// Selection is the bulk-select set for a list page, keyed by row id. The
// "select all" checkbox has no stored state; IsAllSelected derives it.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips one row's membership.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Has reports whether a row is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// SelectAll adds every visible row.
func (s *Selection) SelectAll(visible []string) {
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Len reports how many rows are selected.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsAllSelected derives the "select all" checkbox state: true iff the page
// has rows and every rendered row is individually selected. Computed every
// render rather than stored, so deselecting a row or changing the page's row
// set unchecks it with no reset code.
func IsAllSelected(selected *Selection, visible []string) bool {
	if selected == nil || len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !selected.Has(id) {
			return false
		}
	}
	return true
}
