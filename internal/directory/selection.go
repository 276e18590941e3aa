// File: internal/directory/selection.go
package directory

// Selection is the set of directory entries marked for a bulk action.
// The zero value is not usable; create one with NewSelection.
type Selection struct {
	members map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{members: make(map[string]struct{})}
}

// Toggle flips membership of a single entry.
func (s *Selection) Toggle(id string) {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
	} else {
		s.members[id] = struct{}{}
	}
}

// ToggleAll applies the all-or-none rule against the currently visible
// IDs: if every visible ID is already selected they are all deselected,
// otherwise all of them become selected. An empty visible list is a no-op.
func (s *Selection) ToggleAll(visibleIDs []string) {
	if len(visibleIDs) == 0 {
		return
	}

	allSelected := true
	for _, id := range visibleIDs {
		if _, ok := s.members[id]; !ok {
			allSelected = false
			break
		}
	}

	for _, id := range visibleIDs {
		if allSelected {
			delete(s.members, id)
		} else {
			s.members[id] = struct{}{}
		}
	}
}

// Has reports whether an entry is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Count returns the number of selected entries.
func (s *Selection) Count() int {
	return len(s.members)
}

// IDs returns the selected entry IDs in unspecified order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	return ids
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.members = make(map[string]struct{})
}
