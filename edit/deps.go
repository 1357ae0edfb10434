package edit

// Deps returns the located list's entry texts in document order. Entries
// are never deduplicated on read.
func (t *Target) Deps() []string {
	deps := make([]string, 0, t.List.CountNodes())

	for element := range t.List.Nodes() {
		deps = append(deps, element.Text())
	}

	return deps
}
