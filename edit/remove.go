package edit

import (
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// Remove deletes the first list element whose exact text matches entry
// from doc, the document text the target was located in, and returns the
// new document text. The element's leading whitespace is removed with it,
// so no ragged blank line is left behind.
//
// Removal works on the raw character buffer rather than the tree: the
// element's source range is known, and trimming its indentation backward
// over characters is exact where token surgery would not be.
func Remove(doc string, t *Target, entry string) (string, error) {
	if entry == "" {
		return "", ErrNoEntry
	}

	for element := range t.List.Nodes() {
		if element.Text() != entry {
			continue
		}

		start, end := element.Span()
		if start < 0 || end > len(doc) {
			break
		}

		for start > 0 && isIndentChar(doc[start-1]) {
			start--
		}

		return doc[:start] + doc[end:], nil
	}

	return "", notFound(t, entry)
}

// notFound builds the lookup failure, suggesting the closest existing
// entry when one resembles the requested text.
func notFound(t *Target, entry string) error {
	err := ErrNotFound.With(slog.String("dependency", entry))

	deps := t.Deps()

	if matches := fuzzy.Find(entry, deps); len(matches) > 0 {
		suggestion := matches[0].Str

		return err.
			With(slog.String("closest", suggestion)).
			Wrap(fmt.Errorf("%q (did you mean %q?)", entry, suggestion))
	}

	return err.Wrap(fmt.Errorf("%q", entry))
}

func isIndentChar(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
