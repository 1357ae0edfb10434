package edit

import (
	"log/slog"
	"strings"
)

// Category selects which of the two supported lists an operation targets.
type Category int

const (
	// CategoryRegular targets the top-level "deps" list.
	CategoryRegular Category = iota

	// CategoryPython targets the PYTHON_LD_LIBRARY_PATH list inside the
	// "env" attribute set.
	CategoryPython
)

// ParseCategory parses a category name. The empty string selects
// CategoryRegular, matching the operation protocol where dep_type is
// optional.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regular":
		return CategoryRegular, nil

	case "python":
		return CategoryPython, nil

	default:
		return CategoryRegular, ErrUnknownCategory.With(
			slog.String("category", s))
	}
}

// String returns the category name used in flags and the operation
// protocol.
func (c Category) String() string {
	if c == CategoryPython {
		return "python"
	}

	return "regular"
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so Category can be
// used directly as a flag value.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// UnmarshalJSON accepts the category as a JSON string, sharing the
// semantics of UnmarshalText.
func (c *Category) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}

	return c.UnmarshalText([]byte(s))
}

// MarshalJSON emits the category as a JSON string.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
