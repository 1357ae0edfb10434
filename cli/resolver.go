package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults
// from a YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(baseConfig), "/path/to/config.yaml")
//
// The YAML structure is converted as follows:
//   - Flags may appear at the top level or nested under a mapping whose
//     key is name (so shared config files can carry unrelated sections)
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level")
//   - Numbers are converted to strings for Kong's flag parsing
//
// Example config file:
//
//	config:
//	  path: /home/runner/repl/replit.nix
//	  dep-type: python
//	  log_level: debug
//
// Command-line flags override config file values. A file that fails to
// parse resolves no values at all.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var root map[string]any

		if err := yaml.NewDecoder(r).Decode(&root); err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		// Unwrap the named section when present
		if sec, ok := root[name].(map[string]any); ok {
			root = sec
		}

		values := make(config, len(root))
		for key, value := range root {
			values[key] = normalize(value)
		}

		return values, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// normalize converts decoded YAML scalars to the representations Kong
// expects: numbers become strings so flag parsing can re-interpret them.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return v
	}
}
