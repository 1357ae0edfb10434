package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, doc string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	return resolver
}

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	value, err := r.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: name},
	})
	if err != nil {
		t.Fatalf("Resolve(%q) error: %v", name, err)
	}

	return value
}

func TestResolve_TopLevelKeys(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, "path: /tmp/replit.nix\ndep-type: python\n")

	if got := resolveFlag(t, r, "path"); got != "/tmp/replit.nix" {
		t.Errorf("path = %v, want /tmp/replit.nix", got)
	}

	if got := resolveFlag(t, r, "dep-type"); got != "python" {
		t.Errorf("dep-type = %v, want python", got)
	}
}

func TestResolve_NamedSection(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, "config:\n  log-level: debug\nother:\n  ignored: true\n")

	if got := resolveFlag(t, r, "log-level"); got != "debug" {
		t.Errorf("log-level = %v, want debug", got)
	}

	// Keys outside the named section are not visible.
	if got := resolveFlag(t, r, "ignored"); got != nil {
		t.Errorf("ignored = %v, want nil", got)
	}
}

func TestResolve_UnderscoreVariant(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, "log_level: warn\n")

	if got := resolveFlag(t, r, "log-level"); got != "warn" {
		t.Errorf("log-level = %v, want warn", got)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, "count: 42\nratio: 1.5\n")

	if got := resolveFlag(t, r, "count"); got != "42" {
		t.Errorf("count = %v (%T), want \"42\"", got, got)
	}

	if got := resolveFlag(t, r, "ratio"); got != "1.5" {
		t.Errorf("ratio = %v (%T), want \"1.5\"", got, got)
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, ": not: [valid\n")

	// A file that fails to parse resolves nothing.
	if got := resolveFlag(t, r, "path"); got != nil {
		t.Errorf("path = %v, want nil", got)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	t.Parallel()

	r := loadConfig(t, "path: /tmp/replit.nix\n")

	if got := resolveFlag(t, r, "human"); got != nil {
		t.Errorf("human = %v, want nil", got)
	}
}
