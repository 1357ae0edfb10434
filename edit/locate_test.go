package edit

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/nixed/nix"
)

func mustParse(t *testing.T, src string) *nix.Node {
	t.Helper()

	root, err := nix.ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return root
}

func mustLocate(
	t *testing.T,
	src string,
	category Category,
) (*nix.Node, *Target) {
	t.Helper()

	root := mustParse(t, src)

	target, err := Locate(context.Background(), root, category)
	if err != nil {
		t.Fatalf("locate error: %v", err)
	}

	return root, target
}

func TestLocate_ShapeRejection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category Category
		want     error
	}{
		{
			name:     "root is not a lambda",
			input:    "42",
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "plain attrset without lambda",
			input:    "{ deps = []; }",
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "simple parameter instead of pattern",
			input:    "pkgs: { deps = []; }",
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "pattern does not bind pkgs",
			input:    "{foo}: { deps = []; }",
			category: CategoryRegular,
			want:     ErrMissingParameter,
		},
		{
			name:     "body is not an attrset",
			input:    "{pkgs}: 42",
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "deps is not a list",
			input:    `{pkgs}: { deps = "nope"; }`,
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "deps wrapped in with",
			input:    "{pkgs}: { deps = with pkgs; [ cowsay ]; }",
			category: CategoryRegular,
			want:     ErrShapeMismatch,
		},
		{
			name:     "env is not an attrset",
			input:    "{pkgs}: { env = []; }",
			category: CategoryPython,
			want:     ErrShapeMismatch,
		},
		{
			name: "python value is not an application",
			input: "{pkgs}: { env = {\n" +
				"  PYTHON_LD_LIBRARY_PATH = [];\n}; }",
			category: CategoryPython,
			want:     ErrShapeMismatch,
		},
		{
			name: "callee text differs",
			input: "{pkgs}: { env = {\n" +
				"  PYTHON_LD_LIBRARY_PATH = lib.makeLibraryPath [];\n}; }",
			category: CategoryPython,
			want:     ErrShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input)

			_, err := Locate(context.Background(), root, tt.category)
			if err == nil {
				t.Fatalf("expected locate to fail for %q", tt.input)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if !IsShapeError(err) {
				t.Errorf("expected a shape error, got %v", err)
			}
		})
	}
}

func TestLocate_Anchor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category Category
		want     string
	}{
		{
			name:     "two-space regular",
			input:    "{pkgs}: {\n  deps = [];\n}\n",
			category: CategoryRegular,
			want:     "\n  ",
		},
		{
			name:     "tab indent preserved",
			input:    "{pkgs}: {\n\tdeps = [];\n}\n",
			category: CategoryRegular,
			want:     "\n\t",
		},
		{
			name:     "single line has no anchor",
			input:    "{pkgs}: { deps = []; }",
			category: CategoryRegular,
			want:     "",
		},
		{
			name: "python anchor is env member indent",
			input: "{pkgs}: {\n  env = {\n" +
				"    PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [];\n" +
				"  };\n}\n",
			category: CategoryPython,
			want:     "\n    ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, target := mustLocate(t, tt.input, tt.category)

			if target.Anchor != tt.want {
				t.Errorf("expected anchor %q, got %q", tt.want, target.Anchor)
			}
		})
	}
}

func TestLocate_AutoCreateDeps(t *testing.T) {
	root, target := mustLocate(t, "{pkgs}: {\n  env = {};\n}\n",
		CategoryRegular)

	if target.List.Kind != nix.KindList {
		t.Fatalf("expected list, got %v", target.List.Kind)
	}

	want := "{pkgs}: {\n  env = {};\n  deps = [];\n}\n"
	if got := root.Text(); got != want {
		t.Errorf("unexpected document:\n got: %q\nwant: %q", got, want)
	}
}

func TestLocate_AutoCreateEnv(t *testing.T) {
	root, target := mustLocate(t, Skeleton, CategoryPython)

	if got := len(target.Deps()); got != 0 {
		t.Fatalf("expected empty python list, got %d entries", got)
	}

	want := "{pkgs}: {\n" +
		"  deps = [];\n" +
		"  env = {\n" +
		"    PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [];\n" +
		"  };\n" +
		"}\n"
	if got := root.Text(); got != want {
		t.Errorf("unexpected document:\n got: %q\nwant: %q", got, want)
	}

	if target.Anchor != "\n    " {
		t.Errorf("expected synthesized anchor %q, got %q",
			"\n    ", target.Anchor)
	}
}

func TestLocate_AutoCreatePythonKeyInExistingEnv(t *testing.T) {
	input := "{pkgs}: {\n  deps = [];\n  env = {\n    FOO = \"bar\";\n  };\n}\n"

	root, target := mustLocate(t, input, CategoryPython)

	if got := len(target.Deps()); got != 0 {
		t.Fatalf("expected empty python list, got %d entries", got)
	}

	want := "{pkgs}: {\n  deps = [];\n  env = {\n    FOO = \"bar\";\n" +
		"    PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [];\n" +
		"  };\n}\n"
	if got := root.Text(); got != want {
		t.Errorf("unexpected document:\n got: %q\nwant: %q", got, want)
	}
}

func TestLocate_DoesNotDisturbExistingDocument(t *testing.T) {
	input := "{pkgs}: {\n  deps = [\n    pkgs.cowsay\n  ];\n}\n"

	root, _ := mustLocate(t, input, CategoryRegular)

	if got := root.Text(); got != input {
		t.Errorf("locate mutated a complete document:\n got: %q\nwant: %q",
			got, input)
	}
}
