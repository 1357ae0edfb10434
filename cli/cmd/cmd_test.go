package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ardnew/nixed/edit"
)

func TestWithEditor(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "replit.nix")
	e := edit.Make(path)

	ctx := WithEditor(context.Background(), e)

	if got := editorFrom(ctx); got.Path() != path {
		t.Errorf("editorFrom path = %q, want %q", got.Path(), path)
	}
}

func TestWithEditorMissing(t *testing.T) {
	t.Parallel()

	// A context without an editor yields the zero value, not a panic.
	if got := editorFrom(context.Background()); got.Path() != "" {
		t.Errorf("editorFrom on empty context = %q, want zero editor", got.Path())
	}
}

func TestWithCategory(t *testing.T) {
	t.Parallel()

	ctx := WithCategory(context.Background(), edit.CategoryPython)

	if got := categoryFrom(ctx); got != edit.CategoryPython {
		t.Errorf("categoryFrom = %v, want CategoryPython", got)
	}

	// Default when unset is the regular category.
	if got := categoryFrom(context.Background()); got != edit.CategoryRegular {
		t.Errorf("categoryFrom on empty context = %v, want CategoryRegular", got)
	}
}

func TestWithHuman(t *testing.T) {
	t.Parallel()

	if !humanFrom(WithHuman(context.Background(), true)) {
		t.Error("humanFrom = false, want true")
	}

	if humanFrom(context.Background()) {
		t.Error("humanFrom on empty context = true, want false")
	}
}
