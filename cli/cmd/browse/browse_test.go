package browse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nixed/edit"
	"github.com/ardnew/nixed/log"
)

func TestFilterDeps(t *testing.T) {
	t.Parallel()

	deps := []string{"pkgs.cowsay", "pkgs.sl", "pkgs.figlet"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query keeps order", query: "", want: deps},
		{name: "blank query keeps order", query: "  ", want: deps},
		{name: "narrows to one", query: "cow", want: []string{"pkgs.cowsay"}},
		{name: "no match", query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := filterDeps(deps, tt.query)

			if len(got) != len(tt.want) {
				t.Fatalf("filterDeps(%q) = %v, want %v", tt.query, got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("filterDeps(%q)[%d] = %q, want %q",
						tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func testModel(t *testing.T, doc string) model {
	t.Helper()

	path := filepath.Join(t.TempDir(), "replit.nix")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := edit.Make(path)

	deps, err := e.Deps(context.Background(), edit.CategoryRegular)
	if err != nil {
		t.Fatalf("deps error: %v", err)
	}

	return newModel(
		context.Background(), e, edit.CategoryRegular, deps, log.Logger{},
	)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Navigation(t *testing.T) {
	t.Parallel()

	m := testModel(t, "{pkgs}: {\n  deps = [\n    pkgs.a\n    pkgs.b\n  ];\n}\n")

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.cursor)
	}

	m, _ = m.handleKey(key("j"))
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	// Cursor clamps at the last entry.
	m, _ = m.handleKey(key("j"))
	if m.cursor != 1 {
		t.Errorf("cursor after second j = %d, want 1", m.cursor)
	}

	m, _ = m.handleKey(key("k"))
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestModel_RemoveReload(t *testing.T) {
	t.Parallel()

	m := testModel(t, "{pkgs}: {\n  deps = [\n    pkgs.a\n    pkgs.b\n  ];\n}\n")

	m, cmd := m.handleKey(key("d"))
	if cmd == nil {
		t.Fatal("expected a remove command")
	}

	raw := cmd()

	msg, ok := raw.(reloadMsg)
	if !ok {
		t.Fatalf("expected reloadMsg, got %T", raw)
	}

	next, _ := m.Update(msg)

	got, ok := next.(model)
	if !ok {
		t.Fatalf("expected model, got %T", next)
	}

	if len(got.deps) != 1 || got.deps[0] != "pkgs.b" {
		t.Errorf("deps after remove = %v, want [pkgs.b]", got.deps)
	}
}

func TestModel_AddEntry(t *testing.T) {
	t.Parallel()

	m := testModel(t, "{pkgs}: {\n  deps = [];\n}\n")

	m, _ = m.handleKey(key("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode after a = %d, want modeAdd", m.mode)
	}

	m.input.SetValue("pkgs.cowsay")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList {
		t.Errorf("mode after enter = %d, want modeList", m.mode)
	}

	if cmd == nil {
		t.Fatal("expected an add command")
	}

	raw := cmd()

	msg, ok := raw.(reloadMsg)
	if !ok {
		t.Fatalf("expected reloadMsg, got %T", raw)
	}

	if len(msg.deps) != 1 || msg.deps[0] != "pkgs.cowsay" {
		t.Errorf("deps after add = %v, want [pkgs.cowsay]", msg.deps)
	}
}

func TestModel_FilterClampsCursor(t *testing.T) {
	t.Parallel()

	m := testModel(t,
		"{pkgs}: {\n  deps = [\n    pkgs.a\n    pkgs.b\n    pkgs.cowsay\n  ];\n}\n")

	m.cursor = 2
	m.filter = "cow"
	refreshVisible(&m)

	if len(m.visible) != 1 {
		t.Fatalf("visible = %v, want one entry", m.visible)
	}

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after filter narrowed the view", m.cursor)
	}
}

func TestModel_OpErrorShown(t *testing.T) {
	t.Parallel()

	m := testModel(t, "{pkgs}: {\n  deps = [];\n}\n")

	next, _ := m.Update(opErrMsg{err: errors.New("boom")})

	got, ok := next.(model)
	if !ok {
		t.Fatalf("expected model, got %T", next)
	}

	if !got.failed || got.status != "boom" {
		t.Errorf("status = (%q, failed=%v), want (boom, true)",
			got.status, got.failed)
	}
}
