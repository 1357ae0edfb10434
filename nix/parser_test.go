package nix

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseString_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "minimal document",
			input: "{pkgs}: {\n  deps = [];\n}\n",
		},
		{
			name: "populated deps",
			input: "{pkgs}: {\n  deps = [\n    pkgs.python310\n" +
				"    pkgs.cowsay\n  ];\n}\n",
		},
		{
			name: "comments between members",
			input: "# replit.nix\n{pkgs}: {\n  # toolchain\n  deps = [\n" +
				"    pkgs.go # compiler\n  ];\n}\n",
		},
		{
			name: "python env entry",
			input: "{pkgs}: {\n  deps = [];\n  env = {\n" +
				"    PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [\n" +
				"      pkgs.zlib\n    ];\n  };\n}\n",
		},
		{
			name:  "with expression",
			input: "{pkgs}: {\n  deps = with pkgs; [ cowsay ];\n}\n",
		},
		{
			name:  "pattern with ellipsis and defaults",
			input: "{ pkgs, lib ? pkgs.lib, ... }: { deps = []; }\n",
		},
		{
			name: "let and inherit",
			input: "let\n  ps = import ./pkgs.nix;\nin {\n" +
				"  inherit ps;\n  inherit (ps) gcc;\n}\n",
		},
		{
			name:  "rec set and operators",
			input: "rec { a = 1; b = a + 2 * 3; c = a == 1 && b != 0; }",
		},
		{
			name:  "list concat and update",
			input: "{ x = [ 1 2 ] ++ [ 3 ]; y = { a = 1; } // { b = 2; }; }",
		},
		{
			name:  "strings with interpolation",
			input: `{ s = "pre ${toString 42} post"; t = ''raw ${s}''; }`,
		},
		{
			name:  "if assert select-or",
			input: "{pkgs}: if pkgs ? lib then pkgs.lib.id or null else null",
		},
		{
			name:  "nested lambdas",
			input: "a: b: { pkgs, ... }: a b pkgs\n",
		},
		{
			name:  "paren and unary",
			input: "{ n = -(1 + 2); f = !true; }",
		},
		{
			name:  "dynamic attr key",
			input: `{ ${"key"} = 1; a."quoted" = 2; }`,
		},
		{
			name:  "empty document",
			input: "",
		},
		{
			name:  "only trivia",
			input: "# nothing here\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := root.Text(); got != tt.input {
				t.Errorf("tree text differs from source:\n got: %q\nwant: %q",
					got, tt.input)
			}
		})
	}
}

func TestParseString_Structure(t *testing.T) {
	input := "{pkgs}: {\n  deps = [\n    pkgs.cowsay\n  ];\n}\n"

	root, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if root.Kind != KindRoot {
		t.Fatalf("expected root node, got %v", root.Kind)
	}

	lambda := root.NthNode(0)
	if lambda == nil || lambda.Kind != KindLambda {
		t.Fatalf("expected lambda under root, got %v", lambda)
	}

	pattern := lambda.NthNode(0)
	if pattern == nil || pattern.Kind != KindPattern {
		t.Fatalf("expected pattern parameter, got %v", pattern)
	}

	entry := pattern.NthNode(0)
	if entry == nil || entry.Kind != KindPatEntry {
		t.Fatalf("expected pattern entry, got %v", entry)
	}

	if got := entry.Text(); got != "pkgs" {
		t.Errorf("expected parameter %q, got %q", "pkgs", got)
	}

	body := lambda.NthNode(1)
	if body == nil || body.Kind != KindAttrSet {
		t.Fatalf("expected attrset body, got %v", body)
	}

	kv := body.NthNode(0)
	if kv == nil || kv.Kind != KindKeyValue {
		t.Fatalf("expected key-value member, got %v", kv)
	}

	if got := kv.NthNode(0).Text(); got != "deps" {
		t.Errorf("expected key %q, got %q", "deps", got)
	}

	list := kv.NthNode(1)
	if list == nil || list.Kind != KindList {
		t.Fatalf("expected list value, got %v", list)
	}

	if got := list.CountNodes(); got != 1 {
		t.Fatalf("expected 1 element, got %d", got)
	}

	element := list.NthNode(0)
	if element.Kind != KindSelect || element.Text() != "pkgs.cowsay" {
		t.Errorf("expected select element pkgs.cowsay, got %v %q",
			element.Kind, element.Text())
	}

	// The key-value member owns its terminating semicolon.
	if got := kv.Text(); !strings.HasSuffix(got, ";") {
		t.Errorf("key-value text should end with semicolon: %q", got)
	}
}

func TestParseString_ApplyShape(t *testing.T) {
	input := "{ env = pkgs.lib.makeLibraryPath [ pkgs.zlib ]; }"

	root, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	apply := root.NthNode(0).NthNode(0).NthNode(1)
	if apply == nil || apply.Kind != KindApply {
		t.Fatalf("expected apply value, got %v", apply)
	}

	callee := apply.NthNode(0)
	if callee == nil || callee.Text() != "pkgs.lib.makeLibraryPath" {
		t.Fatalf("expected select callee, got %q", callee.Text())
	}

	arg := apply.NthNode(1)
	if arg == nil || arg.Kind != KindList {
		t.Fatalf("expected list argument, got %v", arg)
	}
}

func TestParseString_ValueLeadingTrivia(t *testing.T) {
	// Whitespace after "=" must stay in the key-value node, not leak into
	// the value expression, so value text starts at its first token.
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "select after spaces",
			input: "{ a =   pkgs.lib.makeLibraryPath; }",
			want:  "pkgs.lib.makeLibraryPath",
		},
		{
			name:  "apply after newline",
			input: "{ a =\n    pkgs.lib.makeLibraryPath [ pkgs.zlib ]; }",
			want:  "pkgs.lib.makeLibraryPath [ pkgs.zlib ]",
		},
		{
			name:  "ident after comment",
			input: "{ a = # note\n  b; }",
			want:  "b",
		},
		{
			name:  "list after tab",
			input: "{ a =\t[ 1 2 ]; }",
			want:  "[ 1 2 ]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := root.Text(); got != tt.input {
				t.Fatalf("round trip broken:\n got: %q\nwant: %q", got, tt.input)
			}

			value := root.NthNode(0).NthNode(0).NthNode(1)
			if value == nil {
				t.Fatal("missing value node")
			}

			if got := value.Text(); got != tt.want {
				t.Errorf("value text %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseString_TriviaAnchors(t *testing.T) {
	input := "{\n  deps = [];\n  env = {};\n}"

	root, err := ParseString(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	set := root.NthNode(0)
	if set.Kind != KindAttrSet {
		t.Fatalf("expected attrset, got %v", set.Kind)
	}

	// Whitespace between members must be direct children of the set so
	// that indentation can be inferred from the token preceding a member.
	var anchors []string

	for _, c := range set.Children {
		if c.Token != nil && c.Token.HasNewline() {
			anchors = append(anchors, c.Token.Text)
		}
	}

	want := []string{"\n  ", "\n  ", "\n"}
	if len(anchors) != len(want) {
		t.Fatalf("expected %d newline anchors, got %v", len(want), anchors)
	}

	for i := range want {
		if anchors[i] != want[i] {
			t.Errorf("anchor %d: expected %q, got %q", i, want[i], anchors[i])
		}
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantEOF bool
	}{
		{name: "unterminated attrset", input: "{pkgs}: {", wantEOF: true},
		{name: "unterminated list", input: "{ deps = [ a", wantEOF: true},
		{name: "missing semicolon", input: "{ a = 1 }", wantEOF: false},
		{name: "missing value", input: "{ a = ; }", wantEOF: false},
		{name: "trailing garbage", input: "{ a = 1; } extra = oops", wantEOF: false},
		{name: "lone operator", input: "++", wantEOF: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.input)
			}

			if got := errors.Is(err, ErrUnexpectedEOF); got != tt.wantEOF {
				t.Errorf("errors.Is(err, ErrUnexpectedEOF) = %v, want %v (err: %v)",
					got, tt.wantEOF, err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected a positioned parse error, got %v", err)
			}

			if perr.Line < 1 || perr.Column < 1 {
				t.Errorf("invalid position %d:%d", perr.Line, perr.Column)
			}
		})
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	input := strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40)

	if _, err := ParseString(context.Background(), input); err != nil {
		t.Fatalf("default depth should accept input: %v", err)
	}

	_, err := ParseString(context.Background(), input, WithMaxDepth(10))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("expected depth error, got %v", err)
	}
}
