package nix

import (
	"strings"
	"testing"

	"github.com/ardnew/nixed/nix/token"
)

func TestLex_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind // excluding trivia and EOF
	}{
		{
			name:  "punctuation",
			input: "{ } [ ] ( ) ; : , @ =",
			want: []token.Kind{
				token.LBrace, token.RBrace, token.LBracket, token.RBracket,
				token.LParen, token.RParen, token.Semicolon, token.Colon,
				token.Comma, token.At, token.Assign,
			},
		},
		{
			name:  "operators",
			input: "++ + - * // / -> == != <= >= < > && || ! ? ...",
			want: []token.Kind{
				token.Concat, token.Add, token.Sub, token.Mul, token.Update,
				token.Div, token.Implies, token.Equal, token.NotEq,
				token.LessEq, token.GreaterEq, token.Less, token.Greater,
				token.And, token.Or, token.Not, token.Question,
				token.Ellipsis,
			},
		},
		{
			name:  "identifiers and keywords",
			input: "pkgs python310Packages let in rec inherit foo-bar",
			want: []token.Kind{
				token.Ident, token.Ident, token.KwLet, token.KwIn,
				token.KwRec, token.KwInherit, token.Ident,
			},
		},
		{
			name:  "hyphen before non-identifier is subtraction",
			input: "a - 1",
			want:  []token.Kind{token.Ident, token.Sub, token.Integer},
		},
		{
			name:  "hyphen inside identifier",
			input: "gcc-unwrapped",
			want:  []token.Kind{token.Ident},
		},
		{
			name:  "numbers",
			input: "42 3.14",
			want:  []token.Kind{token.Integer, token.Float},
		},
		{
			name:  "paths",
			input: "./overlay.nix /etc/nixos ~/cfg nixpkgs/default.nix",
			want: []token.Kind{
				token.Path, token.Path, token.Path, token.Path,
			},
		},
		{
			name:  "uri",
			input: "https://example.com/archive.tar.gz",
			want:  []token.Kind{token.URI},
		},
		{
			name:  "select chain",
			input: "pkgs.lib.makeLibraryPath",
			want: []token.Kind{
				token.Ident, token.Dot, token.Ident, token.Dot, token.Ident,
			},
		},
		{
			name:  "simple string",
			input: `"hello"`,
			want:  []token.Kind{token.Quote, token.StringText, token.Quote},
		},
		{
			name:  "string with interpolation",
			input: `"a${x}b"`,
			want: []token.Kind{
				token.Quote, token.StringText, token.InterpStart,
				token.Ident, token.RBrace, token.StringText, token.Quote,
			},
		},
		{
			name:  "interpolation containing braces",
			input: `"${ { a = 1; }.a }"`,
			want: []token.Kind{
				token.Quote, token.InterpStart, token.LBrace, token.Ident,
				token.Assign, token.Integer, token.Semicolon, token.RBrace,
				token.Dot, token.Ident, token.RBrace, token.Quote,
			},
		},
		{
			name:  "indented string",
			input: "''\n  line\n''",
			want: []token.Kind{
				token.IndentQuote, token.StringText, token.IndentQuote,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []token.Kind

			for _, tok := range Lex(tt.input) {
				if tok.IsTrivia() || tok.Kind == token.EOF {
					continue
				}

				got = append(got, tok.Kind)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v",
					len(tt.want), len(got), got)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %v, got %v",
						i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestLex_Lossless(t *testing.T) {
	inputs := []string{
		"",
		"{pkgs}: {\n  deps = [\n    pkgs.cowsay\n  ];\n}\n",
		"# leading comment\n{pkgs}: { deps = []; }\n",
		"/* block\n   comment */ 42",
		"\"str with \\\"escape\\\" and ${interp}\"",
		"''\n  indented ''$ and ''' escapes\n''",
		"x: y: x // y",
		"let a = 1; in a + 2",
	}

	for _, input := range inputs {
		var sb strings.Builder

		for _, tok := range Lex(input) {
			sb.WriteString(tok.Text)
		}

		if sb.String() != input {
			t.Errorf("token texts do not reproduce input:\n got: %q\nwant: %q",
				sb.String(), input)
		}
	}
}

func TestLex_WhitespaceRuns(t *testing.T) {
	toks := Lex("{\n  deps = [];\n}")

	var runs []string

	for _, tok := range toks {
		if tok.Kind == token.Whitespace {
			runs = append(runs, tok.Text)
		}
	}

	// Newline and following indentation must stay in one token; the
	// editing operations infer indentation from such runs.
	if len(runs) == 0 || runs[0] != "\n  " {
		t.Fatalf("expected first whitespace run %q, got %v", "\n  ", runs)
	}
}

func TestLex_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated block comment", input: "/* never closed"},
		{name: "stray backslash", input: "\\"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false

			for _, tok := range Lex(tt.input) {
				if tok.Kind == token.Invalid {
					found = true
				}
			}

			if !found {
				t.Errorf("expected an invalid token for %q", tt.input)
			}
		})
	}
}
