// Package token defines the lexical tokens of the Nix expression subset
// understood by the nix package.
//
// Tokens carry their exact source text and byte offset so that a parsed
// tree can be re-serialized byte-for-byte, including whitespace and
// comments.
package token

import "strings"

// Token is a single lexeme with its exact source text and byte offset.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// Make returns a token of the given kind with the given text and offset.
func Make(kind Kind, text string, pos int) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

// Synthetic returns a token that was not produced by the lexer, such as
// whitespace fabricated during an edit. Its offset is -1 to mark that it has
// no position in the original document.
func Synthetic(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text, Pos: -1}
}

// End returns the byte offset one past the last byte of the token.
// The result is meaningless for synthetic tokens.
func (t Token) End() int {
	return t.Pos + len(t.Text)
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool {
	return t.Kind.IsTrivia()
}

// HasNewline reports whether the token text contains a line break.
func (t Token) HasNewline() bool {
	return strings.ContainsRune(t.Text, '\n')
}
