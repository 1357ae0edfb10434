package edit

import (
	"strings"

	"github.com/ardnew/nixed/nix"
	"github.com/ardnew/nixed/nix/token"
)

// Insert adds entry to the front of the located list, inferring
// indentation from the target's anchor. Inserting an entry that is
// already present, compared by exact text, leaves the tree untouched.
func (t *Target) Insert(entry string) error {
	if entry == "" {
		return ErrNoEntry
	}

	for element := range t.List.Nodes() {
		if element.Text() == entry {
			return nil
		}
	}

	base := indentWidth(t.Anchor)
	indent := base + 2

	// A single-line list (including "[]") needs its closing bracket
	// pushed onto its own line; a multi-line list already has one.
	multiline := strings.Contains(t.List.Text(), "\n")

	index := openingBracketIndex(t.List)
	if index < 0 {
		return shapeErr(nix.KindList, t.List, "list")
	}

	// The entry is stored as a single raw token: entries are compared and
	// serialized by their exact source text, never by structure.
	node := &nix.Node{
		Kind: nix.KindIdent,
		Children: []nix.Child{
			nix.TokenChild(token.Synthetic(token.Ident, entry)),
		},
	}

	children := []nix.Child{
		nix.TokenChild(token.Synthetic(token.Whitespace,
			"\n"+strings.Repeat(" ", indent))),
		nix.NodeChild(node),
	}

	if !multiline {
		children = append(children, nix.TokenChild(
			token.Synthetic(token.Whitespace,
				"\n"+strings.Repeat(" ", base))))
	}

	t.List.Splice(index+1, children...)

	return nil
}

// indentWidth returns the width of an anchor's trailing indentation: its
// length excluding newline characters.
func indentWidth(anchor string) int {
	width := 0

	for _, r := range anchor {
		if r != '\n' && r != '\r' {
			width++
		}
	}

	return width
}

// openingBracketIndex returns the child index of the list's opening
// bracket.
func openingBracketIndex(list *nix.Node) int {
	for i, c := range list.Children {
		if c.Token != nil && c.Token.Kind == token.LBracket {
			return i
		}
	}

	return -1
}
