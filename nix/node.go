package nix

import (
	"iter"
	"strings"

	"github.com/ardnew/nixed/nix/token"
)

// Child is one slot in a node's ordered child list: either a nested node or
// a token, never both. Tokens carry all source text; nodes only group them.
type Child struct {
	Node  *Node
	Token *token.Token
}

// NodeChild wraps a node as a Child.
func NodeChild(n *Node) Child {
	return Child{Node: n}
}

// TokenChild wraps a token as a Child.
func TokenChild(t token.Token) Child {
	return Child{Token: &t}
}

// Node is a syntax tree node. The tree is lossless: concatenating the texts
// of all tokens in a depth-first walk reproduces the exact source the node
// was parsed from.
//
// Nodes hold no parent references. Mutation is performed by splicing child
// slices, and text is derived from the tree on demand, so aliasing a subtree
// is always safe.
type Node struct {
	Kind     Kind
	Children []Child
}

// Text returns the exact source text of the node.
func (n *Node) Text() string {
	var sb strings.Builder

	n.writeText(&sb)

	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.Token != nil {
			sb.WriteString(c.Token.Text)

			continue
		}

		if c.Node != nil {
			c.Node.writeText(sb)
		}
	}
}

// Span returns the byte range [start, end) of the node in the document it
// was parsed from. The result is only meaningful for freshly parsed trees:
// synthetic tokens introduced by edits carry no position.
func (n *Node) Span() (start, end int) {
	first := n.FirstToken()
	last := n.lastToken()

	if first == nil || last == nil {
		return 0, 0
	}

	return first.Pos, last.End()
}

// FirstToken returns the first token in the node's subtree, or nil for an
// empty node.
func (n *Node) FirstToken() *token.Token {
	for _, c := range n.Children {
		if c.Token != nil {
			return c.Token
		}

		if c.Node != nil {
			if t := c.Node.FirstToken(); t != nil {
				return t
			}
		}
	}

	return nil
}

func (n *Node) lastToken() *token.Token {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]

		if c.Token != nil {
			return c.Token
		}

		if c.Node != nil {
			if t := c.Node.lastToken(); t != nil {
				return t
			}
		}
	}

	return nil
}

// Nodes returns an iterator over the node's direct node children, skipping
// tokens.
func (n *Node) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Children {
			if c.Node == nil {
				continue
			}

			if !yield(c.Node) {
				return
			}
		}
	}
}

// NthNode returns the node's index-th direct node child (counting nodes
// only, as children may interleave with tokens), or nil if there are not
// enough node children.
func (n *Node) NthNode(index int) *Node {
	for child := range n.Nodes() {
		if index == 0 {
			return child
		}

		index--
	}

	return nil
}

// CountNodes returns the number of direct node children.
func (n *Node) CountNodes() int {
	count := 0
	for range n.Nodes() {
		count++
	}

	return count
}

// IndexOf returns the position of the given node within the child list
// (counting both nodes and tokens), or -1 if it is not a direct child.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c.Node == child {
			return i
		}
	}

	return -1
}

// Splice inserts the given children at position index in the child list,
// shifting existing children right. Index must be in [0, len(Children)].
func (n *Node) Splice(index int, children ...Child) {
	out := make([]Child, 0, len(n.Children)+len(children))
	out = append(out, n.Children[:index]...)
	out = append(out, children...)
	out = append(out, n.Children[index:]...)
	n.Children = out
}
