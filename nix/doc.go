// Package nix parses Nix expressions into lossless syntax trees.
//
// The parser covers the subset of the language that appears in real
// replit.nix files: lambdas with set patterns, attribute sets, lists,
// attribute selection, function application, let/with/if/assert, strings
// with interpolation, and the usual operators. Whitespace and comments are
// preserved as explicit trivia tokens attached to the tree, so the exact
// source text of any node, and of the whole document, can always be
// recovered with Node.Text.
//
// Trees are parsed with ParseString or ParseReader and edited structurally
// by splicing children; see the edit package for the replit.nix-specific
// operations built on top.
package nix
