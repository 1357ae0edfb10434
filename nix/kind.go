package nix

// Kind identifies the syntactic class of a node.
type Kind int

const (
	// KindRoot is the document root. Its single node child is the
	// top-level expression; leading and trailing trivia are direct token
	// children.
	KindRoot Kind = iota

	// KindLambda is a function: pattern-or-identifier, colon, body.
	KindLambda

	// KindPattern is a set pattern such as "{ pkgs, ... }". Its node
	// children are KindPatEntry nodes, one per formal parameter.
	KindPattern

	// KindPatEntry is one formal parameter in a pattern, optionally with a
	// default value ("name ? expr").
	KindPatEntry

	// KindAttrSet is an attribute set. Its node children are KindKeyValue
	// and KindInherit members; trivia between members are direct token
	// children.
	KindAttrSet

	// KindKeyValue is one "attrpath = value ;" member, including the
	// terminating semicolon token.
	KindKeyValue

	// KindAttrPath is the dotted key of a KindKeyValue.
	KindAttrPath

	// KindInherit is an "inherit ... ;" member of an attribute set.
	KindInherit

	// KindList is a list. Its node children are the element expressions.
	KindList

	// KindSelect is an attribute selection chain such as
	// "pkgs.lib.makeLibraryPath", optionally with an "or" default.
	KindSelect

	// KindApply is a function application: callee followed by argument.
	KindApply

	// KindWith, KindLet, KindIf, KindAssert are the corresponding keyword
	// expressions.
	KindWith
	KindLet
	KindIf
	KindAssert

	// KindUnary and KindBinary are operator applications.
	KindUnary
	KindBinary

	// KindHasAttr is an "expr ? attrpath" test.
	KindHasAttr

	// KindParen is a parenthesized expression.
	KindParen

	// KindIdent is a bare identifier used as an expression or attribute
	// name.
	KindIdent

	// KindLiteral is a numeric, path, or URI literal.
	KindLiteral

	// KindString is a string literal, ordinary or indented, including any
	// interpolations.
	KindString

	// KindInterp is one "${ expr }" interpolation inside a string or
	// attrpath.
	KindInterp
)

// kindName maps each Kind to its display name.
var kindName = map[Kind]string{
	KindRoot:     "root",
	KindLambda:   "lambda",
	KindPattern:  "pattern",
	KindPatEntry: "pattern entry",
	KindAttrSet:  "attribute set",
	KindKeyValue: "key-value",
	KindAttrPath: "attrpath",
	KindInherit:  "inherit",
	KindList:     "list",
	KindSelect:   "select",
	KindApply:    "apply",
	KindWith:     "with",
	KindLet:      "let",
	KindIf:       "if",
	KindAssert:   "assert",
	KindUnary:    "unary",
	KindBinary:   "binary",
	KindHasAttr:  "has-attr",
	KindParen:    "paren",
	KindIdent:    "identifier",
	KindLiteral:  "literal",
	KindString:   "string",
	KindInterp:   "interpolation",
}

// String returns a display name for the kind.
func (k Kind) String() string {
	name, ok := kindName[k]
	if !ok {
		return "unknown"
	}

	return name
}
