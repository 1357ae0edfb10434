package token

// Kind identifies the lexical class of a token.
type Kind int

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota

	// Invalid marks a span the lexer could not tokenize, such as an
	// unterminated string or block comment.
	Invalid

	// Whitespace is a maximal run of space, tab, carriage return, and
	// newline characters. Runs are never split, so a token that contains a
	// newline also carries the indentation of the following line.
	Whitespace

	// Comment is a line comment ("# ...") or block comment ("/* ... */").
	Comment

	// Ident is an identifier or attribute name.
	Ident

	// Integer and Float are numeric literals.
	Integer
	Float

	// Path is a path literal (./x, /etc/x, ~/x).
	Path

	// URI is a bare URI literal (scheme://...).
	URI

	// Quote delimits an ordinary string ("). IndentQuote delimits an
	// indented string (''). StringText is literal string content between
	// delimiters, including escape sequences.
	Quote
	IndentQuote
	StringText

	// InterpStart begins a string or attrpath interpolation ("${"). The
	// matching terminator is an RBrace token.
	InterpStart

	// Punctuation and delimiters.
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Semicolon
	Colon
	Comma
	Dot
	Ellipsis
	Question
	At
	Assign

	// Operators.
	Concat
	Add
	Sub
	Mul
	Div
	Update
	Less
	LessEq
	Greater
	GreaterEq
	Equal
	NotEq
	And
	Or
	Implies
	Not

	// Keywords.
	KwAssert
	KwElse
	KwIf
	KwIn
	KwInherit
	KwLet
	KwOr
	KwRec
	KwThen
	KwWith
)

// kindName maps each Kind to its display name.
var kindName = map[Kind]string{
	EOF:         "eof",
	Invalid:     "invalid",
	Whitespace:  "whitespace",
	Comment:     "comment",
	Ident:       "identifier",
	Integer:     "integer",
	Float:       "float",
	Path:        "path",
	URI:         "uri",
	Quote:       `"`,
	IndentQuote: "''",
	StringText:  "string text",
	InterpStart: "${",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	LParen:      "(",
	RParen:      ")",
	Semicolon:   ";",
	Colon:       ":",
	Comma:       ",",
	Dot:         ".",
	Ellipsis:    "...",
	Question:    "?",
	At:          "@",
	Assign:      "=",
	Concat:      "++",
	Add:         "+",
	Sub:         "-",
	Mul:         "*",
	Div:         "/",
	Update:      "//",
	Less:        "<",
	LessEq:      "<=",
	Greater:     ">",
	GreaterEq:   ">=",
	Equal:       "==",
	NotEq:       "!=",
	And:         "&&",
	Or:          "||",
	Implies:     "->",
	Not:         "!",
	KwAssert:    "assert",
	KwElse:      "else",
	KwIf:        "if",
	KwIn:        "in",
	KwInherit:   "inherit",
	KwLet:       "let",
	KwOr:        "or",
	KwRec:       "rec",
	KwThen:      "then",
	KwWith:      "with",
}

// String returns a display name for the kind.
func (k Kind) String() string {
	name, ok := kindName[k]
	if !ok {
		return "unknown"
	}

	return name
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// Keyword returns the keyword kind for the given word, or Ident if the word
// is not a reserved keyword.
func Keyword(word string) Kind {
	switch word {
	case "assert":
		return KwAssert
	case "else":
		return KwElse
	case "if":
		return KwIf
	case "in":
		return KwIn
	case "inherit":
		return KwInherit
	case "let":
		return KwLet
	case "or":
		return KwOr
	case "rec":
		return KwRec
	case "then":
		return KwThen
	case "with":
		return KwWith
	default:
		return Ident
	}
}
