package nix

import (
	"strings"

	"github.com/ardnew/nixed/nix/token"
)

// lexFrame tracks one level of string/interpolation nesting. The lexer
// enters a new frame for every "${" so that it can tell whether a "}"
// closes an attribute set or resumes the enclosing string.
type lexFrame struct {
	state lexState
	depth int // open braces within a default-state frame
}

type lexState int

const (
	lexDefault lexState = iota
	lexString
	lexIndentString
)

// lexer scans Nix source into a flat token stream. Every byte of the input
// appears in exactly one token, so concatenating token texts reproduces the
// source.
type lexer struct {
	src    string
	pos    int
	toks   []token.Token
	frames []lexFrame
}

// Lex scans src into tokens, including whitespace and comments as explicit
// trivia tokens. The returned stream always ends with an EOF token.
// Malformed spans (unterminated strings or comments) are returned as
// Invalid tokens; Lex itself never fails.
func Lex(src string) []token.Token {
	l := &lexer{src: src, frames: []lexFrame{{state: lexDefault}}}

	for l.pos < len(l.src) {
		switch l.frame().state {
		case lexString:
			l.scanString()

		case lexIndentString:
			l.scanIndentString()

		default:
			l.scanDefault()
		}
	}

	l.emit(token.EOF, l.pos)

	return l.toks
}

func (l *lexer) frame() *lexFrame {
	return &l.frames[len(l.frames)-1]
}

func (l *lexer) push(state lexState) {
	l.frames = append(l.frames, lexFrame{state: state})
}

func (l *lexer) pop() {
	if len(l.frames) > 1 {
		l.frames = l.frames[:len(l.frames)-1]
	}
}

// emit appends a token spanning [start, l.pos).
func (l *lexer) emit(kind token.Kind, start int) {
	l.toks = append(l.toks, token.Make(kind, l.src[start:l.pos], start))
}

func (l *lexer) at(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}

	return l.src[l.pos+offset]
}

func (l *lexer) scanDefault() {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case isSpace(c):
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}

		l.emit(token.Whitespace, start)

	case c == '#':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}

		l.emit(token.Comment, start)

	case c == '/' && l.at(1) == '*':
		l.scanBlockComment(start)

	case c == '"':
		l.pos++
		l.emit(token.Quote, start)
		l.push(lexString)

	case c == '\'' && l.at(1) == '\'':
		l.pos += 2
		l.emit(token.IndentQuote, start)
		l.push(lexIndentString)

	case c == '$' && l.at(1) == '{':
		l.pos += 2
		l.emit(token.InterpStart, start)
		l.push(lexDefault)

	case c == '{':
		l.pos++
		l.emit(token.LBrace, start)
		l.frame().depth++

	case c == '}':
		l.pos++

		if l.frame().depth > 0 {
			l.frame().depth--
		} else {
			l.pop()
		}

		l.emit(token.RBrace, start)

	case c == '~' && l.at(1) == '/':
		l.scanPath(start)

	case c == '/' && isPathChar(l.at(1)) && l.at(1) != '/':
		l.scanPath(start)

	case c == '.' && (l.at(1) == '/' || (l.at(1) == '.' && l.at(2) == '/')):
		l.scanPath(start)

	case isDigit(c):
		l.scanNumber(start)

	case isIdentStart(c):
		l.scanWord(start)

	default:
		l.scanOperator(start)
	}
}

// scanOperator handles punctuation and multi-byte operators.
func (l *lexer) scanOperator(start int) {
	two := ""
	if l.pos+2 <= len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}

	kind2 := map[string]token.Kind{
		"++": token.Concat,
		"//": token.Update,
		"->": token.Implies,
		"==": token.Equal,
		"!=": token.NotEq,
		"<=": token.LessEq,
		">=": token.GreaterEq,
		"&&": token.And,
		"||": token.Or,
	}

	if kind, ok := kind2[two]; ok {
		l.pos += 2
		l.emit(kind, start)

		return
	}

	kind1 := map[byte]token.Kind{
		'[': token.LBracket,
		']': token.RBracket,
		'(': token.LParen,
		')': token.RParen,
		';': token.Semicolon,
		':': token.Colon,
		',': token.Comma,
		'?': token.Question,
		'@': token.At,
		'=': token.Assign,
		'+': token.Add,
		'-': token.Sub,
		'*': token.Mul,
		'/': token.Div,
		'<': token.Less,
		'>': token.Greater,
		'!': token.Not,
	}

	c := l.src[l.pos]

	if c == '.' {
		if strings.HasPrefix(l.src[l.pos:], "...") {
			l.pos += 3
			l.emit(token.Ellipsis, start)

			return
		}

		l.pos++
		l.emit(token.Dot, start)

		return
	}

	if kind, ok := kind1[c]; ok {
		l.pos++
		l.emit(kind, start)

		return
	}

	l.pos++
	l.emit(token.Invalid, start)
}

func (l *lexer) scanBlockComment(start int) {
	l.pos += 2 // consume /*

	end := strings.Index(l.src[l.pos:], "*/")
	if end < 0 {
		l.pos = len(l.src)
		l.emit(token.Invalid, start)

		return
	}

	l.pos += end + 2
	l.emit(token.Comment, start)
}

// scanWord scans an identifier, keyword, URI, or relative path.
func (l *lexer) scanWord(start int) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isIdentChar(c) {
			l.pos++

			continue
		}

		// A hyphen continues the identifier only when followed by another
		// identifier character; otherwise it is the subtraction or arrow
		// operator.
		if c == '-' && isIdentChar(l.at(1)) {
			l.pos++

			continue
		}

		break
	}

	// scheme:// introduces a bare URI literal.
	if strings.HasPrefix(l.src[l.pos:], "://") {
		l.pos += 3
		for l.pos < len(l.src) && isURIChar(l.src[l.pos]) {
			l.pos++
		}

		l.emit(token.URI, start)

		return
	}

	// ident/more is a relative path literal.
	if l.at(0) == '/' && isPathChar(l.at(1)) && l.at(1) != '/' {
		l.scanPath(start)

		return
	}

	l.emit(token.Keyword(l.src[start:l.pos]), start)
}

func (l *lexer) scanPath(start int) {
	for l.pos < len(l.src) && isPathChar(l.src[l.pos]) {
		l.pos++
	}

	l.emit(token.Path, start)
}

func (l *lexer) scanNumber(start int) {
	kind := token.Integer

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if l.at(0) == '.' && isDigit(l.at(1)) {
		kind = token.Float
		l.pos++

		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	l.emit(kind, start)
}

// scanString scans content within an ordinary "..." string.
func (l *lexer) scanString() {
	start := l.pos

	switch {
	case l.at(0) == '"':
		l.pos++
		l.emit(token.Quote, start)
		l.pop()

		return

	case l.at(0) == '$' && l.at(1) == '{':
		l.pos += 2
		l.emit(token.InterpStart, start)
		l.push(lexDefault)

		return
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		if c == '"' || (c == '$' && l.at(1) == '{') {
			break
		}

		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2

			continue
		}

		l.pos++
	}

	l.emit(token.StringText, start)
}

// scanIndentString scans content within an indented ''...'' string.
func (l *lexer) scanIndentString() {
	start := l.pos

	if l.at(0) == '\'' && l.at(1) == '\'' {
		// ''' and ''$ are escapes; a plain '' terminates the string.
		if l.at(2) != '\'' && l.at(2) != '$' {
			l.pos += 2
			l.emit(token.IndentQuote, start)
			l.pop()

			return
		}
	}

	if l.at(0) == '$' && l.at(1) == '{' {
		l.pos += 2
		l.emit(token.InterpStart, start)
		l.push(lexDefault)

		return
	}

	for l.pos < len(l.src) {
		if l.at(0) == '\'' && l.at(1) == '\'' {
			if l.at(2) == '\'' || l.at(2) == '$' {
				l.pos += 3

				continue
			}

			break
		}

		if l.at(0) == '$' && l.at(1) == '{' {
			break
		}

		l.pos++
	}

	l.emit(token.StringText, start)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}

func isPathChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) ||
		c == '.' || c == '-' || c == '+' || c == '_' || c == '/' || c == '~'
}

func isURIChar(c byte) bool {
	return isPathChar(c) ||
		c == ':' || c == '?' || c == '&' || c == '=' || c == '%' || c == '#' ||
		c == '@'
}
