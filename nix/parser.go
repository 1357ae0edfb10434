package nix

import (
	"github.com/ardnew/nixed/log"
	"github.com/ardnew/nixed/nix/token"
)

// parser is a recursive-descent parser over the lexed token stream. Every
// token the lexer produced, trivia included, is attached to exactly one
// node, so the resulting tree serializes back to the original source.
type parser struct {
	src      string
	toks     []token.Token
	pos      int
	depth    int
	maxDepth int
	logger   log.Logger
}

// current returns the token at the cursor without consuming it.
func (p *parser) current() token.Token {
	if p.pos >= len(p.toks) {
		return token.Make(token.EOF, "", len(p.src))
	}

	return p.toks[p.pos]
}

// peek returns the kind of the next non-trivia token without consuming
// anything.
func (p *parser) peek() token.Kind {
	return p.peekN(0)
}

// peekN returns the kind of the index-th non-trivia token ahead of the
// cursor.
func (p *parser) peekN(index int) token.Kind {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].IsTrivia() {
			continue
		}

		if index == 0 {
			return p.toks[i].Kind
		}

		index--
	}

	return token.EOF
}

// peekToken returns the next non-trivia token without consuming anything.
func (p *parser) peekToken() token.Token {
	for i := p.pos; i < len(p.toks); i++ {
		if !p.toks[i].IsTrivia() {
			return p.toks[i]
		}
	}

	return token.Make(token.EOF, "", len(p.src))
}

// flushTrivia moves any whitespace and comment tokens at the cursor into
// parent. Containers call this before parsing each member so that the
// trivia between members becomes a direct child of the container, which is
// what the whitespace-anchor scan during editing depends on.
func (p *parser) flushTrivia(parent *Node) {
	for p.pos < len(p.toks) && p.toks[p.pos].IsTrivia() {
		parent.Children = append(parent.Children, TokenChild(p.toks[p.pos]))
		p.pos++
	}
}

// bump consumes the next non-trivia token into parent, along with any
// trivia preceding it.
func (p *parser) bump(parent *Node) token.Token {
	p.flushTrivia(parent)

	tok := p.current()
	if tok.Kind != token.EOF {
		parent.Children = append(parent.Children, TokenChild(tok))
		p.pos++
	}

	return tok
}

// expect consumes a token of the given kind into parent or fails with a
// positioned parse error.
func (p *parser) expect(parent *Node, kind token.Kind) (token.Token, error) {
	if p.peek() != kind {
		return token.Token{}, p.errExpected(kind.String())
	}

	return p.bump(parent), nil
}

func (p *parser) errExpected(expected ...string) error {
	got := p.peekToken()
	if got.Kind == token.EOF {
		return ErrUnexpectedEOF.Wrap(newParseError(p.src, got, expected...))
	}

	return ErrUnexpectedToken.Wrap(newParseError(p.src, got, expected...))
}

// enter guards against pathological nesting.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrMaxDepthExceeded
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseExpr parses a complete expression, including the loose-binding
// keyword forms (lambda, let, with, if, assert). Trivia preceding the
// expression is flushed into parent, so expression nodes always begin at
// their first token and serialize without leading whitespace.
func (p *parser) parseExpr(parent *Node) (*Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.flushTrivia(parent)

	switch p.peek() {
	case token.KwLet:
		return p.parseLet()

	case token.KwWith:
		return p.parseWith()

	case token.KwIf:
		return p.parseIf()

	case token.KwAssert:
		return p.parseAssert()

	case token.Ident:
		// "x:" and "x @ {...}:" begin a lambda.
		if next := p.peekN(1); next == token.Colon || next == token.At {
			return p.parseLambda()
		}

	case token.LBrace:
		if p.patternAhead() {
			return p.parseLambda()
		}
	}

	return p.parseOpExpr(parent, 1)
}

// patternAhead reports whether the "{" at the cursor opens a lambda
// pattern rather than an attribute set, by scanning for the matching "}"
// and checking the token that follows it.
func (p *parser) patternAhead() bool {
	depth := 0

	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LBrace, token.InterpStart:
			depth++

		case token.RBrace:
			depth--

			if depth == 0 {
				for j := i + 1; j < len(p.toks); j++ {
					if p.toks[j].IsTrivia() {
						continue
					}

					kind := p.toks[j].Kind

					return kind == token.Colon || kind == token.At
				}

				return false
			}
		}
	}

	return false
}

// parseLambda parses "param: body", where param is an identifier, a
// pattern, or either combined with "@".
func (p *parser) parseLambda() (*Node, error) {
	lambda := &Node{Kind: KindLambda}

	if p.peek() == token.Ident {
		ident := &Node{Kind: KindIdent}
		p.flushTrivia(lambda)
		p.bump(ident)
		lambda.Children = append(lambda.Children, NodeChild(ident))

		if p.peek() == token.At {
			p.bump(lambda)

			pattern, err := p.parsePattern(lambda)
			if err != nil {
				return nil, err
			}

			lambda.Children = append(lambda.Children, NodeChild(pattern))
		}
	} else {
		pattern, err := p.parsePattern(lambda)
		if err != nil {
			return nil, err
		}

		lambda.Children = append(lambda.Children, NodeChild(pattern))

		if p.peek() == token.At {
			p.bump(lambda)

			if _, err := p.expect(lambda, token.Ident); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(lambda, token.Colon); err != nil {
		return nil, err
	}

	body, err := p.parseExpr(lambda)
	if err != nil {
		return nil, err
	}

	lambda.Children = append(lambda.Children, NodeChild(body))

	return lambda, nil
}

// parsePattern parses "{ name, name ? default, ... }". Trivia preceding
// the pattern is attached to parent so the pattern starts at its brace.
func (p *parser) parsePattern(parent *Node) (*Node, error) {
	p.flushTrivia(parent)

	pattern := &Node{Kind: KindPattern}

	if _, err := p.expect(pattern, token.LBrace); err != nil {
		return nil, err
	}

	for {
		p.flushTrivia(pattern)

		switch p.peek() {
		case token.RBrace:
			p.bump(pattern)

			return pattern, nil

		case token.Ellipsis:
			p.bump(pattern)

		case token.Comma:
			p.bump(pattern)

		case token.Ident:
			entry := &Node{Kind: KindPatEntry}
			p.bump(entry)

			if p.peek() == token.Question {
				p.bump(entry)

				value, err := p.parseOpExpr(entry, 1)
				if err != nil {
					return nil, err
				}

				entry.Children = append(entry.Children, NodeChild(value))
			}

			pattern.Children = append(pattern.Children, NodeChild(entry))

		default:
			return nil, p.errExpected("}", "...", "identifier")
		}
	}
}

// binaryPrec maps binary operator tokens to their precedence. Higher binds
// tighter. Has-attr "?" is handled here with an attrpath right-hand side.
var binaryPrec = map[token.Kind]int{
	token.Implies:   1,
	token.Or:        2,
	token.And:       3,
	token.Equal:     4,
	token.NotEq:     4,
	token.Less:      5,
	token.LessEq:    5,
	token.Greater:   5,
	token.GreaterEq: 5,
	token.Update:    6,
	token.Add:       7,
	token.Sub:       7,
	token.Mul:       8,
	token.Div:       8,
	token.Concat:    9,
	token.Question:  10,
}

// rightAssoc marks the right-associative operators.
var rightAssoc = map[token.Kind]bool{
	token.Implies: true,
	token.Update:  true,
	token.Concat:  true,
}

// parseOpExpr parses binary operator expressions at or above the given
// precedence using precedence climbing. Trivia preceding an operand is
// flushed into parent (or into the operator node for right-hand sides).
func (p *parser) parseOpExpr(parent *Node, minPrec int) (*Node, error) {
	lhs, err := p.parseUnary(parent)
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()

		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return lhs, nil
		}

		kind := KindBinary
		if op == token.Question {
			kind = KindHasAttr
		}

		node := &Node{Kind: kind, Children: []Child{NodeChild(lhs)}}
		p.bump(node)

		var rhs *Node

		if op == token.Question {
			rhs, err = p.parseAttrPath(node)
		} else {
			next := prec + 1
			if rightAssoc[op] {
				next = prec
			}

			rhs, err = p.parseOpExpr(node, next)
		}

		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, NodeChild(rhs))
		lhs = node
	}
}

// parseUnary parses prefix "-" and "!" applications.
func (p *parser) parseUnary(parent *Node) (*Node, error) {
	p.flushTrivia(parent)

	if kind := p.peek(); kind == token.Sub || kind == token.Not {
		node := &Node{Kind: KindUnary}
		p.bump(node)

		operand, err := p.parseUnary(node)
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, NodeChild(operand))

		return node, nil
	}

	return p.parseApply(parent)
}

// startsAtom reports whether a token kind can begin a function argument.
func startsAtom(kind token.Kind) bool {
	switch kind {
	case token.Ident, token.Integer, token.Float, token.Path, token.URI,
		token.Quote, token.IndentQuote, token.LBrace, token.LBracket,
		token.LParen, token.KwRec:
		return true
	default:
		return false
	}
}

// parseApply parses left-associative function application.
func (p *parser) parseApply(parent *Node) (*Node, error) {
	lhs, err := p.parseSelect(parent)
	if err != nil {
		return nil, err
	}

	for startsAtom(p.peek()) {
		// An identifier followed by ":" or "@" begins a lambda, not an
		// argument (e.g. the body of "a: b: c").
		if p.peek() == token.Ident {
			if next := p.peekN(1); next == token.Colon || next == token.At {
				return lhs, nil
			}
		}

		node := &Node{Kind: KindApply, Children: []Child{NodeChild(lhs)}}

		arg, err := p.parseSelect(node)
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, NodeChild(arg))
		lhs = node
	}

	return lhs, nil
}

// parseSelect parses "expr.attr.attr" chains with an optional "or"
// default. A chain is a single flat node: its node children are the base
// expression, each path component, and the default if present.
func (p *parser) parseSelect(parent *Node) (*Node, error) {
	base, err := p.parsePrimary(parent)
	if err != nil {
		return nil, err
	}

	if p.peek() != token.Dot {
		return base, nil
	}

	sel := &Node{Kind: KindSelect, Children: []Child{NodeChild(base)}}

	for p.peek() == token.Dot {
		p.bump(sel)

		component, err := p.parseAttrName(sel)
		if err != nil {
			return nil, err
		}

		sel.Children = append(sel.Children, NodeChild(component))
	}

	if p.peek() == token.KwOr {
		p.bump(sel)

		fallback, err := p.parseSelect(sel)
		if err != nil {
			return nil, err
		}

		sel.Children = append(sel.Children, NodeChild(fallback))
	}

	return sel, nil
}

// parseAttrName parses one attrpath component: an identifier, a string,
// or a dynamic "${...}" key. Trivia is attached to parent.
func (p *parser) parseAttrName(parent *Node) (*Node, error) {
	p.flushTrivia(parent)

	switch p.peek() {
	case token.Ident:
		ident := &Node{Kind: KindIdent}
		p.bump(ident)

		return ident, nil

	case token.Quote, token.IndentQuote:
		return p.parseString()

	case token.InterpStart:
		return p.parseInterp()

	default:
		return nil, p.errExpected("identifier", "string", "${")
	}
}

// parseAttrPath parses a dotted attrpath into an AttrPath node whose node
// children are the components.
func (p *parser) parseAttrPath(parent *Node) (*Node, error) {
	p.flushTrivia(parent)

	path := &Node{Kind: KindAttrPath}

	component, err := p.parseAttrName(path)
	if err != nil {
		return nil, err
	}

	path.Children = append(path.Children, NodeChild(component))

	for p.peek() == token.Dot {
		p.bump(path)

		component, err := p.parseAttrName(path)
		if err != nil {
			return nil, err
		}

		path.Children = append(path.Children, NodeChild(component))
	}

	return path, nil
}

// parsePrimary parses an atomic expression. Leading trivia flushes into
// parent so the atom's text starts at its first token.
func (p *parser) parsePrimary(parent *Node) (*Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.flushTrivia(parent)

	switch p.peek() {
	case token.Ident:
		ident := &Node{Kind: KindIdent}
		p.bump(ident)

		return ident, nil

	case token.Integer, token.Float, token.Path, token.URI:
		lit := &Node{Kind: KindLiteral}
		p.bump(lit)

		return lit, nil

	case token.Quote, token.IndentQuote:
		return p.parseString()

	case token.InterpStart:
		return p.parseInterp()

	case token.LBracket:
		return p.parseList()

	case token.LParen:
		return p.parseParen()

	case token.LBrace, token.KwRec:
		return p.parseAttrSet()

	default:
		return nil, p.errExpected("expression")
	}
}

// parseString parses an ordinary or indented string, including
// interpolations. The lexer emits no trivia inside strings, so every
// StringText token lands in the string node verbatim.
func (p *parser) parseString() (*Node, error) {
	str := &Node{Kind: KindString}

	open := p.peek()
	p.bump(str)

	for {
		switch p.peek() {
		case token.StringText:
			p.bump(str)

		case token.InterpStart:
			interp, err := p.parseInterp()
			if err != nil {
				return nil, err
			}

			str.Children = append(str.Children, NodeChild(interp))

		case open:
			p.bump(str)

			return str, nil

		default:
			return nil, p.errExpected(open.String())
		}
	}
}

// parseInterp parses "${ expr }".
func (p *parser) parseInterp() (*Node, error) {
	interp := &Node{Kind: KindInterp}

	if _, err := p.expect(interp, token.InterpStart); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr(interp)
	if err != nil {
		return nil, err
	}

	interp.Children = append(interp.Children, NodeChild(expr))

	if _, err := p.expect(interp, token.RBrace); err != nil {
		return nil, err
	}

	return interp, nil
}

// parseList parses "[ elements ]". Elements parse at select precedence,
// matching the language: applications must be parenthesized inside lists.
func (p *parser) parseList() (*Node, error) {
	list := &Node{Kind: KindList}

	if _, err := p.expect(list, token.LBracket); err != nil {
		return nil, err
	}

	for {
		p.flushTrivia(list)

		switch p.peek() {
		case token.RBracket:
			p.bump(list)

			return list, nil

		case token.EOF:
			return nil, p.errExpected("]")

		default:
			element, err := p.parseSelect(list)
			if err != nil {
				return nil, err
			}

			list.Children = append(list.Children, NodeChild(element))
		}
	}
}

// parseParen parses "( expr )".
func (p *parser) parseParen() (*Node, error) {
	paren := &Node{Kind: KindParen}

	if _, err := p.expect(paren, token.LParen); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr(paren)
	if err != nil {
		return nil, err
	}

	paren.Children = append(paren.Children, NodeChild(expr))

	if _, err := p.expect(paren, token.RParen); err != nil {
		return nil, err
	}

	return paren, nil
}

// parseAttrSet parses "{ members }" or "rec { members }". Members and the
// trivia between them are direct children of the set node.
func (p *parser) parseAttrSet() (*Node, error) {
	set := &Node{Kind: KindAttrSet}

	if p.peek() == token.KwRec {
		p.bump(set)
	}

	if _, err := p.expect(set, token.LBrace); err != nil {
		return nil, err
	}

	for {
		p.flushTrivia(set)

		switch p.peek() {
		case token.RBrace:
			p.bump(set)

			return set, nil

		case token.EOF:
			return nil, p.errExpected("}")

		case token.KwInherit:
			member, err := p.parseInherit()
			if err != nil {
				return nil, err
			}

			set.Children = append(set.Children, NodeChild(member))

		default:
			member, err := p.parseKeyValue()
			if err != nil {
				return nil, err
			}

			set.Children = append(set.Children, NodeChild(member))
		}
	}
}

// parseKeyValue parses one "attrpath = value ;" member. The terminating
// semicolon belongs to the member node, matching the node ranges the
// editing operations expect.
func (p *parser) parseKeyValue() (*Node, error) {
	kv := &Node{Kind: KindKeyValue}

	path, err := p.parseAttrPath(kv)
	if err != nil {
		return nil, err
	}

	kv.Children = append(kv.Children, NodeChild(path))

	if _, err := p.expect(kv, token.Assign); err != nil {
		return nil, err
	}

	value, err := p.parseExpr(kv)
	if err != nil {
		return nil, err
	}

	kv.Children = append(kv.Children, NodeChild(value))

	if _, err := p.expect(kv, token.Semicolon); err != nil {
		return nil, err
	}

	return kv, nil
}

// parseInherit parses "inherit a b;" or "inherit (expr) a b;".
func (p *parser) parseInherit() (*Node, error) {
	inherit := &Node{Kind: KindInherit}

	if _, err := p.expect(inherit, token.KwInherit); err != nil {
		return nil, err
	}

	if p.peek() == token.LParen {
		from, err := p.parseParen()
		if err != nil {
			return nil, err
		}

		inherit.Children = append(inherit.Children, NodeChild(from))
	}

	for p.peek() == token.Ident || p.peek() == token.Quote {
		name, err := p.parseAttrName(inherit)
		if err != nil {
			return nil, err
		}

		inherit.Children = append(inherit.Children, NodeChild(name))
	}

	if _, err := p.expect(inherit, token.Semicolon); err != nil {
		return nil, err
	}

	return inherit, nil
}

// parseLet parses "let members in body".
func (p *parser) parseLet() (*Node, error) {
	let := &Node{Kind: KindLet}

	if _, err := p.expect(let, token.KwLet); err != nil {
		return nil, err
	}

	for {
		p.flushTrivia(let)

		switch p.peek() {
		case token.KwIn:
			p.bump(let)

			body, err := p.parseExpr(let)
			if err != nil {
				return nil, err
			}

			let.Children = append(let.Children, NodeChild(body))

			return let, nil

		case token.EOF:
			return nil, p.errExpected("in")

		case token.KwInherit:
			member, err := p.parseInherit()
			if err != nil {
				return nil, err
			}

			let.Children = append(let.Children, NodeChild(member))

		default:
			member, err := p.parseKeyValue()
			if err != nil {
				return nil, err
			}

			let.Children = append(let.Children, NodeChild(member))
		}
	}
}

// parseWith parses "with expr; body".
func (p *parser) parseWith() (*Node, error) {
	with := &Node{Kind: KindWith}

	if _, err := p.expect(with, token.KwWith); err != nil {
		return nil, err
	}

	scope, err := p.parseExpr(with)
	if err != nil {
		return nil, err
	}

	with.Children = append(with.Children, NodeChild(scope))

	if _, err := p.expect(with, token.Semicolon); err != nil {
		return nil, err
	}

	body, err := p.parseExpr(with)
	if err != nil {
		return nil, err
	}

	with.Children = append(with.Children, NodeChild(body))

	return with, nil
}

// parseAssert parses "assert expr; body".
func (p *parser) parseAssert() (*Node, error) {
	node := &Node{Kind: KindAssert}

	if _, err := p.expect(node, token.KwAssert); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr(node)
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, NodeChild(cond))

	if _, err := p.expect(node, token.Semicolon); err != nil {
		return nil, err
	}

	body, err := p.parseExpr(node)
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, NodeChild(body))

	return node, nil
}

// parseIf parses "if cond then a else b".
func (p *parser) parseIf() (*Node, error) {
	node := &Node{Kind: KindIf}

	if _, err := p.expect(node, token.KwIf); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr(node)
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, NodeChild(cond))

	if _, err := p.expect(node, token.KwThen); err != nil {
		return nil, err
	}

	then, err := p.parseExpr(node)
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, NodeChild(then))

	if _, err := p.expect(node, token.KwElse); err != nil {
		return nil, err
	}

	alt, err := p.parseExpr(node)
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, NodeChild(alt))

	return node, nil
}
