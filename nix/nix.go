package nix

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/nixed/log"
	"github.com/ardnew/nixed/nix/token"
)

// DefaultMaxDepth bounds expression nesting during parsing.
const DefaultMaxDepth = 500

// Option configures parsing.
type Option func(*parser)

// WithLogger sets the logger used for parse tracing.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// WithMaxDepth overrides the maximum expression nesting depth.
func WithMaxDepth(depth int) Option {
	return func(p *parser) { p.maxDepth = depth }
}

// ParseReader parses a syntax tree from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapError(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a complete Nix document into a lossless syntax tree
// rooted at a KindRoot node. The tree preserves every byte of s: for any
// successful parse, the root's Text equals s exactly.
func ParseString(ctx context.Context, s string, opts ...Option) (*Node, error) {
	p := &parser{
		src:      s,
		toks:     Lex(s),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	root := &Node{Kind: KindRoot}

	p.flushTrivia(root)

	if p.peek() != token.EOF {
		expr, err := p.parseExpr(root)
		if err != nil {
			return nil, err
		}

		root.Children = append(root.Children, NodeChild(expr))
	}

	p.flushTrivia(root)

	if p.peek() != token.EOF {
		return nil, p.errExpected("end of input")
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(p.toks)),
		slog.Int("bytes", len(s)))

	return root, nil
}
