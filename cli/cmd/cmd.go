package cmd

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixed/edit"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	editorKey   struct{}
	categoryKey struct{}
	humanKey    struct{}
)

// WithEditor returns a new context.Context carrying the editor commands
// operate on.
func WithEditor(ctx context.Context, e edit.Editor) context.Context {
	return context.WithValue(ctx, editorKey{}, e)
}

func editorFrom(ctx context.Context) edit.Editor {
	e, _ := ctx.Value(editorKey{}).(edit.Editor)

	return e
}

// WithCategory returns a new context.Context carrying the dependency
// category selected on the command line.
func WithCategory(ctx context.Context, c edit.Category) context.Context {
	return context.WithValue(ctx, categoryKey{}, c)
}

func categoryFrom(ctx context.Context) edit.Category {
	c, _ := ctx.Value(categoryKey{}).(edit.Category)

	return c
}

// WithHuman returns a new context.Context recording whether output should
// be human-readable instead of protocol JSON.
func WithHuman(ctx context.Context, enable bool) context.Context {
	return context.WithValue(ctx, humanKey{}, enable)
}

func humanFrom(ctx context.Context) bool {
	h, _ := ctx.Value(humanKey{}).(bool)

	return h
}
