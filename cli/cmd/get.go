package cmd

import (
	"context"

	"github.com/ardnew/nixed/edit"
)

// Get lists the target list's dependencies in document order.
type Get struct{}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) error {
	category := categoryFrom(ctx)

	return run(ctx, edit.Request{
		Op:      edit.OpGet,
		DepType: &category,
	})
}
