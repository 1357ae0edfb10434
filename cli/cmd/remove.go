package cmd

import (
	"context"

	"github.com/ardnew/nixed/edit"
)

// Remove deletes the first dependency whose exact text matches.
type Remove struct {
	Dep string `arg:"" help:"Dependency expression to remove."`
}

// Run executes the remove command.
func (r *Remove) Run(ctx context.Context) error {
	category := categoryFrom(ctx)

	return run(ctx, edit.Request{
		Op:      edit.OpRemove,
		DepType: &category,
		Dep:     r.Dep,
	})
}
