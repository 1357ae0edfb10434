package cmd

import (
	"context"

	"github.com/ardnew/nixed/edit"
)

// Add inserts a dependency at the front of the target list. Adding an
// entry that is already present succeeds without modifying the file.
type Add struct {
	Dep string `arg:"" help:"Dependency expression (e.g. pkgs.cowsay)."`
}

// Run executes the add command.
func (a *Add) Run(ctx context.Context) error {
	category := categoryFrom(ctx)

	return run(ctx, edit.Request{
		Op:      edit.OpAdd,
		DepType: &category,
		Dep:     a.Dep,
	})
}
