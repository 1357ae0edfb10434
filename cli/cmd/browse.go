package cmd

import (
	"context"

	"github.com/ardnew/nixed/cli/cmd/browse"
	"github.com/ardnew/nixed/log"
)

// Browse opens an interactive terminal browser for the target list.
type Browse struct{}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) error {
	return browse.Run(ctx, editorFrom(ctx), categoryFrom(ctx), log.Default())
}
