package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/nixed/log"
)

// Init writes an empty skeleton document to the target path.
type Init struct {
	Force bool `help:"Overwrite existing file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	e := editorFrom(ctx)

	if _, err := os.Stat(e.Path()); err == nil && !i.Force {
		return ErrFileExists.With(slog.String("path", e.Path()))
	}

	if err := e.Init(ctx, i.Force); err != nil {
		return err
	}

	log.DebugContext(ctx, "initialized file", slog.String("path", e.Path()))

	return nil
}
