package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/nixed/edit"
	"github.com/ardnew/nixed/log"
)

// Serve reads newline-delimited JSON operation requests from stdin and
// writes one response line per request to stdout. A failed request
// produces an error response and the stream continues. Requests that
// omit dep_type inherit the category selected on the command line.
type Serve struct{}

// Run executes the serve command.
func (s *Serve) Run(ctx context.Context) error {
	return serve(ctx,
		editorFrom(ctx), categoryFrom(ctx), humanFrom(ctx),
		os.Stdin, os.Stdout)
}

func serve(
	ctx context.Context,
	e edit.Editor,
	category edit.Category,
	human bool,
	in io.Reader,
	out io.Writer,
) error {
	reader := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Request lines have no length bound. ReadString grows its buffer
		// as needed, so an oversized request never poisons the stream.
		line, err := reader.ReadString('\n')

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			var req edit.Request

			resp := edit.Response{}
			if jsonErr := json.Unmarshal([]byte(trimmed), &req); jsonErr != nil {
				log.DebugContext(ctx, "reject request",
					slog.String("error", jsonErr.Error()))

				resp = edit.Fail(ErrBadRequest.Wrap(jsonErr))
			} else {
				if req.DepType == nil {
					req.DepType = &category
				}

				resp = edit.Apply(ctx, e, req)
			}

			if writeErr := respond(out, human, resp); writeErr != nil {
				return writeErr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return ErrReadStdin.Wrap(err)
		}
	}
}
