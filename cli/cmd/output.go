package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/nixed/edit"
)

// Styles for human-readable output.
var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	depStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// respond writes one operation response to w: a protocol JSON line by
// default, or a styled human-readable line when human is set.
func respond(w io.Writer, human bool, resp edit.Response) error {
	if !human {
		return json.NewEncoder(w).Encode(resp)
	}

	switch {
	case resp.Status != edit.StatusSuccess:
		data := ""
		if resp.Data != nil {
			data = *resp.Data
		}

		_, err := fmt.Fprintln(w, errStyle.Render("error"), data)

		return err

	case resp.Data != nil:
		_, err := fmt.Fprintln(w, okStyle.Render("ok"),
			depStyle.Render(*resp.Data))

		return err

	default:
		_, err := fmt.Fprintln(w, okStyle.Render("ok"))

		return err
	}
}

// run executes one operation request against the context's editor,
// prints the response, and reports failure through the exit code.
func run(ctx context.Context, req edit.Request) error {
	resp := edit.Apply(ctx, editorFrom(ctx), req)

	if err := respond(os.Stdout, humanFrom(ctx), resp); err != nil {
		return err
	}

	if resp.Status != edit.StatusSuccess {
		return ErrOperation
	}

	return nil
}

// ErrOperation marks an operation whose failure was already reported in
// its response.
var ErrOperation = NewError("operation failed")
