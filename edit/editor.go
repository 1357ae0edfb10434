package edit

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/nixed/log"
	"github.com/ardnew/nixed/nix"
)

// Skeleton is the canonical empty document used in place of a missing
// backing file.
const Skeleton = "{pkgs}: {\n  deps = [];\n}\n"

// Editor runs dependency operations against a backing replit.nix file.
// Every operation re-reads and re-parses the file, so nothing is cached
// across operations and a failed operation leaves the file untouched.
type Editor struct {
	path       string
	returnOnly bool
	logger     log.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithReturnOnly makes mutating operations return the new document text
// instead of writing it to the backing file.
func WithReturnOnly(enable bool) Option {
	return func(e *Editor) { e.returnOnly = enable }
}

// WithLogger sets the logger used by the editor and its parser.
func WithLogger(logger log.Logger) Option {
	return func(e *Editor) { e.logger = logger }
}

// Make creates an Editor backed by the file at path.
func Make(path string, opts ...Option) Editor {
	e := Editor{path: path}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

// Path returns the backing file path.
func (e Editor) Path() string { return e.path }

// Add inserts entry into the category's dependency list. On success the
// returned text is empty unless the editor is in return-only mode, in
// which case it carries the full new document and no write occurs.
func (e Editor) Add(
	ctx context.Context,
	category Category,
	entry string,
) (string, error) {
	text, root, err := e.load(ctx)
	if err != nil {
		return "", err
	}

	target, err := Locate(ctx, root, category)
	if err != nil {
		return "", err
	}

	if err := target.Insert(entry); err != nil {
		return "", err
	}

	return e.commit(ctx, text, root.Text())
}

// Remove deletes entry from the category's dependency list.
func (e Editor) Remove(
	ctx context.Context,
	category Category,
	entry string,
) (string, error) {
	text, root, err := e.load(ctx)
	if err != nil {
		return "", err
	}

	target, err := Locate(ctx, root, category)
	if err != nil {
		return "", err
	}

	out, err := Remove(text, target, entry)
	if err != nil {
		return "", err
	}

	return e.commit(ctx, text, out)
}

// Deps returns the category's dependency entries in document order. It
// never writes, even when locating synthesized missing substructure in
// the in-memory tree.
func (e Editor) Deps(
	ctx context.Context,
	category Category,
) ([]string, error) {
	_, root, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	target, err := Locate(ctx, root, category)
	if err != nil {
		return nil, err
	}

	return target.Deps(), nil
}

// Get returns the category's dependency entries joined with commas.
func (e Editor) Get(ctx context.Context, category Category) (string, error) {
	deps, err := e.Deps(ctx, category)
	if err != nil {
		return "", err
	}

	return strings.Join(deps, ","), nil
}

// Init writes the empty skeleton document. Unless force is set, an
// existing backing file is left untouched.
func (e Editor) Init(ctx context.Context, force bool) error {
	if _, err := os.Stat(e.path); err == nil && !force {
		e.logger.DebugContext(ctx, "file exists, not initializing",
			slog.String("path", e.path))

		return nil
	}

	return e.write(ctx, Skeleton)
}

// load reads and parses the backing file, substituting the skeleton when
// the file does not exist.
func (e Editor) load(ctx context.Context) (string, *nix.Node, error) {
	text := Skeleton

	data, err := os.ReadFile(e.path)

	switch {
	case err == nil:
		text = string(data)

	case os.IsNotExist(err):
		e.logger.DebugContext(ctx, "file missing, using skeleton",
			slog.String("path", e.path))

	default:
		return "", nil, ErrReadFile.
			With(slog.String("path", e.path)).
			Wrap(err)
	}

	root, err := nix.ParseString(ctx, text, nix.WithLogger(e.logger))
	if err != nil {
		return "", nil, err
	}

	return text, root, nil
}

// commit finishes a mutating operation: in return-only mode the new text
// is handed back to the caller, otherwise it is written to the backing
// file. A write is skipped entirely when the text is byte-identical to
// the original, so idempotent operations do not churn the modification
// time.
func (e Editor) commit(ctx context.Context, before, after string) (string, error) {
	if e.returnOnly {
		return after, nil
	}

	if after == before {
		e.logger.DebugContext(ctx, "document unchanged, skipping write",
			slog.String("path", e.path))

		return "", nil
	}

	return "", e.write(ctx, after)
}

func (e Editor) write(ctx context.Context, text string) error {
	if err := os.WriteFile(e.path, []byte(text), 0o644); err != nil {
		return ErrWriteFile.
			With(slog.String("path", e.path)).
			Wrap(err)
	}

	e.logger.DebugContext(ctx, "wrote file",
		slog.String("path", e.path),
		slog.Int("bytes", len(text)))

	return nil
}
