package edit

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/nixed/nix"
	"github.com/ardnew/nixed/nix/token"
)

// Templates spliced into the tree when an optional key is absent. The
// mandatory lambda shape is never synthesized.
const (
	tmplDeps = `deps = [];`

	tmplEnv = "env = {\n" +
		"    PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [];\n" +
		"  };"

	tmplPython = `PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [];`
)

// calleeText is the exact serialized callee required for the python list.
// The comparison is a literal text match on purpose: a semantically
// equivalent but differently formatted callee is rejected.
const calleeText = "pkgs.lib.makeLibraryPath"

// envKey and depsKey are the attribute names the locator resolves.
const (
	depsKey   = "deps"
	envKey    = "env"
	pythonKey = "PYTHON_LD_LIBRARY_PATH"
)

// Target is a located dependency list: the list node itself and the
// newline-bearing whitespace token that precedes its owning key-value
// member, from which insertion indentation is inferred.
type Target struct {
	List   *nix.Node
	Anchor string
}

// Locate validates the mandatory document shape and resolves the
// dependency list for the given category, splicing in missing optional
// substructure. The caller decides whether the mutated tree is ever
// serialized; locating alone never touches the backing file.
func Locate(
	ctx context.Context,
	root *nix.Node,
	category Category,
) (*Target, error) {
	if root.Kind != nix.KindRoot {
		return nil, shapeErr(nix.KindRoot, root, "document")
	}

	lambda := root.NthNode(0)
	if lambda == nil || lambda.Kind != nix.KindLambda {
		return nil, shapeErr(nix.KindLambda, lambda, "document root")
	}

	pattern := lambda.NthNode(0)
	if pattern == nil || pattern.Kind != nix.KindPattern {
		return nil, shapeErr(nix.KindPattern, pattern, "lambda parameter")
	}

	if !patternBinds(pattern, "pkgs") {
		return nil, ErrMissingParameter.With(
			slog.String("pattern", pattern.Text()))
	}

	body := lambda.NthNode(1)
	if body == nil || body.Kind != nix.KindAttrSet {
		return nil, shapeErr(nix.KindAttrSet, body, "lambda body")
	}

	if category == CategoryPython {
		return locatePython(ctx, body)
	}

	return locateRegular(ctx, body)
}

// locateRegular resolves (or creates) the top-level deps list.
func locateRegular(ctx context.Context, body *nix.Node) (*Target, error) {
	kv, err := findOrInsert(ctx, body, depsKey, tmplDeps)
	if err != nil {
		return nil, err
	}

	list := kv.NthNode(1)
	if list == nil || list.Kind != nix.KindList {
		return nil, shapeErr(nix.KindList, list, depsKey)
	}

	return &Target{List: list, Anchor: anchorBefore(body, kv)}, nil
}

// locatePython resolves (or creates) env.PYTHON_LD_LIBRARY_PATH and
// validates its makeLibraryPath application.
func locatePython(ctx context.Context, body *nix.Node) (*Target, error) {
	envKV, err := findOrInsert(ctx, body, envKey, tmplEnv)
	if err != nil {
		return nil, err
	}

	envSet := envKV.NthNode(1)
	if envSet == nil || envSet.Kind != nix.KindAttrSet {
		return nil, shapeErr(nix.KindAttrSet, envSet, envKey)
	}

	kv, err := findOrInsert(ctx, envSet, pythonKey, tmplPython)
	if err != nil {
		return nil, err
	}

	apply := kv.NthNode(1)
	if apply == nil || apply.Kind != nix.KindApply {
		return nil, shapeErr(nix.KindApply, apply, pythonKey)
	}

	callee := apply.NthNode(0)
	if callee == nil || callee.Text() != calleeText {
		return nil, ErrShapeMismatch.With(
			slog.String("expected", calleeText),
			slog.String("found", nodeText(callee)),
			slog.String("path", pythonKey))
	}

	list := apply.NthNode(1)
	if list == nil || list.Kind != nix.KindList {
		return nil, shapeErr(nix.KindList, list, pythonKey)
	}

	return &Target{List: list, Anchor: anchorBefore(envSet, kv)}, nil
}

// patternBinds reports whether the pattern contains a formal parameter
// with the given name.
func patternBinds(pattern *nix.Node, name string) bool {
	for entry := range pattern.Nodes() {
		if entry.Kind != nix.KindPatEntry {
			continue
		}

		if first := entry.FirstToken(); first != nil && first.Text == name {
			return true
		}
	}

	return false
}

// findKeyValue returns the attribute set's key-value member whose key text
// matches exactly, or nil.
func findKeyValue(set *nix.Node, key string) *nix.Node {
	for member := range set.Nodes() {
		if member.Kind != nix.KindKeyValue {
			continue
		}

		if path := member.NthNode(0); path != nil && path.Text() == key {
			return member
		}
	}

	return nil
}

// findOrInsert returns the member bound to key, splicing in the given
// template as the set's last member when the key is absent. The template
// is preceded by a newline plus the indentation of the existing members,
// or two spaces when the set has none.
func findOrInsert(
	ctx context.Context,
	set *nix.Node,
	key string,
	template string,
) (*nix.Node, error) {
	if kv := findKeyValue(set, key); kv != nil {
		if kv.NthNode(1) == nil {
			return nil, ErrMissingKey.With(slog.String("key", key))
		}

		return kv, nil
	}

	kv, err := parseMember(ctx, template)
	if err != nil {
		return nil, err
	}

	ws := token.Synthetic(token.Whitespace, "\n"+memberIndent(set))

	// New members land directly after the last existing member so the
	// set's trailing whitespace and closing brace keep their layout. An
	// empty set takes the member right before its closing brace.
	index := memberInsertIndex(set)
	if index < 0 {
		return nil, shapeErr(nix.KindAttrSet, set, key)
	}

	set.Splice(index, nix.TokenChild(ws), nix.NodeChild(kv))

	return kv, nil
}

// memberInsertIndex returns the child index where a synthesized member is
// spliced in: after the last key-value member, or before the closing
// brace when the set has none.
func memberInsertIndex(set *nix.Node) int {
	for i := len(set.Children) - 1; i >= 0; i-- {
		if n := set.Children[i].Node; n != nil && n.Kind == nix.KindKeyValue {
			return i + 1
		}
	}

	return closingBraceIndex(set)
}

// memberIndent returns the indentation shared by the set's existing
// key-value members, falling back to two spaces for a set without any.
func memberIndent(set *nix.Node) string {
	var last *nix.Node

	for member := range set.Nodes() {
		if member.Kind == nix.KindKeyValue {
			last = member
		}
	}

	if last == nil {
		return "  "
	}

	anchor := anchorBefore(set, last)
	if i := strings.LastIndexByte(anchor, '\n'); i >= 0 {
		return anchor[i+1:]
	}

	return "  "
}

// anchorBefore returns the text of the last newline-bearing whitespace
// token preceding the given member among the parent's direct children, or
// the empty string when none exists.
func anchorBefore(parent *nix.Node, member *nix.Node) string {
	anchor := ""

	for _, c := range parent.Children {
		if c.Node == member {
			break
		}

		if c.Token != nil && c.Token.HasNewline() {
			anchor = c.Token.Text
		}
	}

	return anchor
}

// closingBraceIndex returns the child index of the set's closing brace.
func closingBraceIndex(set *nix.Node) int {
	for i := len(set.Children) - 1; i >= 0; i-- {
		if t := set.Children[i].Token; t != nil && t.Kind == token.RBrace {
			return i
		}
	}

	return -1
}

// parseMember parses a single "key = value;" fragment by wrapping it in a
// set and unwrapping the sole member, so templates need not be valid
// documents on their own.
func parseMember(ctx context.Context, text string) (*nix.Node, error) {
	root, err := nix.ParseString(ctx, "{\n"+text+"\n}")
	if err != nil {
		return nil, err
	}

	set := root.NthNode(0)
	if set == nil || set.Kind != nix.KindAttrSet || set.NthNode(0) == nil {
		return nil, shapeErr(nix.KindKeyValue, set, "fragment")
	}

	return set.NthNode(0), nil
}

// shapeErr builds a ShapeMismatch error tagged with the expected kind, the
// kind actually found, and the schema path being validated.
func shapeErr(expected nix.Kind, found *nix.Node, path string) error {
	foundKind := "nothing"
	if found != nil {
		foundKind = found.Kind.String()
	}

	return ErrShapeMismatch.With(
		slog.String("expected", expected.String()),
		slog.String("found", foundKind),
		slog.String("path", path))
}

// nodeText returns the node's text or a placeholder for nil.
func nodeText(n *nix.Node) string {
	if n == nil {
		return "nothing"
	}

	return n.Text()
}
