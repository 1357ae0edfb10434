// Package edit locates and mutates the dependency lists of a replit.nix
// document.
//
// The document must have a fixed shape: a lambda whose pattern binds
// pkgs, returning an attribute set. Within that set, operations target
// either the top-level deps list or the python library search path
//
//	env.PYTHON_LD_LIBRARY_PATH = pkgs.lib.makeLibraryPath [ ... ];
//
// selected by Category. Missing optional keys are synthesized from fixed
// templates; the mandatory lambda shape never is.
//
// Locate resolves the target list and its indentation anchor. Insertion
// is tree-based and idempotent, placing new entries at the front of the
// list with inferred indentation. Removal splices the raw document text,
// trimming the removed entry's leading whitespace. Enumeration is
// read-only. Editor combines these into a file-backed pipeline with a
// missing-file skeleton, an optional return-only mode, and byte-identical
// write skipping; Apply exposes the pipeline through the JSON operation
// protocol.
package edit
