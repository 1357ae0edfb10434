// Package cmd implements the subcommands for editing replit.nix
// dependency lists: add, remove, get, init, serve, and browse.
//
// Commands receive the editor, dependency category, and output mode
// through the context rather than through struct fields, so the CLI
// layer can bind shared flags once and every command resolves them the
// same way.
package cmd
