// Package cli contains the command line interface for nixed.
//
// # Usage
//
// Every command operates on one replit.nix file and one dependency
// category:
//
//	nixed --path=replit.nix add pkgs.cowsay
//	nixed --dep-type=python add pkgs.zlib
//	nixed get
//	nixed remove pkgs.cowsay
//
// Without a command, nixed reads newline-delimited JSON operations from
// stdin and writes one JSON response per operation to stdout:
//
//	echo '{"op":"add","dep_type":"regular","dep":"pkgs.cowsay"}' | nixed
//
// # Configuration Loader
//
// Flag defaults can be supplied by a YAML config file in the user
// config directory (see [resolve]); flags given on the command line
// take precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/nixed/pprof)
//
// # Examples
//
//	# Debug logging while adding a python dependency
//	nixed --log-level=debug --dep-type=python add pkgs.libxcrypt
//
//	# Print the new document instead of writing it
//	nixed --return-output add pkgs.cowsay
package cli
