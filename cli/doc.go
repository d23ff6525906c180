// Package cli contains the command line interface for chanplate.
//
// # Usage
//
//	chanplate [flags] <command>
//
// The default command is expand, so a bare template expands it:
//
//	chanplate '[Room, 1...5]'
//	chanplate expand -o json '[Team, A...D]' '{1...3}{a...b}'
//	chanplate preview '[Room, 1...100, if i % 10 == 0]'
//	chanplate check 'Sector{A...C}{1...9}'
//	chanplate plan create -c Lobby -t voice '[Voice, 1...4]' --write
//	chanplate repl
//
// # Configuration
//
// Flag values are resolved from, in increasing order of precedence:
//
//   - flag defaults
//   - config.json and config.yaml in the user configuration directory
//     (~/.config/chanplate on Linux); "chanplate init" writes config.yaml
//   - environment variables named CHANPLATE_<FLAG>, e.g. CHANPLATE_LOG_LEVEL;
//     .env in the working directory and in the configuration directory are
//     loaded first without overriding variables already set
//   - command-line flags
//
// The plan commands read and write state.yaml in the user state directory
// ($XDG_STATE_HOME/chanplate, or ~/.local/state/chanplate) unless --state
// names another file. The REPL keeps its history in the user cache
// directory.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o chanplate .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/chanplate/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	chanplate --log-level=debug --pprof-mode=cpu expand '{1...999}{1...99}'
//
//	# Expand every template in a file, one per line, four at a time
//	chanplate expand -j 4 -f templates.txt -o yaml
package cli
