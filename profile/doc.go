// Package profile provides optional runtime profiling for chanplate.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	chanplate --pprof-mode=cpu expand 'Sector{A...Z}{1...99}'
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// Profiles are written to the directory given by --pprof-dir, by default
// the pprof subdirectory of the user cache directory. Analyze them with
//
//	go tool pprof -http=: ~/.cache/chanplate/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
