package cmd

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// commentPrefix starts a line that is ignored in template files.
const commentPrefix = "#"

// SourceFiles is a deduplicated, ordered set of template files.
type SourceFiles interface {
	IsZero() bool
	Paths() []string
	Templates(ctx context.Context) iter.Seq2[string, error]
}

type sourceFiles struct {
	paths    []string
	hasStdin bool
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool {
	return s == nil || (len(s.paths) == 0 && !s.hasStdin)
}

// Paths returns the resolved file paths in read order. Stdin, if included,
// is reported last as "-".
func (s *sourceFiles) Paths() []string {
	if s == nil {
		return nil
	}

	out := make([]string, 0, len(s.paths)+1)
	out = append(out, s.paths...)

	if s.hasStdin {
		out = append(out, stdinSource)
	}

	return out
}

// Templates yields one template per non-blank line of every source, regular
// files first and stdin last. Lines starting with "#" are skipped and
// surrounding whitespace is trimmed.
func (s *sourceFiles) Templates(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.IsZero() {
			return
		}

		for _, path := range s.Paths() {
			if err := ctx.Err(); err != nil {
				yield("", err)

				return
			}

			if !s.scan(ctx, path, yield) {
				return
			}
		}
	}
}

func (s *sourceFiles) scan(
	ctx context.Context,
	path string,
	yield func(string, error) bool,
) bool {
	var src io.Reader = os.Stdin

	if path != stdinSource {
		file, err := os.Open(path)
		if err != nil {
			return yield("", ErrReadTemplates.With(slog.String("file", path)).Wrap(err))
		}
		defer file.Close()

		src = file
	}

	ra := readahead.NewReader(src)
	defer ra.Close()

	line := 0
	sc := bufio.NewScanner(ra)

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}

		if ctx.Err() != nil {
			return yield("", ctx.Err())
		}

		if !yield(text, nil) {
			return false
		}
	}

	if err := sc.Err(); err != nil {
		return yield("", ErrReadTemplates.
			With(slog.String("file", path), slog.Int("line", line)).
			Wrap(err))
	}

	return true
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// NewSourceFiles returns the template files named by sources.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" collapse into a single stdin source, which is
// read after all regular files. Paths that cannot be resolved are skipped.
// The result is nil if no source remains.
func NewSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := resolveUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	if srcs.hasStdin {
		srcs.paths = dropStdin(srcs.paths, stdinKey)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// dropStdin removes any path that refers to the stdin device.
func dropStdin(paths []string, stdinKey fileKey) []string {
	out := paths[:0]

	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil {
			if key, ok := makeFileKey(info); ok && key == stdinKey {
				continue
			}
		}

		out = append(out, p)
	}

	return out
}

// resolveUniqueFile resolves path to a canonical file path if it hasn't been
// seen before, using device/inode to detect duplicates.
func resolveUniqueFile(path string, seen map[fileKey]struct{}) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
