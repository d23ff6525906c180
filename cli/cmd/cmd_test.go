package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// collect drains the templates of src, failing the test on error.
func collect(t *testing.T, src SourceFiles) []string {
	t.Helper()

	var out []string

	for tmpl, err := range src.Templates(context.Background()) {
		if err != nil {
			t.Fatalf("reading templates: %v", err)
		}

		out = append(out, tmpl)
	}

	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// TestNewSourceFilesEmpty tests that an empty source list yields no sources.
func TestNewSourceFilesEmpty(t *testing.T) {
	if src := NewSourceFiles(nil); src != nil {
		t.Error("NewSourceFiles(nil) should be nil")
	}

	if src := NewSourceFiles([]string{}); src != nil {
		t.Error("NewSourceFiles([]) should be nil")
	}
}

// TestSourceFilesTemplates tests that blank lines and comments are skipped
// and lines are trimmed.
func TestSourceFilesTemplates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "batch.txt", `
# rooms
Room[1...3]

  [Team, A...B]
	# indented comment
{1...2}{a...b}
`)

	src := NewSourceFiles([]string{path})
	if src == nil {
		t.Fatal("NewSourceFiles should return sources for a valid file")
	}

	want := []string{"Room[1...3]", "[Team, A...B]", "{1...2}{a...b}"}
	if diff := cmp.Diff(want, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesMultipleFiles tests reading from multiple files in order.
func TestNewSourceFilesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.txt", "first\n")
	file2 := writeFile(t, dir, "file2.txt", "second")

	src := NewSourceFiles([]string{file1, file2})
	if src == nil {
		t.Fatal("NewSourceFiles should return non-nil sources")
	}

	if diff := cmp.Diff([]string{"first", "second"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesDuplicatePaths tests deduplication of identical paths.
func TestNewSourceFilesDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "unique.txt", "unique")

	src := NewSourceFiles([]string{path, path, path})
	if src == nil {
		t.Fatal("NewSourceFiles should return non-nil sources")
	}

	if got := len(src.Paths()); got != 1 {
		t.Errorf("got %d paths, want 1", got)
	}

	if diff := cmp.Diff([]string{"unique"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesRelativeAbsoluteDuplicates tests that relative and
// absolute paths to the same file are deduplicated.
func TestNewSourceFilesRelativeAbsoluteDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "same.txt", "same")

	t.Chdir(dir)

	src := NewSourceFiles([]string{"same.txt", path, "./same.txt"})
	if src == nil {
		t.Fatal("NewSourceFiles should return non-nil sources")
	}

	if diff := cmp.Diff([]string{"same"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesSymlinkDuplicates tests that symlinks to the same file
// are deduplicated.
func TestNewSourceFilesSymlinkDuplicates(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", "target")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	src := NewSourceFiles([]string{target, link})
	if src == nil {
		t.Fatal("NewSourceFiles should return non-nil sources")
	}

	if diff := cmp.Diff([]string{"target"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesStdinLast tests that stdin is read after regular files,
// and that repeated "-" entries collapse into one.
func TestNewSourceFilesStdinLast(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.txt", "file")

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdin = r

	go func() {
		defer w.Close()

		_, _ = io.WriteString(w, "stdin\n")
	}()

	src := NewSourceFiles([]string{"-", file1, "-"})
	if src == nil {
		t.Fatal("NewSourceFiles should return non-nil sources")
	}

	if diff := cmp.Diff([]string{file1, "-"}, src.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"file", "stdin"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesNonexistentFile tests that nonexistent files are skipped.
func TestNewSourceFilesNonexistentFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exists.txt", "exists")

	src := NewSourceFiles([]string{
		"/nonexistent/path/file.txt",
		path,
		"/another/nonexistent.txt",
	})
	if src == nil {
		t.Fatal("NewSourceFiles should be non-nil when at least one file exists")
	}

	if diff := cmp.Diff([]string{"exists"}, collect(t, src)); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

// TestNewSourceFilesAllNonexistent tests that only nonexistent files yields
// no sources.
func TestNewSourceFilesAllNonexistent(t *testing.T) {
	src := NewSourceFiles([]string{
		"/nonexistent/path/file1.txt",
		"/nonexistent/path/file2.txt",
	})
	if src != nil {
		t.Error("NewSourceFiles should be nil when all files are nonexistent")
	}
}

// TestSourceFilesCanceled tests that a canceled context stops reading.
func TestSourceFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "batch.txt", "a\nb\nc\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error

	for _, err := range NewSourceFiles([]string{path}).Templates(ctx) {
		if err != nil {
			gotErr = err

			break
		}
	}

	if gotErr == nil {
		t.Error("expected an error from a canceled context")
	}
}
