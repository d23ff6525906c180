package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "chanplate"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix(); got != "CHANPLATE_" {
		t.Errorf("Expected EnvPrefix to be %q, got %q", "CHANPLATE_", got)
	}
}

func TestVersion(t *testing.T) {
	// Tests run from the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	content := strings.TrimSpace(string(buf))
	if content == "" {
		t.Fatal("VERSION file is empty")
	}

	if got := strings.TrimSpace(Version); got != content {
		t.Errorf("Expected Version to be %q, got %q", content, got)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}
}

func TestDirsShareBase(t *testing.T) {
	base := Prefix()
	if base == "" {
		t.Fatal("Prefix() returned an empty string")
	}

	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
		"state":  StateDir(),
	} {
		if filepath.Base(dir) != base {
			t.Errorf("%s dir %q does not end in %q", name, dir, base)
		}
	}
}

func TestUserStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/lib/states")

	dir, err := userStateDir()
	if err != nil || dir != "/var/lib/states" {
		t.Errorf("userStateDir() = %q, %v", dir, err)
	}

	// Relative paths are ignored as the XDG base directory rules require.
	t.Setenv("XDG_STATE_HOME", "relative/state")

	if _, err := userStateDir(); err == nil {
		t.Error("userStateDir() accepted a relative path")
	}
}

func TestUserDirFallback(t *testing.T) {
	failing := func() (string, error) { return "", os.ErrNotExist }

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	want := filepath.Join(home, ".local", "state", Prefix())
	if got := userDir(failing, ".local", "state"); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}
}
