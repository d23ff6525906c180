package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name of the per-user directories of the
// application and of its history and state files.
//
// Prefix is the base name of the executable file, without extension, unless
// it matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		base := filepath.Base(id)
		id = strings.TrimSuffix(base, filepath.Ext(base))

		id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

// userDir returns the directory named by [Prefix] under the directory
// reported by base. When base fails, the fallback path elements are joined
// under the home directory, or the working directory if there is no home.
func userDir(base func() (string, error), fallback ...string) string {
	dir, err := base()
	if err != nil || dir == "" {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(append([]string{dir}, fallback...)...)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the directory of config.yaml, config.json and .env.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory of transient files such as REPL history and
// profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// StateDir returns the directory of the default server state file. It
// follows $XDG_STATE_HOME and defaults to ~/.local/state.
//
//nolint:gochecknoglobals
var StateDir = sync.OnceValue(func() string {
	return userDir(userStateDir, ".local", "state")
})

func userStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); filepath.IsAbs(dir) {
		return dir, nil
	}

	return "", os.ErrNotExist
}
