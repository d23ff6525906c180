package cli

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/ardnew/chanplate/pkg"
)

const (
	// baseConfig is the base name of the configuration files.
	baseConfig = "config"
	// baseState is the base name of the default server state file in the
	// state directory.
	baseState = "state"
	// baseEnv is the name of the environment file in the config directory.
	baseEnv = ".env"
)

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// statePath joins elem to the state directory, where plan commands keep the
// default server state.
func statePath(elem ...string) string {
	return filepath.Join(append([]string{pkg.StateDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return os.MkdirAll(pkg.CacheDir(), defaultDirMode)
}

// loadEnv loads each existing environment file in order and returns the
// paths that were loaded. Variables already present in the environment,
// including those set by an earlier file, are never overwritten.
func loadEnv(paths ...string) []string {
	var loaded []string

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			continue
		}

		loaded = append(loaded, path)
	}

	return loaded
}
