package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

// initContext parses args against cli with the config path variable set and
// returns a context carrying the kong context.
func initContext(t *testing.T, cli any, confPath string, args ...string) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: content\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: content\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Limit int `default:"500"`
			}

			ctx := initContext(t, &cli, confPath)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				if !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want it to match ErrWriteConfig", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error: %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			if got := fmt.Sprint(doc["limit"]); got != "500" {
				t.Errorf("limit = %s, want 500", got)
			}
		})
	}
}

// TestInitDocument tests that document keeps visible flags in model order
// and skips help and unset values.
func TestInitDocument(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool     `help:"Enable verbose output"`
		Output  string   `help:"Output file"`
		Count   int      `help:"Number of items"`
		Tags    []string `help:"Tags"`
		Secret  string   `help:"Hidden flag" hidden:""`
	}

	ctx := initContext(t, &cli, "unused.yaml",
		"--verbose", "--count=5", "--tags=a,b", "--secret=x")

	doc := (&Init{}).document(kongContextFrom(ctx))

	want := yaml.MapSlice{
		{Key: "verbose", Value: true},
		{Key: "count", Value: 5},
		{Key: "tags", Value: []string{"a", "b"}},
	}

	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

// TestInitFlagValue tests the conversion of flag values.
func TestInitFlagValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 42, 42},
		{"float", 3.5, 3.5},
		{"string", "test", "test"},
		{"empty_string", "", nil},
		{"strings", []string{"a", "b"}, []string{"a", "b"}},
		{"empty_strings", []string{}, nil},
		{"named_string", level("debug"), "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, flagValue(tt.in)); diff != "" {
				t.Errorf("flagValue(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	var cli struct{}

	ctx := initContext(t, &cli, "/nonexistent/directory/config.yaml")

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}
