package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/chanplate/filter"
	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/pattern"
)

const defaultEditor = "vi"

// editHeader is written above the template in the editor buffer.
const editHeader = `# Edit the template on the first line that is not a comment.
# Save an empty buffer to cancel.
`

// editTemplateCommand implements [tea.ExecCommand] for the edit-validate-retry
// loop. It writes the current template to a temp file, opens the user's
// editor, and validates the result. On error the user is prompted to re-edit;
// declining exits the program.
type editTemplateCommand struct {
	template string
	ctxFunc  func() context.Context
	result   string
	edited   bool
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTemplateCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-validate-retry loop. If the user declines to
// re-edit an invalid template, it returns [ErrEditDeclined].
func (c *editTemplateCommand) Run() error {
	ctx := c.ctxFunc()

	content := editHeader + c.template + "\n"

	f, err := os.CreateTemp(os.TempDir(), "chanplate-repl-*.txt")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		template, ok := firstTemplate(r)
		if !ok {
			// Empty buffer; treat as cancelled edit.
			return nil
		}

		checkErr := validate(template)
		c.logger.TraceContext(
			ctx,
			"editor validate attempt",
			slog.String("template", template),
			slog.Bool("success", checkErr == nil),
		)

		if checkErr == nil {
			c.result = template
			c.edited = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nInvalid template: %s\n", checkErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = editHeader + template + "\n"
	}
}

// firstTemplate returns the first line of r that is neither blank nor a
// comment.
func firstTemplate(r io.Reader) (string, bool) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, true
		}
	}

	return "", false
}

// validate reports whether template classifies and its filter compiles,
// without expanding it.
func validate(template string) error {
	base, predicate, filtered := filter.Extract(template)

	if _, err := pattern.Parse(base); err != nil {
		return err
	}

	if filtered {
		if _, err := filter.Compile(predicate); err != nil {
			return err
		}
	}

	return nil
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.Open(path)
}
