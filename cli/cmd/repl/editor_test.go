package repl

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestFirstTemplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"header", editHeader + "[Room, 1...3]\n", "[Room, 1...3]", true},
		{"indented", "\n   \n  lobby  \nignored\n", "lobby", true},
		{"comments only", "# one\n# two\n", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstTemplate(strings.NewReader(tt.in))
			if got != tt.want || ok != tt.ok {
				t.Errorf("firstTemplate() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, s := range []string{"general", "[1...5]", "[x, y, if i > 1]", "{A...B}{1...2}"} {
		if err := validate(s); err != nil {
			t.Errorf("validate(%q) = %v", s, err)
		}
	}

	for _, s := range []string{"[1...5:0]", "[1...3, if i ==]"} {
		if err := validate(s); err == nil {
			t.Errorf("validate(%q) = nil, want error", s)
		}
	}
}

// editCommand returns an edit command for template whose editor is the
// "true" utility, which leaves the buffer untouched.
func editCommand(t *testing.T, template, answer string) (*editTemplateCommand, *bytes.Buffer) {
	t.Helper()

	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no true utility:", err)
	}

	t.Setenv("EDITOR", path)

	var stderr bytes.Buffer

	return &editTemplateCommand{
		template: template,
		ctxFunc:  context.Background,
		stdin:    strings.NewReader(answer),
		stdout:   &bytes.Buffer{},
		stderr:   &stderr,
	}, &stderr
}

func TestEditTemplateCommand_Valid(t *testing.T) {
	c, _ := editCommand(t, "[Room, 1...3]", "")

	if err := c.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if !c.edited || c.result != "[Room, 1...3]" {
		t.Errorf("edited = %v, result = %q", c.edited, c.result)
	}
}

func TestEditTemplateCommand_Declined(t *testing.T) {
	c, stderr := editCommand(t, "[1...5:0]", "n\n")

	if err := c.Run(); !errors.Is(err, ErrEditDeclined) {
		t.Fatalf("Run() = %v, want %v", err, ErrEditDeclined)
	}

	if c.edited {
		t.Error("declined edit marked as edited")
	}

	if !strings.Contains(stderr.String(), "Invalid template") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
