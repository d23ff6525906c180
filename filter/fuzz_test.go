package filter

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzCompile checks that arbitrary predicates never panic and only fail
// with the package's own errors.
func FuzzCompile(f *testing.F) {
	f.Add("i % 2 == 0")
	f.Add("1 < i <= 3")
	f.Add("not (i // 2 == 1) or False")
	f.Add("6 / (i - 3)")
	f.Add("((((i))))")
	f.Add("-+-i")
	f.Add("__import__('os')")
	f.Add("")

	f.Fuzz(func(t *testing.T, text string) {
		if !utf8.ValidString(text) {
			t.Skip("invalid UTF-8")
		}

		p, err := Compile(text)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Compile(%q) error %v is not ErrSyntax", text, err)
			}

			return
		}

		for i := 1; i <= 6; i++ {
			if _, err := p.Eval(i); err != nil && !errors.Is(err, ErrEvaluate) {
				t.Fatalf("Eval(%d) of %q error %v is not ErrEvaluate", i, text, err)
			}
		}

		got := Apply([]string{"a", "b", "c"}, text)
		if len(got) > 3 {
			t.Fatalf("Apply(%q) grew the sequence: %q", text, got)
		}
	})
}
