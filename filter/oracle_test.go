package filter

import (
	"testing"

	"github.com/expr-lang/expr"
)

// TestPredicate_AgreesWithExpr cross-checks the evaluator against
// expr-lang on expressions both languages read the same way: positive
// operands for %, explicit parentheses around negated comparisons, and no
// chained comparisons.
func TestPredicate_AgreesWithExpr(t *testing.T) {
	t.Parallel()

	exprs := []string{
		"i % 2 == 0",
		"i % 3 == 1 or i > 7",
		"i > 2 and i < 6",
		"not (i % 4 == 0)",
		"(i + 1) * 2 > 10 || i == 1",
		"i - 4 >= -2 && i != 5",
		"i * i < 20",
		"!(i >= 3) || i % 5 == 0",
		"i + 2 * 3 == 9 or i * (2 + 3) == 10",
	}

	env := map[string]any{"i": 0}

	for _, src := range exprs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(src)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", src, err)
			}

			program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
			if err != nil {
				t.Fatalf("expr.Compile(%q) error: %v", src, err)
			}

			for i := 1; i <= 12; i++ {
				got, err := p.Eval(i)
				if err != nil {
					t.Fatalf("Eval(%d) error: %v", i, err)
				}

				out, err := expr.Run(program, map[string]any{"i": i})
				if err != nil {
					t.Fatalf("expr.Run(i=%d) error: %v", i, err)
				}

				if want, _ := out.(bool); got != want {
					t.Errorf("%q with i=%d = %v, expr-lang says %v", src, i, got, want)
				}
			}
		})
	}
}
