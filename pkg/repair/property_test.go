package repair_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yaklabco/gojanitor/pkg/repair"
	"github.com/yaklabco/gojanitor/pkg/scan"
)

//nolint:gochecknoglobals // Test vocabularies.
var (
	cLines = []string{
		"int x = 1", "x = x + 1", "foo()", "if (x) {", "while (x) {", "}", "{",
		"// note {", "/* c { */", "#define N 1", "", "return x", "int main()",
		"void setup(void)", "    y = 2;", "else {",
	}
	javaLines = []string{
		"int x = 1", "foo()", "if (x)", "if (x) y = 2", "} else", "else",
		"for (;;) {", "}", "class A {", "return x", "import a.b", "// c", "",
		"@Override", "x++", "while (ok) run()",
	}
	pythonLines = []string{
		"if x", "if x:", "else", "elif y", "x = 1", "def f", "def g(a)",
		"class C", "return 1", "# c", "", "for i in r", "pass", "try",
		"except", "finally", `"""doc"""`, "    indented = 2",
	}
	jsLines = []string{
		"var a = 1;", "let b = 2;", "b = 3;", "const c = 4;", "console.log(a);",
		"if (a) { b = 5; }", "// note", "", "function f() { return 1; }",
		"for (let i = 0; i < 2; i++) { f(); }", "var d;", "d = 7;",
		"function f(", "{", "var e = 1", "e = 2", "var t = `x",
	}
)

func drawSource(rt *rapid.T, vocab []string) string {
	lines := rapid.SliceOfN(rapid.SampledFrom(vocab), 0, 24).Draw(rt, "lines")
	return strings.Join(lines, "\n") + "\n"
}

func TestRepair_Idempotent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path  string
		vocab []string
	}{
		{"main.c", cLines},
		{"App.java", javaLines},
		{"app.py", pythonLines},
		{"app.js", jsLines},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			reg := repair.NewRegistry(nil, repair.Options{})
			ctx := context.Background()

			rapid.Check(t, func(rt *rapid.T) {
				input := drawSource(rt, tt.vocab)

				first, err := reg.FixBuffer(ctx, tt.path, []byte(input))
				require.NoError(rt, err)
				once, err := first.Apply()
				require.NoError(rt, err)

				second, err := reg.FixBuffer(ctx, tt.path, once)
				require.NoError(rt, err)
				require.Zero(rt, second.EditCount(), "second run changed:\n%s", once)
			})
		})
	}
}

func TestCFamily_BraceConservation(t *testing.T) {
	t.Parallel()

	reg := repair.NewRegistry(nil, repair.Options{})

	rapid.Check(t, func(rt *rapid.T) {
		input := drawSource(rt, cLines)
		opens, closes := scan.CodeBraces(scan.CSyntax, strings.Split(input, "\n"))
		if opens < closes {
			rt.Skip("more closers than openers")
		}

		an, err := reg.FixBuffer(context.Background(), "main.c", []byte(input))
		require.NoError(rt, err)
		out, err := an.Apply()
		require.NoError(rt, err)

		opens, closes = scan.CodeBraces(scan.CSyntax, strings.Split(string(out), "\n"))
		require.Equal(rt, opens, closes, "output:\n%s", out)
	})
}
