//go:build cgo

package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJavaScript_DeclarationRewrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		input        string
		want         string
		wantRewrites int
	}{
		{
			name:         "var to const and let",
			path:         "app.js",
			input:        "var a = 1;\nvar b = 2;\nb = 3;\n",
			want:         "const a = 1;\nlet b = 2;\nb = 3;\n",
			wantRewrites: 2,
		},
		{
			name:  "uninitialised let stays",
			path:  "app.js",
			input: "let x;\nx = 1;\n",
			want:  "let x;\nx = 1;\n",
		},
		{
			name:  "update expression keeps let",
			path:  "app.js",
			input: "let count = 0;\ncount++;\n",
			want:  "let count = 0;\ncount++;\n",
		},
		{
			name:  "compound assignment keeps let",
			path:  "app.js",
			input: "let total = 0;\ntotal += 5;\n",
			want:  "let total = 0;\ntotal += 5;\n",
		},
		{
			name:  "destructuring reassignment keeps let",
			path:  "app.js",
			input: "let { a, b } = obj;\n[a] = list;\n",
			want:  "let { a, b } = obj;\n[a] = list;\n",
		},
		{
			name:         "destructuring without reassignment",
			path:         "app.js",
			input:        "let { a, b: c } = obj;\nuse(a, c);\n",
			want:         "const { a, b: c } = obj;\nuse(a, c);\n",
			wantRewrites: 1,
		},
		{
			name:         "member assignment is not a rebinding",
			path:         "app.js",
			input:        "let cfg = {};\ncfg.debug = true;\n",
			want:         "const cfg = {};\ncfg.debug = true;\n",
			wantRewrites: 1,
		},
		{
			name:  "exported declaration stays",
			path:  "app.js",
			input: "export let api = 1;\n",
			want:  "export let api = 1;\n",
		},
		{
			name:  "export clause keeps let",
			path:  "app.js",
			input: "let v = 1;\nexport { v };\n",
			want:  "let v = 1;\nexport { v };\n",
		},
		{
			name:  "loop counter stays let",
			path:  "app.js",
			input: "for (let i = 0; i < 3; i++) {}\n",
			want:  "for (let i = 0; i < 3; i++) {}\n",
		},
		{
			name:         "for of head becomes const",
			path:         "app.js",
			input:        "for (let k of items) {\nconsole.log(k);\n}\n",
			want:         "for (const k of items) {\n  console.log(k);\n}\n",
			wantRewrites: 1,
		},
		{
			name:         "scopes are independent",
			path:         "app.js",
			input:        "function a() {\n  let x = 1;\n  return x;\n}\nfunction b() {\n  let x = 1;\n  x = 2;\n  return x;\n}\n",
			want:         "function a() {\n  const x = 1;\n  return x;\n}\nfunction b() {\n  let x = 1;\n  x = 2;\n  return x;\n}\n",
			wantRewrites: 1,
		},
		{
			name:         "typescript annotation",
			path:         "app.ts",
			input:        "var n: number = 1;\n",
			want:         "const n: number = 1;\n",
			wantRewrites: 1,
		},
		{
			name:         "tsx component",
			path:         "view.tsx",
			input:        "var el = <div>hi</div>;\n",
			want:         "const el = <div>hi</div>;\n",
			wantRewrites: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			an := analyze(t, tt.path, tt.input)
			assert.Equal(t, tt.want, applied(t, an))
			assert.Equal(t, tt.wantRewrites, an.Rewrites)
			assert.False(t, an.ParseFallback)
		})
	}
}

func TestJavaScript_RegexFallback(t *testing.T) {
	t.Parallel()

	an := analyze(t, "app.js", ")))\nvar a = 1\nfoo()\n")

	assert.True(t, an.ParseFallback)
	assert.Zero(t, an.Rewrites)
	assert.Equal(t, ")))\nlet a = 1\nfoo();\n", applied(t, an))
}

func TestJavaScript_RegexPassSettlesInOneRun(t *testing.T) {
	t.Parallel()

	// The regex pass adds terminators that can make the buffer parse, so
	// the next run must not find declarations left to rewrite.
	first := analyze(t, "app.js", "{\nfunction f(\nvar a = 1\na = 2\nvar a = 1")
	once := applied(t, first)

	second := analyze(t, "app.js", once)
	assert.Zero(t, second.EditCount(), "second run changed:\n%s", once)
	assert.Equal(t, once, applied(t, second))
}

func TestNeedsJSTerminator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"x = 1", true},
		{"console.log(x)", true},
		{"run(a, b)", true},
		{"x == 1", false},
		{"import x from 'y'", false},
		{"export default run", false},
		{"x = 1;", false},
		{"if (x) {", false},
		{"let a = 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, needsJSTerminator(tt.line))
		})
	}
}

func TestFormatJSFallback(t *testing.T) {
	t.Parallel()

	input := "function f() {\nrun(\na,\nb\n)\n}\n"
	want := "function f() {\n  run(\n    a,\n    b\n  )\n}\n"
	assert.Equal(t, want, formatJSFallback(input, 2))
	assert.Equal(t, want, formatJSFallback(want, 2))
}
