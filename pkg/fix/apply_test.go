package fix_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/yaklabco/gojanitor/pkg/fix"
)

func TestApplyShifted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []fix.TextEdit
		want    string
	}{
		{"no edits", "int x;", nil, "int x;"},
		{"append terminator", "x = 5", []fix.TextEdit{edit(5, 5, ";")}, "x = 5;"},
		{
			"growing then shrinking",
			"var a; var b;",
			[]fix.TextEdit{edit(0, 3, "const"), edit(7, 10, "")},
			"const a;  b;",
		},
		{
			"insert before replacement at same offset",
			"abcdef",
			[]fix.TextEdit{edit(2, 2, "["), edit(2, 4, "XY")},
			"ab[XYef",
		},
		{"wrap line", "f()", []fix.TextEdit{edit(0, 0, "{ "), edit(3, 3, "; }")}, "{ f(); }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			accepted, _, err := fix.Resolve(tt.edits, len(tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if got := string(fix.ApplyShifted([]byte(tt.content), accepted)); got != tt.want {
				t.Errorf("ApplyShifted() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyDescending_SameOffsetKeepsRecordingOrder(t *testing.T) {
	t.Parallel()

	got := fix.ApplyDescending([]byte("ab"), []fix.TextEdit{
		edit(1, 1, "1"),
		edit(1, 1, "2"),
		edit(1, 1, "3"),
	})
	if string(got) != "a123b" {
		t.Errorf("ApplyDescending() = %q, want %q", got, "a123b")
	}
}

func TestApplyDescending_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	content := []byte("return x")
	_ = fix.ApplyDescending(content, []fix.TextEdit{edit(8, 8, ";")})
	if string(content) != "return x" {
		t.Errorf("input mutated: %q", content)
	}
}

// Both strategies must agree on any set of resolved edits.
func TestApplyStrategiesAgree(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		content := rapid.StringMatching(`[a-z{};\n ]{0,30}`).Draw(rt, "content")
		n := len(content)

		count := rapid.IntRange(0, 5).Draw(rt, "count")
		edits := make([]fix.TextEdit, 0, count)
		for range count {
			start := rapid.IntRange(0, n).Draw(rt, "start")
			end := rapid.IntRange(start, n).Draw(rt, "end")
			text := rapid.StringMatching(`[A-Z;]{0,3}`).Draw(rt, "text")
			edits = append(edits, edit(start, end, text))
		}

		accepted, _, err := fix.Resolve(edits, n)
		if err != nil {
			rt.Fatalf("Resolve() error = %v", err)
		}

		shifted := fix.ApplyShifted([]byte(content), accepted)
		descending := fix.ApplyDescending([]byte(content), accepted)
		if string(shifted) != string(descending) {
			rt.Fatalf("ApplyShifted = %q, ApplyDescending = %q", shifted, descending)
		}
	})
}
