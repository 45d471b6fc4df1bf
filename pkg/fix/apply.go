package fix

import (
	"bytes"
	"sort"
)

// ApplyDescending splices edits into a copy of content, highest start
// offset first. Offsets refer to the original content. On equal start
// offsets the edit recorded last is spliced first, so insertions at one
// position end up in recording order. Overlapping edits splice onto the
// buffer as already rewritten, with offsets clamped to its current length.
// The input slices are not modified.
func ApplyDescending(content []byte, edits []TextEdit) []byte {
	out := make([]byte, len(content))
	copy(out, content)

	if len(edits) == 0 {
		return out
	}

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.StartOffset != eb.StartOffset {
			return ea.StartOffset > eb.StartOffset
		}
		return order[a] > order[b]
	})

	for _, idx := range order {
		e := edits[idx]
		end := min(e.EndOffset, len(out))
		start := min(e.StartOffset, end)

		var buf bytes.Buffer
		buf.Grow(len(out) + len(e.NewText) - (end - start))
		buf.Write(out[:start])
		buf.WriteString(e.NewText)
		buf.Write(out[end:])
		out = buf.Bytes()
	}

	return out
}

// ApplyShifted applies a sorted, validated, non-overlapping slice of edits
// in ascending order, tracking the running length delta so each edit's
// original offsets are corrected before splicing.
// Edits must come from Resolve.
func ApplyShifted(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	out := make([]byte, len(content))
	copy(out, content)

	shift := 0
	for _, e := range edits {
		start := e.StartOffset + shift
		end := e.EndOffset + shift

		var buf bytes.Buffer
		buf.Grow(len(out) + len(e.NewText) - (end - start))
		buf.Write(out[:start])
		buf.WriteString(e.NewText)
		buf.Write(out[end:])
		out = buf.Bytes()

		shift += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	return out
}
