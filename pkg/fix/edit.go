// Package fix provides the text edit model used by the repair engines:
// edits recorded against an immutable buffer and applied in one pass.
package fix

// TextEdit represents a single text replacement in a buffer.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Ledger accumulates edits against one original buffer.
// The original is never mutated; Apply produces a fresh copy.
// A Ledger belongs to a single analysis run and is not safe for concurrent use.
type Ledger struct {
	original []byte
	edits    []TextEdit
}

// NewLedger creates a ledger over original.
func NewLedger(original []byte) *Ledger {
	return &Ledger{
		original: original,
		edits:    make([]TextEdit, 0, 1),
	}
}

// Original returns the buffer the ledger's offsets refer to.
func (l *Ledger) Original() []byte {
	return l.original
}

// AddEdit records a replacement of bytes [start, end) with text.
// Overlapping edits are not rejected; see Apply.
func (l *Ledger) AddEdit(start, end int, text string) {
	l.edits = append(l.edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     text,
	})
}

// ReplaceAll records a single edit spanning the whole original buffer.
func (l *Ledger) ReplaceAll(text string) {
	l.AddEdit(0, len(l.original), text)
}

// Insert records an insertion at offset.
func (l *Ledger) Insert(offset int, text string) {
	l.AddEdit(offset, offset, text)
}

// Delete records a deletion of bytes [start, end).
func (l *Ledger) Delete(start, end int) {
	l.AddEdit(start, end, "")
}

// Edits returns a copy of the recorded edits in insertion order.
func (l *Ledger) Edits() []TextEdit {
	out := make([]TextEdit, len(l.edits))
	copy(out, l.edits)
	return out
}

// Len returns the number of recorded edits.
func (l *Ledger) Len() int {
	return len(l.edits)
}

// Apply returns the original buffer with every edit spliced in, applying
// edits from the highest start offset to the lowest so that offsets of
// edits not yet applied stay valid. Only bounds are validated: an edit
// that overlaps one already spliced lands on the partly rewritten buffer.
// Callers that need non-overlap run Resolve first.
func (l *Ledger) Apply() ([]byte, error) {
	if err := Validate(l.edits, len(l.original)); err != nil {
		return nil, err
	}
	return ApplyDescending(l.original, l.edits), nil
}
