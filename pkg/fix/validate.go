package fix

import (
	"fmt"
	"slices"
)

// ValidationError reports an edit whose range does not fit the buffer.
type ValidationError struct {
	Edit   TextEdit
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Reason)
}

// ConflictError reports two edits whose ranges overlap.
type ConflictError struct {
	First, Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset, e.Second.StartOffset, e.Second.EndOffset)
}

// Validate checks every edit range against a buffer of size n.
func Validate(edits []TextEdit, n int) error {
	for _, e := range edits {
		var reason string
		switch {
		case e.StartOffset < 0:
			reason = "negative start"
		case e.EndOffset < e.StartOffset:
			reason = "end before start"
		case e.EndOffset > n:
			reason = fmt.Sprintf("end past buffer size %d", n)
		default:
			continue
		}
		return &ValidationError{Edit: e, Reason: reason}
	}
	return nil
}

// overlaps reports whether b, starting at or after a, overlaps a.
// Insertions at the boundary of a replacement do not overlap it.
func overlaps(a, b TextEdit) bool {
	if b.StartOffset == b.EndOffset || a.StartOffset == a.EndOffset {
		return b.StartOffset < a.EndOffset && b.StartOffset > a.StartOffset
	}
	return b.StartOffset < a.EndOffset
}

// sorted returns a copy of edits ordered by start then end offset, so an
// insertion precedes a replacement starting at the same byte. Equal
// ranges keep recording order.
func sorted(edits []TextEdit) []TextEdit {
	out := slices.Clone(edits)
	slices.SortStableFunc(out, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})
	return out
}

// CheckOverlaps returns a *ConflictError for the first pair of
// overlapping edits, in start order.
func CheckOverlaps(edits []TextEdit) error {
	ordered := sorted(edits)
	for i := 1; i < len(ordered); i++ {
		if overlaps(ordered[i-1], ordered[i]) {
			return &ConflictError{First: ordered[i-1], Second: ordered[i]}
		}
	}
	return nil
}

// Resolve validates edits and orders them by start offset. An edit that
// overlaps one already accepted is dropped; the earliest edit wins.
// The accepted slice is ready for ApplyShifted.
func Resolve(edits []TextEdit, n int) (accepted, dropped []TextEdit, err error) {
	if err := Validate(edits, n); err != nil {
		return nil, nil, err
	}
	for _, e := range sorted(edits) {
		if len(accepted) > 0 && overlaps(accepted[len(accepted)-1], e) {
			dropped = append(dropped, e)
			continue
		}
		accepted = append(accepted, e)
	}
	return accepted, dropped, nil
}
