package fix

import "bytes"

// ApplyEdits applies a sorted, non-overlapping slice of edits to content.
// Edits must be prepared with PrepareEdits before calling. Because the
// edits are disjoint, a single ascending pass with a cursor produces the
// same result as applying them in any other order.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - e.Span()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}
