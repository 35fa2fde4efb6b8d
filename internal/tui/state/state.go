package state

// ClampCursor keeps a cursor within [0, size).
func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// CenteredWindow returns the [start, end) slice of rows that keeps the
// cursor near the middle of a viewport of the given height. This is the
// scroll-into-view behavior for the article list.
func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// MoveInOrder moves name one position up or down inside order, returning a
// new slice. Names absent from order are appended first so a reorder always
// has something to move.
func MoveInOrder(order []string, name string, delta int) []string {
	out := append([]string(nil), order...)
	idx := -1
	for i, n := range out {
		if n == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		out = append(out, name)
		idx = len(out) - 1
	}
	target := idx + delta
	if target < 0 || target >= len(out) {
		return out
	}
	out[idx], out[target] = out[target], out[idx]
	return out
}
