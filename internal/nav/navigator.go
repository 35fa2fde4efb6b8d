// Package nav walks the currently rendered article list. The cursor is
// established on the first move after a render and clamps at the list
// boundaries; there is no wraparound.
package nav

// Navigator holds a cursor over the renderer's visible article identifiers.
type Navigator struct {
	visible []string
	cursor  int
}

func New() *Navigator {
	return &Navigator{cursor: -1}
}

// SetVisible replaces the visible list and resets the cursor, so the next
// move re-establishes it at an end of the list.
func (n *Navigator) SetVisible(links []string) {
	n.visible = links
	n.cursor = -1
}

// Next moves the cursor forward, establishing it at the first item when no
// item is focused yet. Returns the focused identifier.
func (n *Navigator) Next() (string, bool) {
	if len(n.visible) == 0 {
		return "", false
	}
	if n.cursor < 0 {
		n.cursor = 0
	} else if n.cursor < len(n.visible)-1 {
		n.cursor++
	}
	return n.visible[n.cursor], true
}

// Previous moves the cursor backward, establishing it at the last item when
// no item is focused yet.
func (n *Navigator) Previous() (string, bool) {
	if len(n.visible) == 0 {
		return "", false
	}
	if n.cursor < 0 {
		n.cursor = len(n.visible) - 1
	} else if n.cursor > 0 {
		n.cursor--
	}
	return n.visible[n.cursor], true
}

// Focused returns the currently focused identifier, if any.
func (n *Navigator) Focused() (string, bool) {
	if n.cursor < 0 || n.cursor >= len(n.visible) {
		return "", false
	}
	return n.visible[n.cursor], true
}

// Index returns the cursor position, -1 when nothing is focused.
func (n *Navigator) Index() int { return n.cursor }

// Len returns the size of the visible list.
func (n *Navigator) Len() int { return len(n.visible) }

// Focus places the cursor on the given identifier if it is visible. The
// cursor is left unchanged otherwise.
func (n *Navigator) Focus(link string) bool {
	for i, l := range n.visible {
		if l == link {
			n.cursor = i
			return true
		}
	}
	return false
}

// Links returns the visible identifiers in display order.
func (n *Navigator) Links() []string {
	return append([]string(nil), n.visible...)
}
