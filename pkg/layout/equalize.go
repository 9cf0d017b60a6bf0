package layout

// Equalize rewrites the geometry of the subtree rooted at n so that the
// children of every split share the available space evenly, recursively.
// The root's own window size is taken as given (width/height/x/y) and
// propagated down; only geometry changes, never kinds, pane ids, or child
// order.
//
// Sizing per split: one border cell is consumed between each adjacent pair
// of siblings, so with n children the usable extent is the split's extent
// minus (n-1). Each child gets the floor of usable/n; the remainder cells go
// to the *last* remainder children, one each. The trailing tie-break matches
// tmux's own cell distribution, which matters for producing byte-identical
// strings on ties.
//
// Degenerate inputs (extent smaller than the border count) produce zero or
// negative child sizes and are passed through unchanged; tmux tolerates
// them, so no minimum size is imposed here.
func Equalize(n *Node, width, height, x, y int) {
	if n == nil {
		return
	}
	n.Width = width
	n.Height = height
	n.X = x
	n.Y = y

	if !n.IsSplit() {
		return
	}

	count := len(n.Children)
	borders := count - 1

	avail := width
	if n.Kind == VerticalSplit {
		avail = height
	}
	usable := avail - borders
	base := floorDiv(usable, count)
	remainder := usable - base*count

	pos := x
	if n.Kind == VerticalSplit {
		pos = y
	}

	for i, child := range n.Children {
		extent := base
		if i >= count-remainder {
			extent++
		}
		if n.Kind == HorizontalSplit {
			Equalize(child, extent, height, pos, y)
		} else {
			Equalize(child, width, extent, x, pos)
		}
		pos += extent + 1
	}
}

// floorDiv is integer division rounding toward negative infinity. Go's /
// truncates toward zero, which differs on the negative extents that
// degenerate layouts can produce.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
