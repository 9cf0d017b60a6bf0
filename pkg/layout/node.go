// Package layout parses, rebalances, and re-encodes tmux window layout strings.
//
// tmux describes a window's pane arrangement with a compact textual encoding,
// visible as #{window_layout}:
//
//	bb62,238x54,0,0{119x54,0,0,1,118x54,120,0[118x27,120,0,2,118x26,120,28,3]}
//
// The leading 4 hex digits are a checksum the tmux server requires before it
// accepts a layout via `select-layout`. The rest is a recursive encoding of
// the pane tree: every node starts with "WxH,X,Y"; a node followed by
// "{...}" is a left-to-right split, "[...]" a top-to-bottom split, and a
// node followed by ",N" is a pane with id N.
//
// This package provides the four pieces needed to rewrite such a string so
// that sibling panes share space evenly: Parse, Equalize, Serialize, and
// Checksum. The tmux server itself is not touched here; see pkg/balancer for
// the command boundary.
package layout

// NodeKind discriminates the three node shapes in a layout tree.
type NodeKind int

const (
	// Leaf is a single pane, optionally carrying a tmux pane id.
	Leaf NodeKind = iota

	// HorizontalSplit arranges its children left to right ("{...}" in the
	// encoding). Note tmux's naming is cell-oriented: a horizontal split
	// divides the width.
	HorizontalSplit

	// VerticalSplit arranges its children top to bottom ("[...]").
	VerticalSplit
)

// String returns a short name for the kind, for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case HorizontalSplit:
		return "hsplit"
	case VerticalSplit:
		return "vsplit"
	default:
		return "unknown"
	}
}

// Node is a single node in a layout tree: either a pane (Leaf) or a split.
//
// Geometry invariants maintained by Parse and re-established by Equalize:
//   - for a split, the children's extents along the split axis plus one
//     border cell between each adjacent pair sum to the split's own extent
//   - children are contiguous and strictly increasing along the split axis
//   - every child spans the parent's full extent on the cross axis
type Node struct {
	Kind NodeKind

	// Size in character cells and absolute position within the window.
	Width  int
	Height int
	X      int
	Y      int

	// PaneID is set only on leaves. tmux emits a trailing ",<id>" for panes;
	// a leaf can legitimately have no recorded id (degenerate encodings at
	// end of input), represented as nil and serialized back as nothing.
	PaneID *int

	// Children is set only on splits, ordered left-to-right / top-to-bottom.
	// The order is load-bearing: Equalize and Serialize must preserve it.
	Children []*Node
}

// IsSplit reports whether the node subdivides space among children.
func (n *Node) IsSplit() bool {
	return n.Kind == HorizontalSplit || n.Kind == VerticalSplit
}

// CountPanes returns the number of leaves in the subtree rooted at n.
func (n *Node) CountPanes() int {
	if n == nil {
		return 0
	}
	if !n.IsSplit() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.CountPanes()
	}
	return total
}

// Equal reports deep structural and geometric equality of two trees.
// Used by tests and idempotence checks; nil PaneIDs compare equal to each
// other only.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Width != o.Width || n.Height != o.Height || n.X != o.X || n.Y != o.Y {
		return false
	}
	if (n.PaneID == nil) != (o.PaneID == nil) {
		return false
	}
	if n.PaneID != nil && *n.PaneID != *o.PaneID {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.PaneID != nil {
		id := *n.PaneID
		cp.PaneID = &id
	}
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}
