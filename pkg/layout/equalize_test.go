package layout

import "testing"

func TestEqualize_SinglePaneUnchanged(t *testing.T) {
	n, err := Parse("80x24,0,0,5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 80, 24, 0, 0)
	if got := Serialize(n); got != "80x24,0,0,5" {
		t.Fatalf("expected identical string back, got %q", got)
	}
}

func TestEqualize_TwoWayHorizontalNoRemainder(t *testing.T) {
	n, err := Parse("80x24,0,0{40x24,0,0,5,40x24,41,0,6}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 81 wide: usable=80, base=40, remainder=0.
	Equalize(n, 81, 24, 0, 0)

	left, right := n.Children[0], n.Children[1]
	if left.Width != 40 || right.Width != 40 {
		t.Fatalf("expected widths 40/40, got %d/%d", left.Width, right.Width)
	}
	if left.X != 0 || right.X != 41 {
		t.Fatalf("expected x positions 0/41, got %d/%d", left.X, right.X)
	}
	if left.Height != 24 || right.Height != 24 {
		t.Fatalf("expected full-height children, got %d/%d", left.Height, right.Height)
	}
}

func TestEqualize_ThreeWayRemainderGoesToTrailingChildren(t *testing.T) {
	n, err := Parse("82x24,0,0{30x24,0,0,1,30x24,31,0,2,20x24,62,0,3}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 82 wide, 3 children: usable=80, base=26, remainder=2 -> last two get 27.
	Equalize(n, 82, 24, 0, 0)

	wantWidths := []int{26, 27, 27}
	wantX := []int{0, 27, 55}
	for i, c := range n.Children {
		if c.Width != wantWidths[i] {
			t.Fatalf("child %d: expected width %d, got %d", i, wantWidths[i], c.Width)
		}
		if c.X != wantX[i] {
			t.Fatalf("child %d: expected x %d, got %d", i, wantX[i], c.X)
		}
	}
}

func TestEqualize_VerticalSplit(t *testing.T) {
	n, err := Parse("80x24,0,0[80x12,0,0,1,80x11,0,13,2]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 25 tall: usable=24, base=12, remainder=0.
	Equalize(n, 80, 25, 0, 0)

	top, bottom := n.Children[0], n.Children[1]
	if top.Height != 12 || bottom.Height != 12 {
		t.Fatalf("expected heights 12/12, got %d/%d", top.Height, bottom.Height)
	}
	if top.Y != 0 || bottom.Y != 13 {
		t.Fatalf("expected y positions 0/13, got %d/%d", top.Y, bottom.Y)
	}
	if top.Width != 80 || bottom.Width != 80 {
		t.Fatalf("expected full-width children, got %d/%d", top.Width, bottom.Width)
	}
}

func TestEqualize_NestedSplits(t *testing.T) {
	body := "238x54,0,0{119x54,0,0,1,118x54,120,0[118x27,120,0,2,118x26,120,28,3]}"
	n, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 238, 54, 0, 0)

	// Outer: usable=237, base=118, remainder=1 -> right child gets 119.
	left, right := n.Children[0], n.Children[1]
	if left.Width != 118 || right.Width != 119 {
		t.Fatalf("expected outer widths 118/119, got %d/%d", left.Width, right.Width)
	}
	if right.X != 119 {
		t.Fatalf("expected right child at x=119, got %d", right.X)
	}
	// Inner vertical split inherits 119x54 at (119,0): usable=53, base=26,
	// remainder=1 -> bottom gets 27.
	top, bottom := right.Children[0], right.Children[1]
	if top.Height != 26 || bottom.Height != 27 {
		t.Fatalf("expected inner heights 26/27, got %d/%d", top.Height, bottom.Height)
	}
	if top.Width != 119 || bottom.Width != 119 {
		t.Fatalf("expected inner children to span parent width, got %d/%d", top.Width, bottom.Width)
	}
	if bottom.Y != 27 {
		t.Fatalf("expected bottom child at y=27, got %d", bottom.Y)
	}
}

func TestEqualize_Idempotent(t *testing.T) {
	body := "238x54,0,0{119x54,0,0,1,118x54,120,0[118x27,120,0,2,118x26,120,28,3]}"
	n, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 238, 54, 0, 0)
	once := n.Clone()
	Equalize(n, 238, 54, 0, 0)
	if !n.Equal(once) {
		t.Fatalf("equalize is not idempotent:\n first: %s\nsecond: %s", Serialize(once), Serialize(n))
	}
}

func TestEqualize_InvariantsHoldAfterRebalance(t *testing.T) {
	body := "201x50,0,0{50x50,0,0,1,75x50,51,0,2,74x50,127,0[74x25,127,0,3,74x24,127,26,4]}"
	n, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 201, 50, 0, 0)
	checkInvariants(t, n)
}

func TestEqualize_PreservesStructureAndIDs(t *testing.T) {
	body := "100x40,0,0{49x40,0,0,7,50x40,50,0,9}"
	n, err := Parse(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	before := n.Clone()
	Equalize(n, 120, 40, 0, 0)

	if n.Kind != before.Kind || len(n.Children) != len(before.Children) {
		t.Fatalf("equalize changed tree structure")
	}
	for i := range n.Children {
		a, b := n.Children[i], before.Children[i]
		if (a.PaneID == nil) != (b.PaneID == nil) || (a.PaneID != nil && *a.PaneID != *b.PaneID) {
			t.Fatalf("child %d: pane id changed", i)
		}
	}
}

func TestEqualize_DegenerateTinyExtent(t *testing.T) {
	// Three panes in 2 columns: usable=0, base=0, remainder=0. Zero widths
	// are passed through rather than clamped; tmux tolerates this shape.
	n, err := Parse("2x24,0,0{1x24,0,0,1,0x24,2,0,2,0x24,3,0,3}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Equalize(n, 2, 24, 0, 0)
	for i, c := range n.Children {
		if c.Width != 0 {
			t.Fatalf("child %d: expected width 0, got %d", i, c.Width)
		}
	}
}

// checkInvariants verifies the structural geometry contract for every split
// in the subtree: children tile the split axis with one border cell between
// neighbors, and span the parent fully on the cross axis.
func checkInvariants(t *testing.T, n *Node) {
	t.Helper()
	if !n.IsSplit() {
		return
	}
	horizontal := n.Kind == HorizontalSplit

	pos := n.X
	if !horizontal {
		pos = n.Y
	}
	sum := 0
	for i, c := range n.Children {
		if horizontal {
			if c.X != pos {
				t.Fatalf("child %d: expected x=%d, got %d", i, pos, c.X)
			}
			if c.Height != n.Height || c.Y != n.Y {
				t.Fatalf("child %d: does not span parent cross axis", i)
			}
			sum += c.Width
			pos += c.Width + 1
		} else {
			if c.Y != pos {
				t.Fatalf("child %d: expected y=%d, got %d", i, pos, c.Y)
			}
			if c.Width != n.Width || c.X != n.X {
				t.Fatalf("child %d: does not span parent cross axis", i)
			}
			sum += c.Height
			pos += c.Height + 1
		}
		checkInvariants(t, c)
	}

	extent := n.Width
	if !horizontal {
		extent = n.Height
	}
	if want := extent - (len(n.Children) - 1); sum != want {
		t.Fatalf("children sum to %d along split axis, expected %d", sum, want)
	}
}
