package layout

import (
	"strconv"
	"strings"
)

// Serialize re-encodes a tree into the textual layout body, the exact mirror
// of Parse: "WxH,X,Y" per node, followed by "{...}" / "[...]" with
// comma-separated children for splits, ",<id>" for a leaf with a pane id, or
// nothing for an id-less leaf. Child order is emitted as stored. The result
// carries no checksum prefix; see WithChecksum.
func Serialize(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteString(strconv.Itoa(n.Width))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(n.Height))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(n.X))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(n.Y))

	switch n.Kind {
	case HorizontalSplit:
		writeChildren(b, n.Children, '{', '}')
	case VerticalSplit:
		writeChildren(b, n.Children, '[', ']')
	default:
		if n.PaneID != nil {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(*n.PaneID))
		}
	}
}

func writeChildren(b *strings.Builder, children []*Node, open, close byte) {
	b.WriteByte(open)
	for i, c := range children {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNode(b, c)
	}
	b.WriteByte(close)
}
