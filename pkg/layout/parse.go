package layout

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed layout encoding. It carries the byte offset
// of the offending character so users can diagnose truncated or mangled
// layout strings. Parse errors are terminal: there is no partial-tree
// recovery.
type ParseError struct {
	// Pos is the byte offset into the body where parsing failed.
	Pos int

	// Expected describes what the parser required at Pos (e.g. "digit", "'x'").
	Expected string

	// Actual is the character found, or "end of input".
	Actual string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("layout parse error at position %d: expected %s, found %s", e.Pos, e.Expected, e.Actual)
}

// cursor is the parser's only state: the input and a position into it.
// It is owned by a single Parse call; no global state is involved.
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() byte {
	return c.src[c.pos]
}

// errHere builds a ParseError describing the current position.
func (c *cursor) errHere(expected string) *ParseError {
	actual := "end of input"
	if !c.eof() {
		actual = fmt.Sprintf("%q", string(c.src[c.pos]))
	}
	return &ParseError{Pos: c.pos, Expected: expected, Actual: actual}
}

// expect consumes a single required character or fails.
func (c *cursor) expect(ch byte) *ParseError {
	if c.eof() || c.peek() != ch {
		return c.errHere(fmt.Sprintf("%q", string(ch)))
	}
	c.pos++
	return nil
}

// number consumes a maximal run of decimal digits. At least one digit is
// required.
func (c *cursor) number() (int, *ParseError) {
	start := c.pos
	v := 0
	for !c.eof() && c.peek() >= '0' && c.peek() <= '9' {
		v = v*10 + int(c.peek()-'0')
		c.pos++
	}
	if c.pos == start {
		return 0, c.errHere("digit")
	}
	return v, nil
}

// Parse converts a layout body (the encoding with the checksum already
// stripped) into a tree. The grammar, informally:
//
//	node  := WxH,X,Y ( "{" node ("," node)* "}"   ; horizontal split
//	                 | "[" node ("," node)* "]"   ; vertical split
//	                 | "," paneid                 ; leaf with id
//	                 | )                          ; leaf without id
//
// Leaf and split nodes share the geometry prefix and are distinguished only
// by what follows it. A node followed by nothing the parser recognizes is a
// leaf with no recorded pane id; tmux produces this shape in degenerate
// cases and it round-trips as-is.
func Parse(body string) (*Node, error) {
	c := &cursor{src: body}
	root, perr := parseNode(c)
	if perr != nil {
		return nil, perr
	}
	return root, nil
}

func parseNode(c *cursor) (*Node, *ParseError) {
	n := &Node{Kind: Leaf}

	var perr *ParseError
	if n.Width, perr = c.number(); perr != nil {
		return nil, perr
	}
	if perr = c.expect('x'); perr != nil {
		return nil, perr
	}
	if n.Height, perr = c.number(); perr != nil {
		return nil, perr
	}
	if perr = c.expect(','); perr != nil {
		return nil, perr
	}
	if n.X, perr = c.number(); perr != nil {
		return nil, perr
	}
	if perr = c.expect(','); perr != nil {
		return nil, perr
	}
	if n.Y, perr = c.number(); perr != nil {
		return nil, perr
	}

	if c.eof() {
		// Leaf with no recorded pane id.
		return n, nil
	}

	switch c.peek() {
	case '{':
		return parseChildren(c, n, HorizontalSplit, '{', '}')
	case '[':
		return parseChildren(c, n, VerticalSplit, '[', ']')
	case ',':
		// Leaf tail: the comma is consumed greedily and the pane id digits
		// become mandatory. A truncated encoding like "80x24,0,0," fails
		// here, with the error pointing just past the comma. Sibling
		// separators never reach this branch because the encoding always
		// gives an in-split leaf a pane id tail first.
		c.pos++
		id, perr := c.number()
		if perr != nil {
			return nil, perr
		}
		n.PaneID = &id
		return n, nil
	default:
		// '}' / ']' terminating the parent, or trailing garbage the parent
		// will reject. Either way this node is a complete id-less leaf.
		return n, nil
	}
}

func parseChildren(c *cursor, n *Node, kind NodeKind, open, close byte) (*Node, *ParseError) {
	n.Kind = kind
	if perr := c.expect(open); perr != nil {
		return nil, perr
	}
	for {
		child, perr := parseNode(c)
		if perr != nil {
			return nil, perr
		}
		n.Children = append(n.Children, child)

		if c.eof() {
			return nil, c.errHere(fmt.Sprintf("%q or %q", string(','), string(close)))
		}
		switch c.peek() {
		case ',':
			c.pos++
		case close:
			c.pos++
			return n, nil
		default:
			// Mismatched bracket kind lands here ('}' closing a '[' split
			// and vice versa).
			return nil, c.errHere(fmt.Sprintf("%q or %q", string(','), string(close)))
		}
	}
}

// StripChecksum removes the leading "<checksum>," prefix from a full layout
// string as reported by tmux (#{window_layout}) and returns the body. The
// checksum digits themselves are not verified; the server recomputes them on
// apply anyway. An input with no comma is unusable.
func StripChecksum(full string) (string, error) {
	i := strings.IndexByte(full, ',')
	if i < 0 {
		return "", fmt.Errorf("layout string %q has no checksum prefix", full)
	}
	return full[i+1:], nil
}
