package balancer

import (
	"fmt"
	"strings"

	"tmux-layout-balancer/pkg/layout"
)

// balance.go
//
// The rebalancing pipeline:
//
//	fetch -> strip checksum -> parse -> equalize -> serialize -> checksum -> apply
//
// BalanceLayout is the pure middle of that pipeline and operates on strings
// only, which keeps it fully testable without a tmux server. BalanceWindow
// and BalanceAllWindows add the host boundary on both ends.
//
// Every failure is terminal for the invocation: no retry, no partial
// application, no fallback layout.

// FetchError indicates tmux returned an empty or otherwise unusable layout
// string for a window.
type FetchError struct {
	Target string
	Reason string
}

func (e *FetchError) Error() string {
	target := e.Target
	if target == "" {
		target = "current window"
	}
	return fmt.Sprintf("fetch layout for %s: %s", target, e.Reason)
}

// ApplyError indicates the tmux server rejected the re-encoded layout.
// Err carries tmux's own message (typically from stderr).
type ApplyError struct {
	Target string
	Err    error
}

func (e *ApplyError) Error() string {
	target := e.Target
	if target == "" {
		target = "current window"
	}
	return fmt.Sprintf("apply layout to %s: %v", target, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// BalanceLayout takes a full "<checksum4hex>,<body>" layout string, rewrites
// the tree so every group of siblings is equal-sized, and returns the
// re-encoded string with a fresh checksum. The root's own geometry is taken
// from the string itself; the overall window size is never recomputed.
func BalanceLayout(full string) (string, error) {
	body, err := layout.StripChecksum(full)
	if err != nil {
		return "", err
	}
	root, err := layout.Parse(body)
	if err != nil {
		return "", err
	}
	layout.Equalize(root, root.Width, root.Height, root.X, root.Y)
	return layout.WithChecksum(layout.Serialize(root)), nil
}

// BalanceLayoutSized is BalanceLayout with the root geometry overridden.
// Used by offline mode, where the layout string may have been captured on a
// terminal of a different size. Non-positive dimensions keep the stored
// value.
func BalanceLayoutSized(full string, width, height int) (string, error) {
	body, err := layout.StripChecksum(full)
	if err != nil {
		return "", err
	}
	root, err := layout.Parse(body)
	if err != nil {
		return "", err
	}
	if width <= 0 {
		width = root.Width
	}
	if height <= 0 {
		height = root.Height
	}
	layout.Equalize(root, width, height, root.X, root.Y)
	return layout.WithChecksum(layout.Serialize(root)), nil
}

// BalanceWindow rebalances one window in place. target follows tmux's
// target-window syntax; empty means the current window. Returns the applied
// layout string so callers can report it.
func BalanceWindow(target string) (string, error) {
	full, err := CurrentWindowLayout(target)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(full) == "" {
		return "", &FetchError{Target: target, Reason: "tmux returned an empty layout string"}
	}

	balanced, err := BalanceLayout(full)
	if err != nil {
		return "", err
	}

	// A single pane (or an already even layout) re-encodes identically;
	// skip the apply round trip in that case.
	if balanced == full {
		return balanced, nil
	}

	if err := ApplyWindowLayout(target, balanced); err != nil {
		return "", &ApplyError{Target: target, Err: err}
	}
	return balanced, nil
}

// BalanceAllWindows rebalances every window in the current session. The
// first error stops the walk; windows already processed stay balanced
// (windows are independent, so there is no partial-window state to unwind).
func BalanceAllWindows() (int, error) {
	windows, err := ListWindows()
	if err != nil {
		return 0, err
	}
	balanced := 0
	for _, w := range windows {
		if w.Panes < 2 {
			continue
		}
		if _, err := BalanceWindow(w.Target()); err != nil {
			return balanced, fmt.Errorf("window %d (%s): %w", w.Index, w.Name, err)
		}
		balanced++
	}
	return balanced, nil
}
