// Package balancer connects the layout rebalancing core to a running tmux
// server: fetching a window's layout string, rewriting it so sibling panes
// share space evenly, and applying the result back.
package balancer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// tmux.go
//
// Socket-aware tmux command runner.
//
// Why this exists:
// - When invoked from a tmux key binding (run-shell) or popup, the client env
//   can differ from the user's shell, and a bare `tmux` invocation may talk
//   to the wrong server. select-layout against the wrong server silently
//   rearranges nothing the user can see.
//
// - The TMUX environment variable carries the server socket path plus
//   metadata:
//     TMUX=/private/tmp/tmux-502/default,35218,0
//   The socket path is the portion before the first comma. Using
//   `tmux -S <socket>` forces commands to the correct server.
//
// This file provides:
// - TmuxCmd: builds an exec.Cmd for tmux using the current socket (when available)
// - TmuxOutput / TmuxRun: convenience wrappers with combined stdout/stderr
// - CurrentWindowLayout / ApplyWindowLayout: the host boundary for layouts
// - ListWindows: session inventory for --all mode and the picker TUI

// ErrNotInTmux is returned when an operation requires a reachable tmux
// server and none can be found.
var ErrNotInTmux = errors.New("not in tmux")

// TmuxSocketPathFromEnv parses $TMUX and returns the socket path portion.
// If TMUX is empty or malformed, returns "".
func TmuxSocketPathFromEnv() string {
	t := strings.TrimSpace(os.Getenv("TMUX"))
	if t == "" {
		return ""
	}
	// TMUX format: <socket_path>,<server_pid>,<client_id>
	if i := strings.IndexByte(t, ','); i >= 0 {
		return t[:i]
	}
	return t
}

// HaveTmuxServer returns true if we can plausibly talk to tmux.
// It does not guarantee a specific client/window context.
func HaveTmuxServer() bool {
	if TmuxSocketPathFromEnv() != "" {
		return true
	}
	// Otherwise, attempt a cheap `tmux -V`.
	cmd := exec.Command("tmux", "-V")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// TmuxCmd creates an exec.Cmd to run tmux with socket-awareness when possible.
func TmuxCmd(args ...string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, errors.New("tmux: empty args")
	}

	full := make([]string, 0, len(args)+2)
	if socket := TmuxSocketPathFromEnv(); socket != "" {
		// Force correct tmux server socket.
		full = append(full, "-S", socket)
	}
	full = append(full, args...)

	cmd := exec.Command("tmux", full...)
	// Most tmux control commands don't need stdin.
	cmd.Stdin = nil
	return cmd, nil
}

// TmuxOutput runs a tmux command and returns stdout (trimmed) or an error
// containing stderr.
func TmuxOutput(args ...string) (string, error) {
	cmd, err := TmuxCmd(args...)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		return "", fmt.Errorf("tmux %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// TmuxRun runs a tmux command and returns a rich error message on failure.
func TmuxRun(args ...string) error {
	_, err := TmuxOutput(args...)
	return err
}

// CurrentWindowLayout returns the layout string of a window in the wire form
// "<checksum4hex>,<body>". target is any tmux window target ("@3",
// "mysession:2", ...); empty means the current window.
func CurrentWindowLayout(target string) (string, error) {
	if !HaveTmuxServer() {
		return "", ErrNotInTmux
	}
	args := []string{"display-message", "-p"}
	if target = strings.TrimSpace(target); target != "" {
		args = append(args, "-t", target)
	}
	args = append(args, "#{window_layout}")
	out, err := TmuxOutput(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ApplyWindowLayout submits a full "<checksum4hex>,<body>" layout string to
// tmux. The server either replaces the window's layout wholesale or rejects
// the string (checksum or structural mismatch); there is no partial
// application and no retry here.
func ApplyWindowLayout(target, full string) error {
	if !HaveTmuxServer() {
		return ErrNotInTmux
	}
	full = strings.TrimSpace(full)
	if full == "" {
		return errors.New("apply: empty layout string")
	}
	args := []string{"select-layout"}
	if target = strings.TrimSpace(target); target != "" {
		args = append(args, "-t", target)
	}
	args = append(args, full)
	return TmuxRun(args...)
}

// Window describes one tmux window as reported by list-windows.
type Window struct {
	ID     string // "@3"
	Index  int
	Name   string
	Layout string // full "<checksum>,<body>" form
	Active bool
	Width  int
	Height int
	Panes  int
}

// Target returns the most stable tmux target for the window (its id).
func (w Window) Target() string {
	return w.ID
}

// windowListFormat keeps the list-windows fields tab-separated so names with
// spaces survive. Order must match parseWindowLine.
const windowListFormat = "#{window_id}\t#{window_index}\t#{window_active}\t#{window_width}\t#{window_height}\t#{window_panes}\t#{window_layout}\t#{window_name}"

// ListWindows returns the windows of the current session.
func ListWindows() ([]Window, error) {
	if !HaveTmuxServer() {
		return nil, ErrNotInTmux
	}
	out, err := TmuxOutput("list-windows", "-F", windowListFormat)
	if err != nil {
		return nil, err
	}
	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, perr := parseWindowLine(line)
		if perr != nil {
			return nil, perr
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// parseWindowLine parses one tab-separated list-windows line produced with
// windowListFormat. Split is capped so a window name containing tabs cannot
// shift fields.
func parseWindowLine(line string) (Window, error) {
	fields := strings.SplitN(line, "\t", 8)
	if len(fields) != 8 {
		return Window{}, fmt.Errorf("unexpected list-windows line %q", line)
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return Window{}, fmt.Errorf("bad window index in %q: %w", line, err)
	}
	width, err := strconv.Atoi(fields[3])
	if err != nil {
		return Window{}, fmt.Errorf("bad window width in %q: %w", line, err)
	}
	height, err := strconv.Atoi(fields[4])
	if err != nil {
		return Window{}, fmt.Errorf("bad window height in %q: %w", line, err)
	}
	panes, err := strconv.Atoi(fields[5])
	if err != nil {
		return Window{}, fmt.Errorf("bad pane count in %q: %w", line, err)
	}
	return Window{
		ID:     fields[0],
		Index:  idx,
		Active: fields[2] == "1",
		Width:  width,
		Height: height,
		Panes:  panes,
		Layout: fields[6],
		Name:   fields[7],
	}, nil
}
