package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"tmux-layout-balancer/pkg/balancer"
)

var (
	flagConfig  string
	flagWindow  string
	flagAll     bool
	flagLayout  string
	flagWidth   int
	flagHeight  int
	flagDryRun  bool
	flagPick    bool
	flagVerbose bool
)

func init() {
	flag.StringVar(&flagConfig, "config", "", "Path to YAML config (defaults to XDG paths if empty)")
	flag.StringVar(&flagWindow, "window", "", "tmux window target (e.g. @3 or session:2; empty = current window)")
	flag.BoolVar(&flagAll, "all", false, "Balance every window in the current session")
	flag.StringVar(&flagLayout, "layout", "", "Offline mode: balance this literal layout string and print the result")
	flag.IntVar(&flagWidth, "width", 0, "With --layout: override the root width (0 = keep stored, falling back to terminal size)")
	flag.IntVar(&flagHeight, "height", 0, "With --layout: override the root height (0 = keep stored, falling back to terminal size)")
	flag.BoolVar(&flagDryRun, "dry-run", false, "Print the layout that would be applied and exit")
	flag.BoolVar(&flagPick, "pick", false, "Interactively pick a window to balance")
	flag.BoolVar(&flagVerbose, "verbose", false, "Debug logging to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tmux-layout-balancer\n\n")
		fmt.Fprintf(os.Stderr, "Rebalance tmux pane layouts so sibling panes share space evenly.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  tmux-layout-balancer [options]\n")
		fmt.Fprintf(os.Stderr, "  tmux-layout-balancer snap <save|restore|list|delete> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  tmux-layout-balancer
  tmux-layout-balancer --window @3
  tmux-layout-balancer --all
  tmux-layout-balancer --dry-run
  tmux-layout-balancer --layout 'bb62,238x54,0,0{119x54,0,0,1,118x54,120,0,2}'
  tmux-layout-balancer snap save dev
  tmux-layout-balancer snap restore dev --rebalance

Bind it in ~/.tmux.conf, e.g.:
  bind = run-shell "tmux-layout-balancer"
`)
	}
}

func main() {
	flag.Parse()

	logger := newLogger(flagVerbose)

	if flag.NArg() >= 1 && flag.Arg(0) == "snap" {
		if err := runSnapSubcommand(logger, flag.Args()[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "tmux-layout-balancer: %v\n", err)
			os.Exit(exitCodeFromErr(err))
		}
		return
	}

	cfg, cfgPath, err := balancer.LoadConfig(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmux-layout-balancer: %v\n", err)
		os.Exit(1)
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	target := flagWindow
	if target == "" {
		target = cfg.DefaultTarget
	}

	switch {
	case flagLayout != "":
		err = runOffline(logger, flagLayout)
	case flagPick:
		err = balancer.RunPicker(balancer.UIOptions{SnapshotStorePath: cfg.SnapshotPath})
	case flagAll || (cfg.BalanceAll && flagWindow == ""):
		err = runBalanceAll(logger)
	default:
		err = runBalanceOne(logger, target)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmux-layout-balancer: %v\n", err)
		os.Exit(exitCodeFromErr(err))
	}
}

// newLogger follows the charmbracelet/log setup: quiet by default, debug
// level with timestamps under --verbose.
func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runOffline balances a literal layout string without talking to tmux.
// Useful for piping and for inspecting what a balance would do. When no
// explicit dimensions are given the stored root geometry is kept, unless
// stdout is a terminal whose size we can read.
func runOffline(logger *log.Logger, full string) error {
	width, height := flagWidth, flagHeight
	if width == 0 && height == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && rows > 0 {
			width, height = cols, rows
			logger.Debug("using terminal size for root geometry", "width", width, "height", height)
		}
	}

	out, err := balancer.BalanceLayoutSized(strings.TrimSpace(full), width, height)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runBalanceOne(logger *log.Logger, target string) error {
	if flagDryRun {
		full, err := balancer.CurrentWindowLayout(target)
		if err != nil {
			return err
		}
		out, err := balancer.BalanceLayout(full)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	out, err := balancer.BalanceWindow(target)
	if err != nil {
		return err
	}
	logger.Debug("applied layout", "target", target, "layout", out)
	return nil
}

func runBalanceAll(logger *log.Logger) error {
	if flagDryRun {
		windows, err := balancer.ListWindows()
		if err != nil {
			return err
		}
		for _, w := range windows {
			out, err := balancer.BalanceLayout(w.Layout)
			if err != nil {
				return fmt.Errorf("window %d (%s): %w", w.Index, w.Name, err)
			}
			fmt.Printf("%d\t%s\n", w.Index, out)
		}
		return nil
	}

	n, err := balancer.BalanceAllWindows()
	if err != nil {
		return err
	}
	logger.Debug("balanced windows", "count", n)
	return nil
}

// runSnapSubcommand handles `snap save|restore|list|delete`.
func runSnapSubcommand(logger *log.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tmux-layout-balancer snap <save|restore|list|delete> [name]")
	}
	action := args[0]

	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	var window string
	var rebalance bool
	fs.StringVar(&window, "window", "", "tmux window target (empty = current window)")
	fs.BoolVar(&rebalance, "rebalance", false, "With restore: equalize sibling panes while applying")
	fs.SetOutput(os.Stderr)

	// Accept both `snap save name --window @2` and `snap save --window @2 name`.
	rest := args[1:]
	name := ""
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		name = rest[0]
		rest = rest[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if name == "" && fs.NArg() > 0 {
		name = fs.Arg(0)
	}

	cfg, _, err := balancer.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	store, err := balancer.LoadSnapshots(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	switch action {
	case "save":
		if name == "" {
			return errors.New("usage: tmux-layout-balancer snap save <name> [--window <target>]")
		}
		snap, err := balancer.SaveWindowSnapshot(store, window, name)
		if err != nil {
			return err
		}
		logger.Debug("saved snapshot", "name", snap.Name, "panes", snap.Panes)
		fmt.Printf("saved snapshot %q (%d pane(s))\n", snap.Name, snap.Panes)
		return nil

	case "restore":
		if name == "" {
			return errors.New("usage: tmux-layout-balancer snap restore <name> [--window <target>] [--rebalance]")
		}
		if err := balancer.RestoreSnapshot(store, window, name, rebalance); err != nil {
			return err
		}
		fmt.Printf("restored snapshot %q\n", name)
		return nil

	case "list":
		if len(store.Snapshots) == 0 {
			fmt.Println("(no snapshots saved)")
			return nil
		}
		for _, s := range store.Snapshots {
			line := s.Name
			if s.WindowName != "" {
				line += "  (" + s.WindowName + ")"
			}
			if s.Panes > 0 {
				line += fmt.Sprintf("  %d pane(s)", s.Panes)
			}
			if s.Saved != "" {
				line += "  " + s.Saved
			}
			fmt.Println(line)
		}
		return nil

	case "delete":
		if name == "" {
			return errors.New("usage: tmux-layout-balancer snap delete <name>")
		}
		if !store.Delete(name) {
			return fmt.Errorf("no snapshot named %q", name)
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Printf("deleted snapshot %q\n", name)
		return nil

	default:
		return fmt.Errorf("unknown snap action %q (expected save|restore|list|delete)", action)
	}
}

func exitCodeFromErr(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if status, ok := ee.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus()
		}
	}
	return 1
}
