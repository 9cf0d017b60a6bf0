package balancer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tmux-layout-balancer/pkg/layout"
)

// Named layout snapshots.
//
// A snapshot captures one window's layout string under a user-chosen name so
// the arrangement can be restored later (same session or a fresh one with
// matching pane count). Stored as YAML in a single file:
//
//	~/.config/tmux-layout-balancer/snapshots.yaml
//
// Restoring re-encodes the body with a fresh checksum rather than trusting
// the stored prefix, so hand-edited snapshot files still apply as long as
// the body parses.

const defaultSnapshotsFilename = "snapshots.yaml"

// Snapshot is one saved layout.
type Snapshot struct {
	Name string `yaml:"name"`

	// Layout is the full "<checksum4hex>,<body>" string as captured.
	Layout string `yaml:"layout"`

	// WindowName records where the snapshot came from, for listing only.
	WindowName string `yaml:"window_name,omitempty"`

	// Panes is the pane count at capture time. Restore warns callers when
	// the target window's pane count differs, since tmux rejects layouts
	// whose pane structure does not match.
	Panes int `yaml:"panes,omitempty"`

	// Saved is the capture time in RFC3339.
	Saved string `yaml:"saved,omitempty"`
}

// SnapshotStore is the on-disk YAML structure.
type SnapshotStore struct {
	Snapshots []Snapshot `yaml:"snapshots,omitempty"`

	path string
}

// DefaultSnapshotsPath returns the default snapshots file location.
func DefaultSnapshotsPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultSnapshotsFilename), nil
}

// LoadSnapshots reads the snapshot store from path. If path is empty, the
// default path is used. A missing file yields an empty store.
func LoadSnapshots(path string) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultSnapshotsPath()
		if err != nil {
			return nil, err
		}
	}

	store := &SnapshotStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read snapshots %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse snapshots %s: %w", path, err)
	}
	return store, nil
}

// Save writes the store back to its file, creating the directory as needed.
func (s *SnapshotStore) Save() error {
	if strings.TrimSpace(s.path) == "" {
		var err error
		s.path, err = DefaultSnapshotsPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshots dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshots %s: %w", s.path, err)
	}
	return nil
}

// Get returns the snapshot with the given name, or nil.
func (s *SnapshotStore) Get(name string) *Snapshot {
	for i := range s.Snapshots {
		if s.Snapshots[i].Name == name {
			return &s.Snapshots[i]
		}
	}
	return nil
}

// Put inserts or replaces a snapshot by name, validating that the layout
// string parses before anything touches the disk.
func (s *SnapshotStore) Put(snap Snapshot) error {
	snap.Name = strings.TrimSpace(snap.Name)
	if snap.Name == "" {
		return errors.New("snapshot name is empty")
	}
	body, err := layout.StripChecksum(snap.Layout)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", snap.Name, err)
	}
	root, err := layout.Parse(body)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", snap.Name, err)
	}
	if snap.Panes == 0 {
		snap.Panes = root.CountPanes()
	}
	if snap.Saved == "" {
		snap.Saved = time.Now().Format(time.RFC3339)
	}

	for i := range s.Snapshots {
		if s.Snapshots[i].Name == snap.Name {
			s.Snapshots[i] = snap
			return nil
		}
	}
	s.Snapshots = append(s.Snapshots, snap)
	return nil
}

// Delete removes a snapshot by name. Returns false when no such snapshot
// exists.
func (s *SnapshotStore) Delete(name string) bool {
	for i := range s.Snapshots {
		if s.Snapshots[i].Name == name {
			s.Snapshots = append(s.Snapshots[:i], s.Snapshots[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns all snapshot names, sorted.
func (s *SnapshotStore) Names() []string {
	names := make([]string, 0, len(s.Snapshots))
	for _, snap := range s.Snapshots {
		names = append(names, snap.Name)
	}
	sort.Strings(names)
	return names
}

// SaveWindowSnapshot captures the layout of a window under name and persists
// the store.
func SaveWindowSnapshot(store *SnapshotStore, target, name string) (*Snapshot, error) {
	full, err := CurrentWindowLayout(target)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(full) == "" {
		return nil, &FetchError{Target: target, Reason: "tmux returned an empty layout string"}
	}

	windowName := ""
	if windows, werr := ListWindows(); werr == nil {
		for _, w := range windows {
			if w.Layout == full {
				windowName = w.Name
				break
			}
		}
	}

	snap := Snapshot{Name: name, Layout: full, WindowName: windowName}
	if err := store.Put(snap); err != nil {
		return nil, err
	}
	if err := store.Save(); err != nil {
		return nil, err
	}
	return store.Get(name), nil
}

// RestoreSnapshot applies a stored snapshot to a window. The body is
// re-encoded with a fresh checksum; when rebalance is set, sibling panes are
// equalized on the way through.
func RestoreSnapshot(store *SnapshotStore, target, name string, rebalance bool) error {
	snap := store.Get(name)
	if snap == nil {
		return fmt.Errorf("no snapshot named %q (have: %s)", name, strings.Join(store.Names(), ", "))
	}

	body, err := layout.StripChecksum(snap.Layout)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", name, err)
	}
	root, err := layout.Parse(body)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", name, err)
	}
	if rebalance {
		layout.Equalize(root, root.Width, root.Height, root.X, root.Y)
	}

	full := layout.WithChecksum(layout.Serialize(root))
	if err := ApplyWindowLayout(target, full); err != nil {
		return &ApplyError{Target: target, Err: err}
	}
	return nil
}
