package balancer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Interactive window picker.
//
// Lists the current session's windows with their pane counts and layout
// strings; Enter rebalances the selected window, `s` snapshots it (prompting
// for a name), `q`/Esc quits. Runs inline rather than in the alt screen so
// the result of each action stays visible in scrollback.

// UIOptions controls the picker behavior.
type UIOptions struct {
	// SnapshotStorePath overrides where snapshots are written. Empty uses
	// the default path.
	SnapshotStorePath string
}

// RunPicker starts the interactive window picker. It returns once the user
// quits; balancing/snapshot errors are shown in the UI, not returned.
func RunPicker(opts UIOptions) error {
	windows, err := ListWindows()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return fmt.Errorf("no tmux windows found")
	}

	m := newPickerModel(windows, opts)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true)
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	pickerDimStyle      = lipgloss.NewStyle().Faint(true)
	pickerErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pickerOKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type pickerModel struct {
	windows  []Window
	opts     UIOptions
	selected int

	// Snapshot-name prompt state.
	naming    bool
	nameInput textinput.Model

	status  string
	statusE bool // status is an error
}

func newPickerModel(windows []Window, opts UIOptions) *pickerModel {
	ti := textinput.New()
	ti.Placeholder = "snapshot name"
	ti.CharLimit = 64
	return &pickerModel{windows: windows, opts: opts, nameInput: ti}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.naming {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.naming {
		switch keyMsg.Type {
		case tea.KeyEnter:
			name := strings.TrimSpace(m.nameInput.Value())
			m.naming = false
			m.nameInput.Blur()
			if name == "" {
				m.setStatus("snapshot cancelled (empty name)", false)
				return m, nil
			}
			m.saveSnapshot(name)
			return m, nil
		case tea.KeyEsc, tea.KeyCtrlC:
			m.naming = false
			m.nameInput.Blur()
			m.setStatus("snapshot cancelled", false)
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.windows)-1 {
			m.selected++
		}
	case "enter", "b":
		m.balanceSelected()
	case "s":
		m.naming = true
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()
	case "r":
		m.reload()
	}
	return m, nil
}

func (m *pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("tmux windows"))
	b.WriteString("\n\n")

	for i, w := range m.windows {
		marker := "  "
		line := fmt.Sprintf("%d: %s  %dx%d  %d pane(s)", w.Index, w.Name, w.Width, w.Height, w.Panes)
		if w.Active {
			line += " (active)"
		}
		if i == m.selected {
			marker = "> "
			b.WriteString(pickerSelectedStyle.Render(marker + line))
		} else {
			b.WriteString(marker + line)
		}
		b.WriteString("\n")
		if i == m.selected {
			b.WriteString(pickerDimStyle.Render("    " + w.Layout))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.naming {
		b.WriteString("save snapshot as: " + m.nameInput.View())
		b.WriteString("\n")
	} else {
		b.WriteString(pickerDimStyle.Render("enter: balance  s: snapshot  r: reload  q: quit"))
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusE {
			b.WriteString(pickerErrorStyle.Render(m.status))
		} else {
			b.WriteString(pickerOKStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *pickerModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusE = isErr
}

func (m *pickerModel) balanceSelected() {
	w := m.windows[m.selected]
	if _, err := BalanceWindow(w.Target()); err != nil {
		m.setStatus(fmt.Sprintf("balance %s: %v", w.Name, err), true)
		return
	}
	m.setStatus(fmt.Sprintf("balanced window %d (%s)", w.Index, w.Name), false)
	m.reload()
}

func (m *pickerModel) saveSnapshot(name string) {
	w := m.windows[m.selected]
	store, err := LoadSnapshots(m.opts.SnapshotStorePath)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if _, err := SaveWindowSnapshot(store, w.Target(), name); err != nil {
		m.setStatus(fmt.Sprintf("snapshot %s: %v", w.Name, err), true)
		return
	}
	m.setStatus(fmt.Sprintf("saved snapshot %q from window %d", name, w.Index), false)
}

// reload refreshes the window list, keeping the selection in bounds.
func (m *pickerModel) reload() {
	windows, err := ListWindows()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.windows = windows
	if m.selected >= len(m.windows) {
		m.selected = len(m.windows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}
