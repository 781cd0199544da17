// Package tui implements the interactive Bubble Tea browser for generated
// completion specs.
package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/compspec/config"
	"github.com/aallbrig/compspec/models"
)

// pane identifies which pane currently has focus.
type pane int

const (
	paneTree pane = iota
	paneDetail
	paneSpec
	paneCount
)

// Model is the root Bubble Tea model.
type Model struct {
	root        *models.Command
	cfg         *config.Config
	tree        *TreeModel
	detail      *PaneModel
	spec        *PaneModel
	filter      textinput.Model
	filtering   bool
	focusedPane pane
	selected    *models.Command
	width       int
	height      int
	statusMsg   string
	quitting    bool
	copyFn      func(string) error
}

// NewModel creates a new root TUI model.
func NewModel(root *models.Command, cfg *config.Config) *Model {
	filter := textinput.New()
	filter.Placeholder = "filter…"
	filter.CharLimit = 64

	m := &Model{
		root:   root,
		cfg:    cfg,
		tree:   NewTreeModel(root, cfg),
		detail: NewPaneModel("Completion", cfg),
		spec:   NewPaneModel("Spec", cfg),
		filter: filter,
		copyFn: clipboard.WriteAll,
	}
	m.tree.SetFocused(true)
	m.syncSelected()
	return m
}

// SetClipboard replaces the clipboard writer.
func (m *Model) SetClipboard(fn func(string) error) { m.copyFn = fn }

// Selected returns the command under the tree cursor.
func (m *Model) Selected() *models.Command { return m.tree.Selected() }

// Status returns the status line message.
func (m *Model) Status() string { return m.statusMsg }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "/":
		m.filtering = true
		m.filter.Focus()
		m.applyLayout()
		return m, textinput.Blink
	case "y":
		m.copySelected()
		return m, nil
	}

	if m.focusedPane != paneTree {
		m.updatePaneKeys(msg.String())
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.tree.Up()
	case "down", "j":
		m.tree.Down()
	case "left", "h":
		m.tree.Collapse()
	case "right", "l":
		m.tree.Expand()
	case " ", "enter":
		m.tree.ToggleExpand()
	}
	m.syncSelected()
	return m, nil
}

func (m *Model) updatePaneKeys(key string) {
	p := m.detail
	if m.focusedPane == paneSpec {
		p = m.spec
	}
	switch key {
	case "up", "k":
		p.ScrollUp(1)
	case "down", "j":
		p.ScrollDown(1)
	case "pgup", "ctrl+u", "b":
		p.PageUp()
	case "pgdown", "ctrl+d", " ":
		p.PageDown()
	case "g":
		p.Top()
	case "G":
		p.Bottom()
	}
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		m.tree.SetFilter("")
		fallthrough
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.applyLayout()
		m.syncSelected()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.tree.SetFilter(m.filter.Value())
	m.syncSelected()
	return m, cmd
}

// copySelected puts the spec of the selected command, subcommands included,
// on the clipboard.
func (m *Model) copySelected() {
	c := m.tree.Selected()
	if c == nil {
		m.statusMsg = "nothing selected"
		return
	}
	text, err := specText(c, true)
	if err == nil {
		err = m.copyFn(text)
	}
	if err != nil {
		m.statusMsg = "copy failed: " + err.Error()
		return
	}
	m.statusMsg = "copied spec of " + c.FullCommand()
}

// syncSelected refreshes the side panes when the selection changes.
func (m *Model) syncSelected() {
	c := m.tree.Selected()
	if c == nil || c == m.selected {
		return
	}
	m.selected = c
	m.detail.SetContent("Completion: "+c.Name, detailText(c))
	text, err := specText(c, false)
	if err != nil {
		text = err.Error()
	}
	m.spec.SetContent("Spec: "+c.Name, text)
}

func (m *Model) cycleFocus(dir int) {
	m.setFocus(pane((int(m.focusedPane) + dir + int(paneCount)) % int(paneCount)))
}

func (m *Model) setFocus(p pane) {
	m.focusedPane = p
	m.tree.SetFocused(p == paneTree)
	m.detail.SetFocused(p == paneDetail)
	m.spec.SetFocused(p == paneSpec)
}

// bodyHeight is the height left for panes after the filter and status lines.
func (m *Model) bodyHeight() int {
	h := m.height - 1
	if m.filtering {
		h--
	}
	return max(h, 4)
}

func (m *Model) applyLayout() {
	treeW := max(m.width*2/5, 20)
	rightW := max(m.width-treeW, 20)
	h := m.bodyHeight()
	m.tree.SetSize(treeW, h)
	m.detail.SetSize(rightW, h/2)
	m.spec.SetSize(rightW, h-h/2)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading…"
	}
	right := lipgloss.JoinVertical(lipgloss.Left, m.detail.View(), m.spec.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.tree.View(), right)

	var sb strings.Builder
	if m.filtering {
		sb.WriteString(m.filter.View() + "\n")
	}
	sb.WriteString(body + "\n")
	status := "↑↓ move · ←→ fold · / filter · tab focus · y copy spec · q quit"
	if m.statusMsg != "" {
		status = m.statusMsg
	}
	sb.WriteString(lipgloss.NewStyle().Faint(true).Render(status))
	return sb.String()
}

// Run starts the browser and blocks until the user quits.
func Run(root *models.Command, cfg *config.Config) error {
	_, err := tea.NewProgram(NewModel(root, cfg), tea.WithAltScreen()).Run()
	return err
}
