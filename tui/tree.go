package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/aallbrig/compspec/config"
	"github.com/aallbrig/compspec/models"
)

// treeItem is a flattened command for rendering.
type treeItem struct {
	cmd   *models.Command
	depth int
}

// TreeModel manages the scrollable, filterable command tree pane. Hidden
// commands are not shown since they never reach the spec.
type TreeModel struct {
	root     *models.Command
	items    []treeItem
	cursor   int
	offset   int
	filter   string
	expanded map[string]bool
	focused  bool
	cfg      *config.Config
	width    int
	height   int
}

func NewTreeModel(root *models.Command, cfg *config.Config) *TreeModel {
	t := &TreeModel{
		root:     root,
		expanded: make(map[string]bool),
		cfg:      cfg,
	}
	t.expanded[nodeKey(root)] = true
	t.rebuild()
	return t
}

func (t *TreeModel) SetSize(w, h int) { t.width = w; t.height = h }
func (t *TreeModel) SetFocused(f bool) { t.focused = f }

// SetFilter shows only commands whose name contains f, with every command
// expanded so matches deep in the tree are reachable.
func (t *TreeModel) SetFilter(f string) {
	t.filter = strings.ToLower(f)
	t.cursor = 0
	t.offset = 0
	t.rebuild()
}

func (t *TreeModel) Selected() *models.Command {
	if t.cursor < len(t.items) {
		return t.items[t.cursor].cmd
	}
	return nil
}

func (t *TreeModel) Up() {
	if t.cursor > 0 {
		t.cursor--
		t.scrollIntoView()
	}
}

func (t *TreeModel) Down() {
	if t.cursor < len(t.items)-1 {
		t.cursor++
		t.scrollIntoView()
	}
}

// Expand opens the selected command, or moves to its first child when it is
// already open.
func (t *TreeModel) Expand() {
	c := t.Selected()
	if c == nil || len(visibleChildren(c)) == 0 {
		return
	}
	key := nodeKey(c)
	if t.expanded[key] {
		t.Down()
		return
	}
	t.expanded[key] = true
	t.rebuild()
}

// Collapse closes the selected command, or moves to its parent when it is
// already closed.
func (t *TreeModel) Collapse() {
	if t.cursor >= len(t.items) {
		return
	}
	item := t.items[t.cursor]
	key := nodeKey(item.cmd)
	if t.expanded[key] && len(visibleChildren(item.cmd)) > 0 {
		delete(t.expanded, key)
		t.rebuild()
		return
	}
	for i := t.cursor - 1; i >= 0; i-- {
		if t.items[i].depth < item.depth {
			t.cursor = i
			t.scrollIntoView()
			return
		}
	}
}

// ToggleExpand expands the selected command if collapsed, or collapses it if expanded.
func (t *TreeModel) ToggleExpand() {
	c := t.Selected()
	if c == nil {
		return
	}
	key := nodeKey(c)
	if t.expanded[key] {
		delete(t.expanded, key)
	} else {
		t.expanded[key] = true
	}
	t.rebuild()
}

func (t *TreeModel) View() string { return t.ViewSized(t.width, t.height) }

func (t *TreeModel) ViewSized(w, h int) string {
	t.width = w
	t.height = h
	if t.cursor >= len(t.items) && len(t.items) > 0 {
		t.cursor = len(t.items) - 1
	}

	borderColor := lipgloss.Color("#555555")
	if t.focused {
		borderColor = lipgloss.Color(t.cfg.Colors.Subcmd)
	}
	innerW := max(w-4, 1)
	innerH := max(h-2, 1)

	var lines []string
	end := min(t.offset+innerH, len(t.items))
	for i := t.offset; i < end; i++ {
		lines = append(lines, t.renderItem(t.items[i], i == t.cursor, innerW))
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(w - 2).
		Height(h - 2).
		Render(strings.Join(lines, "\n"))
}

func (t *TreeModel) renderItem(item treeItem, selected bool, maxW int) string {
	icon := "  "
	if len(visibleChildren(item.cmd)) > 0 {
		icon = "▶ "
		if t.expanded[nodeKey(item.cmd)] || t.filter != "" {
			icon = "▼ "
		}
	}
	label := item.cmd.Name
	if len(item.cmd.Aliases) > 0 {
		label += " (" + strings.Join(item.cmd.Aliases, ", ") + ")"
	}
	plain := runewidth.Truncate(strings.Repeat("  ", item.depth)+icon+label, maxW, "…")

	if selected {
		pad := max(maxW-runewidth.StringWidth(plain), 0)
		return lipgloss.NewStyle().
			Background(lipgloss.Color(t.cfg.Colors.Selected)).
			Bold(true).
			Render(plain + strings.Repeat(" ", pad))
	}
	color := t.cfg.Colors.Subcmd
	if item.depth == 0 {
		color = t.cfg.Colors.Base
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(plain)
}

func (t *TreeModel) rebuild() {
	t.items = nil
	t.flatten(t.root, 0)
}

func (t *TreeModel) flatten(c *models.Command, depth int) {
	if t.filter == "" || depth == 0 || strings.Contains(strings.ToLower(c.Name), t.filter) || hasMatch(c, t.filter) {
		t.items = append(t.items, treeItem{cmd: c, depth: depth})
	} else {
		return
	}
	if t.filter != "" || t.expanded[nodeKey(c)] {
		for _, child := range visibleChildren(c) {
			t.flatten(child, depth+1)
		}
	}
}

func (t *TreeModel) scrollIntoView() {
	innerH := max(t.height-2, 1)
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+innerH {
		t.offset = t.cursor - innerH + 1
	}
}

func nodeKey(c *models.Command) string {
	if len(c.FullPath) == 0 {
		return c.Name
	}
	return strings.Join(c.FullPath, "/")
}

func visibleChildren(c *models.Command) []*models.Command {
	var out []*models.Command
	for _, sub := range c.Subcommands {
		if sub != nil && !sub.Hidden {
			out = append(out, sub)
		}
	}
	return out
}

func hasMatch(c *models.Command, filter string) bool {
	for _, child := range visibleChildren(c) {
		if strings.Contains(strings.ToLower(child.Name), filter) || hasMatch(child, filter) {
			return true
		}
	}
	return false
}
