package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/aallbrig/compspec/config"
	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/spec"
)

// PaneModel is a titled, scrollable block of text lines.
type PaneModel struct {
	title        string
	lines        []string
	cfg          *config.Config
	width        int
	height       int
	scrollOffset int
	focused      bool
}

func NewPaneModel(title string, cfg *config.Config) *PaneModel {
	return &PaneModel{title: title, cfg: cfg}
}

// SetContent replaces the text and scrolls back to the top.
func (p *PaneModel) SetContent(title, text string) {
	p.title = title
	p.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	p.scrollOffset = 0
}

// Content returns the current text.
func (p *PaneModel) Content() string { return strings.Join(p.lines, "\n") }

func (p *PaneModel) SetSize(w, h int) { p.width = w; p.height = h }
func (p *PaneModel) SetFocused(f bool) { p.focused = f }

func (p *PaneModel) ScrollUp(n int) {
	p.scrollOffset = max(p.scrollOffset-n, 0)
}

func (p *PaneModel) ScrollDown(n int) {
	p.scrollOffset = min(p.scrollOffset+n, p.maxOffset())
}

func (p *PaneModel) PageUp()   { p.ScrollUp(p.viewportLines()) }
func (p *PaneModel) PageDown() { p.ScrollDown(p.viewportLines()) }
func (p *PaneModel) Top()      { p.scrollOffset = 0 }
func (p *PaneModel) Bottom()   { p.scrollOffset = p.maxOffset() }

func (p *PaneModel) maxOffset() int {
	return max(len(p.lines)-p.viewportLines(), 0)
}

func (p *PaneModel) viewportLines() int {
	return max(p.height-3, 1)
}

func (p *PaneModel) View() string {
	vp := p.viewportLines()
	end := min(p.scrollOffset+vp, len(p.lines))
	innerW := p.width - 4

	rendered := make([]string, 0, vp)
	for _, line := range p.lines[p.scrollOffset:end] {
		rendered = append(rendered, runewidth.Truncate(line, max(innerW, 1), "…"))
	}
	for len(rendered) < vp {
		rendered = append(rendered, "")
	}

	title := p.title
	if len(p.lines) > vp {
		pct := min((p.scrollOffset+vp)*100/len(p.lines), 100)
		title += fmt.Sprintf(" [%d%%]", pct)
	}
	borderColor := lipgloss.Color("#555555")
	titleStyle := lipgloss.NewStyle().Bold(true)
	if p.focused {
		borderColor = lipgloss.Color(p.cfg.Colors.Subcmd)
		titleStyle = titleStyle.Foreground(lipgloss.Color(p.cfg.Colors.Subcmd))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(p.width - 2).
		Height(p.height - 2).
		Render(titleStyle.Render(title) + "\n" + strings.Join(rendered, "\n"))
}

// detailText describes how each argument of c completes: its spec key and
// the carapace actions its value hint maps to.
func detailText(c *models.Command) string {
	var sb strings.Builder
	sb.WriteString(c.FullCommand() + "\n")
	if c.About != "" {
		sb.WriteString(c.About + "\n")
	}
	if len(c.Aliases) > 0 {
		sb.WriteString("aliases: " + strings.Join(c.Aliases, ", ") + "\n")
	}

	if opts := c.Options(); len(opts) > 0 {
		sb.WriteString("\nFlags:\n")
		for _, a := range opts {
			if a.Hidden {
				continue
			}
			sb.WriteString("  " + spec.Signature(&a) + spec.Modifier(&a))
			if a.Global {
				sb.WriteString("  (persistent)")
			}
			sb.WriteString("\n")
			writeArgDetail(&sb, &a)
		}
	}
	if pos := c.Positionals(); len(pos) > 0 {
		sb.WriteString("\nPositionals:\n")
		for _, a := range pos {
			if a.Hidden {
				continue
			}
			name := fmt.Sprintf("  %d: %s", a.Index, a.ID)
			if a.Unbounded() {
				name += "..."
			}
			sb.WriteString(name + "\n")
			writeArgDetail(&sb, &a)
		}
	}
	if subs := visibleChildren(c); len(subs) > 0 {
		sb.WriteString("\nSubcommands:\n")
		for _, sub := range subs {
			sb.WriteString("  " + sub.Name)
			if sub.About != "" {
				sb.WriteString("  " + sub.About)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func writeArgDetail(sb *strings.Builder, a *models.Arg) {
	if a.Help != "" {
		sb.WriteString("      " + a.Help + "\n")
	}
	if a.ValueHint != models.HintUnknown {
		sb.WriteString("      hint: " + a.ValueHint.String() + "\n")
	}
	if acts := spec.ArgActions(a); len(acts) > 0 {
		sb.WriteString("      completes: " + strings.ReplaceAll(strings.Join(acts, " "), "\t", ":") + "\n")
	}
}
