// Package render writes command descriptions as carapace specs, as a
// Unicode tree, or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aallbrig/compspec/config"
	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/spec"
)

// Options controls rendering behavior.
type Options struct {
	MaxDepth     int
	Filter       string
	Exclude      string
	CommandsOnly bool
	NoColor      bool
	Highlight    bool   // syntax highlight YAML output
	Output       string // yaml, text, json
	Colors       config.ColorScheme
}

// DefaultOptions returns rendering options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxDepth: -1,
		Output:   config.OutputYAML,
		Colors:   config.DefaultColors(),
	}
}

// Renderer renders a command description.
type Renderer struct {
	opts   Options
	styles styles
}

type styles struct {
	base   lipgloss.Style
	subcmd lipgloss.Style
	flag   lipgloss.Style
	pos    lipgloss.Style
	value  lipgloss.Style
	hint   lipgloss.Style
	dim    lipgloss.Style
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	r := &Renderer{opts: opts}
	if opts.NoColor {
		plain := lipgloss.NewStyle()
		r.styles = styles{plain, plain, plain, plain, plain, plain, plain}
		return r
	}
	c := opts.Colors
	r.styles = styles{
		base:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Base)),
		subcmd: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Subcmd)),
		flag:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Flag)),
		pos:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Pos)),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Value)),
		hint:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hint)),
		dim:    lipgloss.NewStyle().Faint(true),
	}
	return r
}

// Render writes root to w in the configured format.
func (r *Renderer) Render(w io.Writer, root *models.Command) error {
	switch r.opts.Output {
	case config.OutputYAML, "":
		return WriteSpec(w, root, r.opts.Highlight)
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	case config.OutputText:
		r.renderNode(w, root, "", true, 0)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", r.opts.Output)
	}
}

const (
	iconBranch  = "▼ "
	iconLeaf    = "• "
	connLast    = "└── "
	connMid     = "├── "
	connLastPad = "    "
	connMidPad  = "│   "
	maxInline   = 5
)

func (r *Renderer) renderNode(w io.Writer, c *models.Command, prefix string, isLast bool, depth int) {
	if r.opts.MaxDepth >= 0 && depth > r.opts.MaxDepth {
		return
	}
	if depth > 0 && r.opts.Exclude != "" && strings.Contains(c.Name, r.opts.Exclude) {
		return
	}
	if depth > 0 && r.opts.Filter != "" && !strings.Contains(c.Name, r.opts.Filter) &&
		!hasMatchingDescendant(c, r.opts.Filter) {
		return
	}

	conn := connMid
	if isLast {
		conn = connLast
	}
	children := visibleSubcommands(c)
	icon := iconLeaf
	if len(children) > 0 {
		icon = iconBranch
	}

	name := r.styles.subcmd.Render(c.Name)
	if depth == 0 {
		name = r.styles.base.Render(c.Name)
	}
	if len(c.Aliases) > 0 {
		name += r.styles.dim.Render(" (" + strings.Join(c.Aliases, ", ") + ")")
	}

	var meta []string
	if !r.opts.CommandsOnly {
		meta = r.positionalMeta(c)
		if fm := r.flagMeta(c); fm != "" {
			meta = append(meta, fm)
		}
	}

	line := prefix
	if depth > 0 {
		line += conn
	}
	line += icon + name
	if len(meta) > 0 {
		line += " " + strings.Join(meta, " ")
	}
	if c.About != "" {
		line += "  " + r.styles.dim.Render(c.About)
	}
	fmt.Fprintln(w, line)

	childPrefix := prefix
	if depth > 0 {
		if isLast {
			childPrefix += connLastPad
		} else {
			childPrefix += connMidPad
		}
	}
	for i, child := range children {
		r.renderNode(w, child, childPrefix, i == len(children)-1, depth+1)
	}
}

// positionalMeta renders <name:hint> for bounded and [name...:hint] for
// unbounded positionals.
func (r *Renderer) positionalMeta(c *models.Command) []string {
	var out []string
	for _, p := range c.Positionals() {
		if p.Hidden {
			continue
		}
		s := p.ID
		open, end := "<", ">"
		if p.Unbounded() {
			s += "..."
			open, end = "[", "]"
		}
		if p.ValueHint != models.HintUnknown {
			s += ":" + r.styles.hint.Render(p.ValueHint.String())
		}
		out = append(out, r.styles.pos.Render(open)+s+r.styles.pos.Render(end))
	}
	return out
}

// flagMeta lists flag keys as they appear in the spec, or a count when
// there are many.
func (r *Renderer) flagMeta(c *models.Command) string {
	var keys []string
	for _, persistent := range []bool{true, false} {
		spec.FlagsFor(c, persistent).Each(func(k, _ string) {
			keys = append(keys, k)
		})
	}
	switch {
	case len(keys) == 0:
		return ""
	case len(keys) > maxInline:
		return r.styles.dim.Render(fmt.Sprintf("[%d flags]", len(keys)))
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		sig := strings.TrimRight(k, "=?*")
		parts[i] = r.styles.flag.Render(sig) + r.styles.value.Render(k[len(sig):])
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func visibleSubcommands(c *models.Command) []*models.Command {
	var out []*models.Command
	for _, sub := range c.Subcommands {
		if sub != nil && !sub.Hidden {
			out = append(out, sub)
		}
	}
	return out
}

func hasMatchingDescendant(c *models.Command, filter string) bool {
	for _, child := range visibleSubcommands(c) {
		if strings.Contains(child.Name, filter) || hasMatchingDescendant(child, filter) {
			return true
		}
	}
	return false
}

// RenderToString renders the description to a string.
func RenderToString(root *models.Command, opts Options) (string, error) {
	var sb strings.Builder
	if err := New(opts).Render(&sb, root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Stats summarizes a description.
type Stats struct {
	Commands    int
	Flags       int
	Positionals int
	MaxDepth    int
}

// Collect gathers stats over visible commands and arguments.
func Collect(root *models.Command) Stats {
	var s Stats
	collectStats(root, 0, &s)
	return s
}

func collectStats(c *models.Command, depth int, s *Stats) {
	s.Commands++
	for _, a := range c.Args {
		switch {
		case a.Hidden:
		case a.Positional:
			s.Positionals++
		default:
			s.Flags++
		}
	}
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	for _, child := range visibleSubcommands(c) {
		collectStats(child, depth+1, s)
	}
}
