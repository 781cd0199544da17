// Package models defines the read-only command description that the spec
// generator consumes. Sources (cobra trees, manifests, --help discovery)
// produce it; nothing downstream mutates it.
package models

import "strings"

// Unlimited is the MaxValues marker for an argument that accepts any number
// of values.
const Unlimited = -1

// PossibleValue is one literal an argument accepts.
type PossibleValue struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Help   string `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
}

// Arg is a flag or positional argument of a command.
type Arg struct {
	ID            string          `json:"id" yaml:"id" toml:"id"`
	Long          string          `json:"long,omitempty" yaml:"long,omitempty" toml:"long,omitempty"`
	Short         string          `json:"short,omitempty" yaml:"short,omitempty" toml:"short,omitempty"`
	Help          string          `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
	Positional    bool            `json:"positional,omitempty" yaml:"positional,omitempty" toml:"positional,omitempty"`
	Hidden        bool            `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Global        bool            `json:"global,omitempty" yaml:"global,omitempty" toml:"global,omitempty"`
	RequireEquals bool            `json:"require_equals,omitempty" yaml:"require_equals,omitempty" toml:"require_equals,omitempty"`
	Action        ArgAction       `json:"action" yaml:"action" toml:"action"`
	ValueHint     ValueHint       `json:"value_hint" yaml:"value_hint" toml:"value_hint"`
	Values        []PossibleValue `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Index         int             `json:"index,omitempty" yaml:"index,omitempty" toml:"index,omitempty"`
	MaxValues     int             `json:"max_values,omitempty" yaml:"max_values,omitempty" toml:"max_values,omitempty"` // 0 = one value, Unlimited = any number
}

// TakesValue reports whether the argument consumes a value.
func (a *Arg) TakesValue() bool { return a.Action.TakesValues() }

// Unbounded reports whether the argument accepts an unlimited number of values.
func (a *Arg) Unbounded() bool { return a.MaxValues < 0 }

// SortKey is the long name, or the short name when there is no long form.
func (a *Arg) SortKey() string {
	if a.Long != "" {
		return a.Long
	}
	return a.Short
}

// Command is a node in a CLI hierarchy.
type Command struct {
	Name        string     `json:"name" yaml:"name" toml:"name"`
	FullPath    []string   `json:"full_path,omitempty" yaml:"-" toml:"-"`
	Aliases     []string   `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	About       string     `json:"about,omitempty" yaml:"about,omitempty" toml:"about,omitempty"`
	Hidden      bool       `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Args        []Arg      `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	Subcommands []*Command `json:"subcommands,omitempty" yaml:"subcommands,omitempty" toml:"subcommands,omitempty"`
}

// FullCommand returns the full command string (e.g., "git remote add").
func (c *Command) FullCommand() string {
	if len(c.FullPath) == 0 {
		return c.Name
	}
	return strings.Join(c.FullPath, " ")
}

// IsLeaf returns true if this command has no subcommands.
func (c *Command) IsLeaf() bool {
	return len(c.Subcommands) == 0
}

// Positionals returns the positional arguments in declaration order of the
// Args slice (not sorted by Index).
func (c *Command) Positionals() []Arg {
	var out []Arg
	for _, a := range c.Args {
		if a.Positional {
			out = append(out, a)
		}
	}
	return out
}

// Options returns the non-positional arguments.
func (c *Command) Options() []Arg {
	var out []Arg
	for _, a := range c.Args {
		if !a.Positional {
			out = append(out, a)
		}
	}
	return out
}

// Arg looks up an argument by ID.
func (c *Command) Arg(id string) *Arg {
	for i := range c.Args {
		if c.Args[i].ID == id {
			return &c.Args[i]
		}
	}
	return nil
}

// Find searches for a direct subcommand by name or alias.
func (c *Command) Find(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
		for _, a := range sub.Aliases {
			if a == name {
				return sub
			}
		}
	}
	return nil
}

// Walk calls fn for each command in the tree (depth-first pre-order).
func (c *Command) Walk(fn func(*Command)) {
	fn(c)
	for _, sub := range c.Subcommands {
		sub.Walk(fn)
	}
}

// Clone returns a deep copy of the command tree.
func (c *Command) Clone() *Command {
	out := &Command{
		Name:   c.Name,
		About:  c.About,
		Hidden: c.Hidden,
	}
	out.FullPath = append([]string(nil), c.FullPath...)
	out.Aliases = append([]string(nil), c.Aliases...)
	if c.Args != nil {
		out.Args = make([]Arg, len(c.Args))
		for i, a := range c.Args {
			a.Values = append([]PossibleValue(nil), a.Values...)
			out.Args[i] = a
		}
	}
	for _, sub := range c.Subcommands {
		out.Subcommands = append(out.Subcommands, sub.Clone())
	}
	return out
}
