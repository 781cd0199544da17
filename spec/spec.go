// Package spec turns a models.Command tree into a shell-completion
// specification document (the carapace spec YAML schema).
package spec

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Command is one node of the generated specification.
type Command struct {
	Name            string
	Aliases         []string
	Description     string
	Flags           *OrderedMap[string]
	PersistentFlags *OrderedMap[string]
	Completion      Completion
	Commands        []Command
}

// Completion holds the completion actions of a command.
//
// Dash and DashAny exist for schema parity with the completion engine and
// are never filled by CommandFor.
type Completion struct {
	Flag          *OrderedMap[[]string]
	Positional    [][]string
	PositionalAny []string
	Dash          [][]string
	DashAny       []string
}

// IsEmpty reports whether no completion field has entries.
func (c Completion) IsEmpty() bool {
	return c.Flag.Len() == 0 &&
		len(c.Positional) == 0 &&
		len(c.PositionalAny) == 0 &&
		len(c.Dash) == 0 &&
		len(c.DashAny) == 0
}

// field is one key of an encoded mapping with its omission predicate.
type field struct {
	key   string
	value any
	omit  bool
}

func mapping(fields []field) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		if f.omit {
			continue
		}
		var vn yaml.Node
		if err := vn.Encode(f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		n.Content = append(n.Content, stringNode(f.key), &vn)
	}
	return n, nil
}

// MarshalYAML implements yaml.Marshaler. Name and description are always
// written; empty collections and an empty completion block are dropped.
func (c Command) MarshalYAML() (any, error) {
	return mapping([]field{
		{key: "name", value: c.Name},
		{key: "aliases", value: c.Aliases, omit: len(c.Aliases) == 0},
		{key: "description", value: c.Description},
		{key: "flags", value: c.Flags, omit: c.Flags.Len() == 0},
		{key: "persistentflags", value: c.PersistentFlags, omit: c.PersistentFlags.Len() == 0},
		{key: "completion", value: c.Completion, omit: c.Completion.IsEmpty()},
		{key: "commands", value: c.Commands, omit: len(c.Commands) == 0},
	})
}

// MarshalYAML implements yaml.Marshaler.
func (c Completion) MarshalYAML() (any, error) {
	return mapping([]field{
		{key: "flag", value: c.Flag, omit: c.Flag.Len() == 0},
		{key: "positional", value: c.Positional, omit: len(c.Positional) == 0},
		{key: "positionalany", value: c.PositionalAny, omit: len(c.PositionalAny) == 0},
		{key: "dash", value: c.Dash, omit: len(c.Dash) == 0},
		{key: "dashany", value: c.DashAny, omit: len(c.DashAny) == 0},
	})
}

// Find returns the direct subcommand with the given name.
func (c *Command) Find(name string) *Command {
	for i := range c.Commands {
		if c.Commands[i].Name == name {
			return &c.Commands[i]
		}
	}
	return nil
}

// Walk calls fn for each command in the tree (depth-first pre-order).
func (c *Command) Walk(fn func(*Command)) {
	fn(c)
	for i := range c.Commands {
		c.Commands[i].Walk(fn)
	}
}
