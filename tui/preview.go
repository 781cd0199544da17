package tui

import (
	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/spec"
)

// specText is the spec YAML of c, optionally without its subcommands.
func specText(c *models.Command, withSubcommands bool) (string, error) {
	node := spec.CommandFor(c)
	if !withSubcommands {
		node.Commands = nil
	}
	data, err := spec.Encode(node)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
