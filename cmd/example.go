package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aallbrig/compspec/discovery"
)

//go:embed example.toml
var exampleManifest []byte

func newSelfCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "self",
		Short: "Print the spec of compspec itself",
		Long: `Self describes compspec's own cobra command tree, including value hints
recorded on its flags, and prints the resulting spec.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.output(cmd, discovery.FromCobra(cmd.Root()))
		},
	}
}

func newExampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print the spec of a bundled example command",
		Long: `Example prints the spec of a small command that exercises aliases,
require-equals flags, short-only flags with values, value hints and an
unbounded trailing positional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := discovery.ParseManifest(exampleManifest, discovery.FormatTOML)
			if err != nil {
				return fmt.Errorf("example manifest: %w", err)
			}
			return a.output(cmd, c)
		},
	}
}
