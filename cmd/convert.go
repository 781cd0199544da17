package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aallbrig/compspec/discovery"
	"github.com/aallbrig/compspec/models"
)

func newConvertCmd(a *app) *cobra.Command {
	var watch bool
	c := &cobra.Command{
		Use:   "convert <manifest>",
		Short: "Convert a TOML or YAML manifest into a spec",
		Long: `Convert reads a command description from a manifest file (.toml, .yaml,
.yml or .json) and prints its spec.

With --watch the spec is regenerated every time the manifest changes, until
interrupted. Combine with --out-dir to keep a spec file up to date.

Examples:
  compspec convert mytool.toml
  compspec convert --watch --out-dir=specs mytool.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				m, err := discovery.LoadManifest(args[0])
				if err != nil {
					return err
				}
				return a.output(cmd, m)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return discovery.WatchManifest(ctx, args[0], func(m *models.Command, err error) {
				if err != nil {
					log.Error().Err(err).Str("manifest", args[0]).Msg("manifest not converted")
					return
				}
				if err := a.output(cmd, m); err != nil {
					log.Error().Err(err).Str("manifest", args[0]).Msg("write spec")
					return
				}
				if a.cfg.OutDir == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
			})
		},
	}
	c.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate the spec when the manifest changes")
	discovery.MarkPositionalHint(c, "manifest", models.HintFilePath)
	return c
}
