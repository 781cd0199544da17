package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aallbrig/compspec/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compspec discovery cache",
	}
	c.AddCommand(newCacheListCmd(a), newCacheClearCmd(a))
	return c
}

func newCacheClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [cli]",
		Short: "Clear cached discovery results",
		Long: `Clear removes discovered command descriptions from the local cache.

Without arguments, clears the entire cache.
With a CLI name, clears only entries for that CLI.

Examples:
  compspec cache clear          # clear all cached entries
  compspec cache clear git      # clear only git's cached entries`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.Open(a.cfg.CacheDir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer c.Close()

			if len(args) == 0 {
				if err := c.Clear(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return nil
			}
			if err := c.ClearCLI(args[0]); err != nil {
				return fmt.Errorf("clear cache for %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared for %q.\n", args[0])
			return nil
		},
	}
}

func newCacheListCmd(a *app) *cobra.Command {
	var long bool
	c := &cobra.Command{
		Use:   "list",
		Short: "List CLIs with cached discovery results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(a.cfg.CacheDir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer c.Close()

			if !long {
				names, err := c.ListCLIs()
				if err != nil {
					return fmt.Errorf("list cache: %w", err)
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "(cache is empty)")
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			entries, err := c.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(cache is empty)")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CLI\tVERSION\tSTRATEGY\tCACHED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CLI, e.Version, e.Strategy, e.CachedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	c.Flags().BoolVarP(&long, "long", "l", false, "Show version, strategy and age of each entry")
	return c
}
