// Package cmd implements the compspec CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aallbrig/compspec/cache"
	"github.com/aallbrig/compspec/config"
	"github.com/aallbrig/compspec/discovery"
	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/render"
	"github.com/aallbrig/compspec/tui"
)

// app holds state shared by every command of one invocation.
type app struct {
	v            *viper.Viper
	cfg          *config.Config
	fs           afero.Fs
	configFile   string
	interactive  bool
	debug        bool
	filter       string
	exclude      string
	commandsOnly bool
}

// defaultDepth bounds help discovery when no depth is configured.
const defaultDepth = 3

// NewRootCmd builds a fresh command tree with flags reset to defaults.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), fs: afero.NewOsFs()}
	root := &cobra.Command{
		Use:   "compspec <cli>",
		Short: "Generate carapace completion specs for CLI commands",
		Long: `compspec describes a command line interface and writes it as a carapace
completion spec (YAML).

Examples:
  compspec git                     # spec for git, discovered from --help
  compspec --out-dir=specs kubectl # write specs/kubectl.yaml
  compspec -i docker               # browse the spec interactively
  compspec convert mytool.toml     # spec from a manifest
  compspec self                    # spec for compspec itself`,
		Args:              cobra.ExactArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runRoot,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default $HOME/.compspec/config.yaml)")
	pf.StringP("output", "o", config.OutputYAML, "Output format: yaml, text, json")
	pf.String("out-dir", "", "Write <cli>.yaml into this directory instead of stdout")
	pf.Bool("no-color", false, "Disable color output")
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&a.interactive, "interactive", "i", false, "Browse the spec in a TUI")
	pf.StringVar(&a.filter, "filter", "", "Text output: only show commands matching pattern")
	pf.StringVar(&a.exclude, "exclude", "", "Text output: hide commands matching pattern")
	pf.BoolVar(&a.commandsOnly, "commands-only", false, "Text output: hide flags and positionals")

	f := root.Flags()
	f.StringP("strategy", "s", "help", "Discovery strategies (comma-separated: help,manifest:<file>)")
	f.Int("depth", -1, fmt.Sprintf("Max help discovery depth (-1 = %d)", defaultDepth))
	f.Duration("timeout", config.DefaultConfig().Timeout, "Timeout for the whole discovery run")
	f.Duration("call-timeout", config.DefaultConfig().CallTimeout, "Timeout for each <cli> --help invocation")
	f.Bool("no-cache", false, "Disable caching")

	for key, flag := range map[string]string{
		"output":       "output",
		"out_dir":      "out-dir",
		"no_color":     "no-color",
		"strategies":   "strategy",
		"depth":        "depth",
		"timeout":      "timeout",
		"call_timeout": "call-timeout",
		"no_cache":     "no-cache",
	} {
		fl := pf.Lookup(flag)
		if fl == nil {
			fl = f.Lookup(flag)
		}
		must(a.v.BindPFlag(key, fl))
	}

	must(root.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must(root.MarkPersistentFlagDirname("out-dir"))
	must(discovery.MarkFlagValues(pf, "output",
		config.OutputYAML+"\tcarapace spec", config.OutputText+"\ttree", config.OutputJSON+"\tcommand description"))
	discovery.MarkPositionalHint(root, "cli", models.HintCommandName)

	root.AddCommand(
		newSelfCmd(a),
		newExampleCmd(a),
		newConvertCmd(a),
		newCacheCmd(a),
		newVersionCmd(),
	)
	return root
}

// must panics on flag wiring errors; they only come from misnamed flags.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// setup configures logging and resolves configuration for every command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.WarnLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	log.Debug().Str("cache_dir", cfg.CacheDir).Strs("strategies", cfg.Strategies).Msg("config loaded")
	return nil
}

func (a *app) runRoot(cmd *cobra.Command, args []string) error {
	cliName := args[0]
	cfg := a.cfg
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	var (
		cacheInst *cache.Cache
		cacheKey  string
		version   string
	)
	if !cfg.NoCache {
		var err error
		cacheInst, err = cache.Open(cfg.CacheDir)
		if err != nil {
			log.Warn().Err(err).Msg("could not open cache, running without")
		} else {
			defer cacheInst.Close()
			version = cache.CLIVersion(ctx, cliName)
			cacheKey = cache.Key(cliName, version, cfg.Strategies)
			if c, err := cacheInst.Get(cacheKey, cfg.CacheTTL); err != nil {
				log.Warn().Err(err).Msg("cache read failed")
			} else if c != nil {
				log.Debug().Str("cli", cliName).Msg("cache hit")
				return a.output(cmd, c)
			}
		}
	}

	depth := cfg.Depth
	if depth < 0 {
		depth = defaultDepth
	}
	c, err := discovery.Run(ctx, discovery.BuildDiscoverers(cfg.Strategies, depth, cfg.CallTimeout), cliName)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if c == nil {
		return fmt.Errorf("no results from discovery for %q", cliName)
	}

	if cacheInst != nil {
		if err := cacheInst.Put(cacheKey, cliName, version, strings.Join(cfg.Strategies, ","), c); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return a.output(cmd, c)
}

// output renders c as configured: the browser, a file in the output
// directory, or stdout.
func (a *app) output(cmd *cobra.Command, c *models.Command) error {
	if a.interactive {
		return tui.Run(c, a.cfg)
	}
	if a.cfg.OutDir != "" {
		path, err := render.WriteFile(a.fs, a.cfg.OutDir, c)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	out := cmd.OutOrStdout()
	r := render.New(render.Options{
		MaxDepth:     -1,
		Filter:       a.filter,
		Exclude:      a.exclude,
		CommandsOnly: a.commandsOnly,
		NoColor:      a.cfg.NoColor,
		Highlight:    !a.cfg.NoColor && render.IsTerminal(out),
		Output:       a.cfg.Output,
		Colors:       a.cfg.Colors,
	})
	return r.Render(out, c)
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
