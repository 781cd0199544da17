// Package discovery produces command descriptions from cobra command trees,
// manifest files and the --help output of installed CLIs.
package discovery

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aallbrig/compspec/models"
)

// Discoverer is the interface for CLI hierarchy discovery strategies.
type Discoverer interface {
	Name() string
	Discover(ctx context.Context, cliName string, args []string) (*models.Command, error)
}

// HelpDiscoverer uses --help output to discover subcommands and flags.
type HelpDiscoverer struct {
	MaxDepth int
	Timeout  time.Duration
	Workers  int
}

// NewHelpDiscoverer creates a HelpDiscoverer with sensible defaults.
func NewHelpDiscoverer(maxDepth int) *HelpDiscoverer {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &HelpDiscoverer{MaxDepth: maxDepth, Timeout: 5 * time.Second, Workers: 8}
}

func (h *HelpDiscoverer) Name() string { return "help" }

// Discover runs the CLI with --help and recursively discovers subcommands.
func (h *HelpDiscoverer) Discover(ctx context.Context, cliName string, args []string) (*models.Command, error) {
	if err := CheckAvailable(cliName); err != nil {
		return nil, err
	}
	return h.discover(ctx, cliName, args, 0, "")
}

func (h *HelpDiscoverer) discover(ctx context.Context, cliName string, args []string, depth int, parentHelp string) (*models.Command, error) {
	fullPath := make([]string, 0, 1+len(args))
	fullPath = append(fullPath, cliName)
	fullPath = append(fullPath, args...)

	cmd := &models.Command{
		Name:     fullPath[len(fullPath)-1],
		FullPath: fullPath,
	}

	helpText, err := h.runHelp(ctx, cliName, args)
	if err != nil {
		log.Debug().Err(err).Str("cmd", cmd.FullCommand()).Msg("no help output")
		return cmd, nil
	}
	// CLIs that ignore unknown subcommands print the parent's help again.
	if helpText == parentHelp {
		return cmd, nil
	}

	parsed := ParseHelpOutput(helpText)
	cmd.About = parsed.Description
	cmd.Args = append(parsed.Flags, parsed.Positionals...)

	if depth >= h.MaxDepth || len(parsed.Subcommands) == 0 {
		return cmd, nil
	}

	workers := h.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	children := make([]*models.Command, len(parsed.Subcommands))
	var wg sync.WaitGroup
	for i, sub := range parsed.Subcommands {
		wg.Add(1)
		go func(i int, sub string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			subCtx, cancel := context.WithTimeout(ctx, h.Timeout)
			defer cancel()
			subArgs := append(append([]string{}, args...), sub)
			child, err := h.discover(subCtx, cliName, subArgs, depth+1, helpText)
			if err != nil {
				child = &models.Command{Name: sub, FullPath: append(append([]string{}, fullPath...), sub)}
			}
			if child.About == "" {
				child.About = parsed.SubcommandHelp[sub]
			}
			children[i] = child
		}(i, sub)
	}
	wg.Wait()
	for _, child := range children {
		if child != nil && !isHelpCommand(child) {
			cmd.Subcommands = append(cmd.Subcommands, child)
		}
	}
	return cmd, nil
}

// isHelpCommand reports whether c is the generated "help" subcommand of
// cobra/click style CLIs, which completes commands rather than values.
func isHelpCommand(c *models.Command) bool {
	return c.Name == "help" && len(c.Subcommands) == 0 && len(c.Options()) <= 1
}

// resolveBinary finds the executable for cliName.
// Tries PATH first, then ./cliName (current dir), then the directory of the
// running executable.
func resolveBinary(cliName string) string {
	p, _ := resolveBinaryOrError(cliName)
	return p
}

func resolveBinaryOrError(cliName string) (string, error) {
	if p, err := exec.LookPath(cliName); err == nil {
		return p, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, cliName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), cliName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return cliName, fmt.Errorf("command %q not found in PATH or current directory", cliName)
}

// CheckAvailable returns an error if cliName cannot be resolved to an
// executable.
func CheckAvailable(cliName string) error {
	_, err := resolveBinaryOrError(cliName)
	return err
}

// pagerEnv are environment variable overrides appended to every help command
// so that tools that pipe through a pager emit plain text.
var pagerEnv = []string{
	"AWS_PAGER=",
	"PAGER=cat",
	"MANPAGER=cat",
	"GIT_PAGER=cat",
	"NO_COLOR=1",
}

// truncatedHelpRe matches messages that indicate --help output is abbreviated
// and a more complete form is available (e.g. curl's "use --help all").
var truncatedHelpRe = regexp.MustCompile(`(?i)--help all|--help <category>|not the full help`)

// runHelp tries to get help text for args under cliName: --help, then -h,
// then a trailing `help` positional.
func (h *HelpDiscoverer) runHelp(ctx context.Context, cliName string, args []string) (string, error) {
	resolved := resolveBinary(cliName)

	run := func(cmdArgs []string) string {
		cmd := exec.CommandContext(ctx, resolved, cmdArgs...) //nolint:gosec
		cmd.Env = append(os.Environ(), pagerEnv...)
		out, _ := cmd.CombinedOutput()
		return strings.TrimSpace(string(out))
	}

	for _, flag := range []string{"--help", "-h"} {
		cmdArgs := append(append([]string{}, args...), flag)
		s := run(cmdArgs)
		if s == "" {
			continue
		}
		if truncatedHelpRe.MatchString(s) {
			if s2 := run(append(append([]string{}, args...), "--help", "all")); s2 != "" {
				return s2, nil
			}
		}
		return s, nil
	}

	if s := run(append(append([]string{}, args...), "help")); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("no help output from %s", strings.Join(append([]string{cliName}, args...), " "))
}
