package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/aallbrig/compspec/models"
)

// Merge combines results from multiple discoverers into a single tree.
// Later discoverers fill in gaps from earlier ones.
func Merge(trees []*models.Command) *models.Command {
	if len(trees) == 0 {
		return nil
	}
	result := trees[0].Clone()
	for _, t := range trees[1:] {
		mergeInto(result, t)
	}
	return result
}

func mergeInto(dst, src *models.Command) {
	if src == nil {
		return
	}
	if dst.About == "" {
		dst.About = src.About
	}

	aliases := map[string]bool{}
	for _, a := range dst.Aliases {
		aliases[a] = true
	}
	for _, a := range src.Aliases {
		if !aliases[a] {
			dst.Aliases = append(dst.Aliases, a)
		}
	}

	// Arguments are deduplicated by ID; the first source wins.
	for _, a := range src.Args {
		if dst.Arg(a.ID) == nil {
			dst.Args = append(dst.Args, a)
		}
	}

	for _, srcChild := range src.Subcommands {
		found := false
		for _, dstChild := range dst.Subcommands {
			if dstChild.Name == srcChild.Name {
				mergeInto(dstChild, srcChild)
				found = true
				break
			}
		}
		if !found {
			dst.Subcommands = append(dst.Subcommands, srcChild.Clone())
		}
	}
}

// Run executes all discoverers and merges their results.
func Run(ctx context.Context, discoverers []Discoverer, cliName string) (*models.Command, error) {
	if len(discoverers) == 0 {
		discoverers = []Discoverer{NewHelpDiscoverer(-1)}
	}

	var trees []*models.Command
	var lastErr error
	for _, d := range discoverers {
		tree, err := d.Discover(ctx, cliName, nil)
		if err != nil {
			lastErr = err
			continue
		}
		trees = append(trees, tree)
	}
	if len(trees) == 0 {
		return nil, lastErr
	}
	return Merge(trees), nil
}

// BuildDiscoverers creates Discoverer instances from strategy names.
// "manifest:<path>" loads a manifest file as an extra source.
func BuildDiscoverers(strategies []string, maxDepth int, callTimeout time.Duration) []Discoverer {
	newHelp := func() Discoverer {
		h := NewHelpDiscoverer(maxDepth)
		if callTimeout > 0 {
			h.Timeout = callTimeout
		}
		return h
	}
	var result []Discoverer
	for _, s := range strategies {
		if s == "help" {
			result = append(result, newHelp())
		} else if path, ok := strings.CutPrefix(s, "manifest:"); ok && path != "" {
			result = append(result, &ManifestDiscoverer{Path: path})
		}
	}
	if len(result) == 0 {
		result = append(result, newHelp())
	}
	return result
}
