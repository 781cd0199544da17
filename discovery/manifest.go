package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/compspec/models"
)

var (
	ErrUnboundedNotLast = errors.New("only the last positional may accept unlimited values")
	ErrDuplicateArg     = errors.New("duplicate argument")
	ErrUnnamedFlag      = errors.New("flag needs a long or short name")
	ErrEmptyName        = errors.New("command name is empty")
	ErrNullCommand      = errors.New("subcommand entry is empty")
)

// Manifest formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatForPath picks the manifest format from a file extension. JSON is
// read with the YAML decoder.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported manifest extension %q", filepath.Ext(path))
	}
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*models.Command, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	cmd, err := ParseManifest(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmd, nil
}

// ParseManifest decodes a manifest, fills defaults and validates it.
func ParseManifest(data []byte, format string) (*models.Command, error) {
	var cmd models.Command
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cmd); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cmd); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
	if err := normalize(&cmd, nil); err != nil {
		return nil, err
	}
	if err := Validate(&cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// normalize fills arg IDs, positional indexes and full paths. Positionals
// without an id are named arg<index>.
func normalize(cmd *models.Command, parent []string) error {
	cmd.FullPath = append(append([]string{}, parent...), cmd.Name)
	pos := 0
	for i := range cmd.Args {
		a := &cmd.Args[i]
		if a.Positional {
			pos++
			if a.Index == 0 {
				a.Index = pos
			}
		}
		if a.ID == "" {
			a.ID = a.Long
			if a.ID == "" {
				a.ID = a.Short
			}
			if a.ID == "" && a.Positional {
				a.ID = fmt.Sprintf("arg%d", a.Index)
			}
		}
	}
	for i, sub := range cmd.Subcommands {
		if sub == nil {
			return fmt.Errorf("%s: %w (entry %d)", strings.Join(cmd.FullPath, " "), ErrNullCommand, i+1)
		}
		if err := normalize(sub, cmd.FullPath); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the structural rules every source must satisfy.
func Validate(cmd *models.Command) error {
	var err error
	cmd.Walk(func(c *models.Command) {
		if err != nil {
			return
		}
		err = validateCommand(c)
	})
	return err
}

func validateCommand(c *models.Command) error {
	if c.Name == "" {
		return ErrEmptyName
	}
	seen := map[string]bool{}
	var last *models.Arg
	for i := range c.Args {
		a := &c.Args[i]
		if seen[a.ID] {
			return fmt.Errorf("%s: %w %q", c.FullCommand(), ErrDuplicateArg, a.ID)
		}
		seen[a.ID] = true
		if a.Positional {
			if last == nil || a.Index > last.Index {
				last = a
			}
			continue
		}
		if a.Long == "" && a.Short == "" {
			return fmt.Errorf("%s: %w (%s)", c.FullCommand(), ErrUnnamedFlag, a.ID)
		}
		if len([]rune(a.Short)) > 1 {
			return fmt.Errorf("%s: short name %q of %s must be one character", c.FullCommand(), a.Short, a.ID)
		}
	}
	for i := range c.Args {
		a := &c.Args[i]
		if a.Positional && a.Unbounded() && a != last {
			return fmt.Errorf("%s: %w (%s)", c.FullCommand(), ErrUnboundedNotLast, a.ID)
		}
	}
	return nil
}

// ManifestDiscoverer serves a manifest file as a discovery source.
type ManifestDiscoverer struct {
	Path string
}

func (m *ManifestDiscoverer) Name() string { return "manifest" }

// Discover loads the manifest and checks that its root is cliName.
func (m *ManifestDiscoverer) Discover(_ context.Context, cliName string, _ []string) (*models.Command, error) {
	cmd, err := LoadManifest(m.Path)
	if err != nil {
		return nil, err
	}
	if cliName != "" && cmd.Name != cliName {
		return nil, fmt.Errorf("manifest %s describes %q, not %q", m.Path, cmd.Name, cliName)
	}
	return cmd, nil
}
