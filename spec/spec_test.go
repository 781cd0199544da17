package spec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/spec"
)

func exampleCommand() *models.Command {
	return &models.Command{
		Name:    "example",
		Aliases: []string{"alias1", "alias2"},
		About:   "example command",
		Args: []models.Arg{
			{ID: "help", Long: "help", Short: "h", Help: "show help", Action: models.ActionSetTrue},
			{ID: "optional", Long: "optional", Help: "optional argument", RequireEquals: true, ValueHint: models.HintUsername},
			{ID: "value", Short: "v", Help: "takes argument", Values: []models.PossibleValue{{Name: "one"}, {Name: "two"}, {Name: "three"}}},
		},
		Subcommands: []*models.Command{
			{
				Name:  "subcommand",
				About: "example subcommand",
				Args: []models.Arg{
					{ID: "command", Long: "command", Short: "c", Help: "execute command", ValueHint: models.HintCommandName},
					{ID: "pos1", Positional: true, Index: 1, ValueHint: models.HintDirPath,
						Values: []models.PossibleValue{{Name: "four"}, {Name: "five"}, {Name: "six"}}},
					{ID: "posAny", Positional: true, Index: 2, MaxValues: models.Unlimited, ValueHint: models.HintHostname},
				},
			},
		},
	}
}

// decode parses generated YAML back into a generic tree.
func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

// mappingKeys returns the keys of the mapping found at path in document
// order.
func mappingKeys(t *testing.T, data []byte, path ...string) []string {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &doc))
	n := doc.Content[0]
	for _, p := range path {
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == p {
				next = n.Content[i+1]
			}
		}
		require.NotNil(t, next, "missing key %q", p)
		n = next
	}
	require.Equal(t, yaml.MappingNode, n.Kind)
	var keys []string
	for i := 0; i < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

func TestMarshal_example(t *testing.T) {
	data, err := spec.Marshal(exampleCommand())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "aliases", "description", "flags", "completion", "commands"}, mappingKeys(t, data))
	assert.Equal(t, []string{"-h, --help", "--optional?", "-v="}, mappingKeys(t, data, "flags"))

	got := decode(t, data)
	assert.Equal(t, "example", got["name"])
	assert.Equal(t, []any{"alias1", "alias2"}, got["aliases"])
	assert.Equal(t, "example command", got["description"])
	assert.Equal(t, map[string]any{
		"-h, --help":  "show help",
		"--optional?": "optional argument",
		"-v=":         "takes argument",
	}, got["flags"])
	assert.Equal(t, map[string]any{
		"flag": map[string]any{
			"optional": []any{"$_os.Users"},
			"v":        []any{"one", "two", "three"},
		},
	}, got["completion"])

	subs := got["commands"].([]any)
	require.Len(t, subs, 1)
	sub := subs[0].(map[string]any)
	assert.Equal(t, map[string]any{
		"name":        "subcommand",
		"description": "example subcommand",
		"flags":       map[string]any{"-c, --command=": "execute command"},
		"completion": map[string]any{
			"flag":          map[string]any{"command": []any{"$_os.PathExecutables", "$files"}},
			"positional":    []any{[]any{"$directories", "four", "five", "six"}},
			"positionalany": []any{"$_net.Hosts"},
		},
	}, sub)
}

func TestMarshal_deterministic(t *testing.T) {
	a, err := spec.Marshal(exampleCommand())
	require.NoError(t, err)
	b, err := spec.Marshal(exampleCommand())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMarshal_aliasesNoDescription(t *testing.T) {
	data, err := spec.Marshal(&models.Command{Name: "aliases", Aliases: []string{"alias1", "alias2"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `description: ""`)
	got := decode(t, data)
	assert.Equal(t, []any{"alias1", "alias2"}, got["aliases"])
	assert.Equal(t, "", got["description"])
}

func TestMarshal_omitsEmptyFields(t *testing.T) {
	data, err := spec.Marshal(&models.Command{Name: "bare"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "description"}, mappingKeys(t, data))
}

func TestMarshal_persistentFlags(t *testing.T) {
	cmd := &models.Command{
		Name: "tool",
		Args: []models.Arg{
			{ID: "verbose", Long: "verbose", Global: true, Action: models.ActionCount, Help: "more output"},
			{ID: "name", Long: "name"},
		},
	}
	data, err := spec.Marshal(cmd)
	require.NoError(t, err)
	got := decode(t, data)
	assert.Equal(t, map[string]any{"--verbose*": "more output"}, got["persistentflags"])
	assert.Equal(t, map[string]any{"--name=": ""}, got["flags"])
}

func TestMarshal_hiddenCommandsAndArgs(t *testing.T) {
	cmd := &models.Command{
		Name: "tool",
		Args: []models.Arg{
			{ID: "secret", Long: "secret", Hidden: true, ValueHint: models.HintFilePath},
			{ID: "internal", Positional: true, Hidden: true, ValueHint: models.HintDirPath},
		},
		Subcommands: []*models.Command{
			{Name: "visible"},
			{Name: "debug", Hidden: true},
		},
	}
	c := spec.CommandFor(cmd)
	assert.Zero(t, c.Flags.Len())
	assert.True(t, c.Completion.IsEmpty())
	require.Len(t, c.Commands, 1)
	assert.Equal(t, "visible", c.Commands[0].Name)

	data, err := spec.Encode(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "debug")
}

func TestMarshal_emptyPositionalSlotKept(t *testing.T) {
	cmd := &models.Command{
		Name: "cp",
		Args: []models.Arg{
			{ID: "dst", Positional: true, Index: 2, ValueHint: models.HintDirPath},
			{ID: "name", Positional: true, Index: 1},
		},
	}
	data, err := spec.Marshal(cmd)
	require.NoError(t, err)
	got := decode(t, data)
	assert.Equal(t, map[string]any{
		"positional": []any{[]any{}, []any{"$directories"}},
	}, got["completion"])
}

func TestMarshal_valueDescriptions(t *testing.T) {
	cmd := &models.Command{
		Name: "tool",
		Args: []models.Arg{{
			ID: "color", Long: "color",
			Values: []models.PossibleValue{
				{Name: "auto", Help: "detect terminal"},
				{Name: "never"},
				{Name: "legacy", Hidden: true},
			},
		}},
	}
	data, err := spec.Marshal(cmd)
	require.NoError(t, err)
	got := decode(t, data)
	assert.Equal(t, map[string]any{
		"flag": map[string]any{"color": []any{"auto\tdetect terminal", "never"}},
	}, got["completion"])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestGenerator(t *testing.T) {
	var g spec.Generator
	assert.Equal(t, "example.yaml", g.FileName("example"))

	var buf bytes.Buffer
	require.NoError(t, g.Generate(exampleCommand(), &buf))
	want, err := spec.Marshal(exampleCommand())
	require.NoError(t, err)
	assert.Equal(t, want, buf.Bytes())

	err = g.Generate(exampleCommand(), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCommandFor_doesNotMutateInput(t *testing.T) {
	cmd := exampleCommand()
	before := cmd.Clone()
	_ = spec.CommandFor(cmd)
	assert.Equal(t, before, cmd)
}

func TestCommandFor_leafHasNoCommands(t *testing.T) {
	c := spec.CommandFor(&models.Command{Name: "leaf"})
	assert.NotNil(t, c.Commands)
	assert.Empty(t, c.Commands)
}

func TestCommandWalkAndFind(t *testing.T) {
	c := spec.CommandFor(exampleCommand())
	require.NotNil(t, c.Find("subcommand"))
	assert.Nil(t, c.Find("missing"))
	var names []string
	c.Walk(func(n *spec.Command) { names = append(names, n.Name) })
	assert.Equal(t, []string{"example", "subcommand"}, names)
}
