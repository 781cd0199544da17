package models_test

import (
	"testing"

	"github.com/aallbrig/compspec/models"
)

func TestCommandFullCommand(t *testing.T) {
	c := &models.Command{Name: "add", FullPath: []string{"git", "remote", "add"}}
	if got := c.FullCommand(); got != "git remote add" {
		t.Errorf("FullCommand() = %q, want %q", got, "git remote add")
	}
	bare := &models.Command{Name: "git"}
	if got := bare.FullCommand(); got != "git" {
		t.Errorf("FullCommand() = %q, want %q", got, "git")
	}
}

func TestCommandFind(t *testing.T) {
	child := &models.Command{Name: "remove", Aliases: []string{"rm"}}
	parent := &models.Command{Name: "git", Subcommands: []*models.Command{child}}
	if found := parent.Find("remove"); found != child {
		t.Error("expected to find 'remove'")
	}
	if found := parent.Find("rm"); found != child {
		t.Error("expected to find 'remove' by alias")
	}
	if found := parent.Find("nonexistent"); found != nil {
		t.Error("expected nil for nonexistent child")
	}
}

func TestCommandWalk(t *testing.T) {
	tree := &models.Command{
		Name: "git",
		Subcommands: []*models.Command{
			{Name: "commit"},
			{Name: "remote", Subcommands: []*models.Command{{Name: "add"}}},
		},
	}
	var names []string
	tree.Walk(func(c *models.Command) { names = append(names, c.Name) })
	expected := []string{"git", "commit", "remote", "add"}
	if len(names) != len(expected) {
		t.Fatalf("Walk() visited %d commands, want %d", len(names), len(expected))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Walk() visited[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestCommandClone(t *testing.T) {
	orig := &models.Command{
		Name: "git",
		Args: []models.Arg{{ID: "color", Long: "color", Values: []models.PossibleValue{{Name: "auto"}}}},
		Subcommands: []*models.Command{{Name: "commit"}},
	}
	clone := orig.Clone()
	clone.Name = "modified"
	clone.Args[0].Values[0].Name = "never"
	clone.Subcommands[0].Name = "push"
	if orig.Name != "git" {
		t.Error("modifying clone name affected original")
	}
	if orig.Args[0].Values[0].Name != "auto" {
		t.Error("modifying clone values affected original")
	}
	if orig.Subcommands[0].Name != "commit" {
		t.Error("modifying clone subcommand affected original")
	}
}

func TestCommandPositionalsAndOptions(t *testing.T) {
	c := &models.Command{Args: []models.Arg{
		{ID: "verbose", Long: "verbose", Action: models.ActionSetTrue},
		{ID: "file", Positional: true},
		{ID: "output", Short: "o"},
	}}
	if got := len(c.Positionals()); got != 1 {
		t.Errorf("Positionals() = %d, want 1", got)
	}
	if got := len(c.Options()); got != 2 {
		t.Errorf("Options() = %d, want 2", got)
	}
	if c.Arg("output") == nil || c.Arg("missing") != nil {
		t.Error("Arg() lookup mismatch")
	}
}

func TestArgSortKey(t *testing.T) {
	tests := []struct {
		arg  models.Arg
		want string
	}{
		{models.Arg{Long: "value", Short: "v"}, "value"},
		{models.Arg{Short: "v"}, "v"},
		{models.Arg{Long: "long"}, "long"},
	}
	for _, tt := range tests {
		if got := tt.arg.SortKey(); got != tt.want {
			t.Errorf("SortKey() = %q, want %q", got, tt.want)
		}
	}
}

func TestArgActionProperties(t *testing.T) {
	tests := []struct {
		action     models.ArgAction
		takes      bool
		cumulative bool
	}{
		{models.ActionSet, true, false},
		{models.ActionAppend, true, true},
		{models.ActionSetTrue, false, false},
		{models.ActionSetFalse, false, false},
		{models.ActionCount, false, true},
		{models.ActionHelp, false, false},
		{models.ActionVersion, false, false},
	}
	for _, tt := range tests {
		if got := tt.action.TakesValues(); got != tt.takes {
			t.Errorf("%s.TakesValues() = %v, want %v", tt.action, got, tt.takes)
		}
		if got := tt.action.Cumulative(); got != tt.cumulative {
			t.Errorf("%s.Cumulative() = %v, want %v", tt.action, got, tt.cumulative)
		}
	}
}

func TestParseValueHint(t *testing.T) {
	for h := models.HintUnknown; h <= models.HintEmailAddress; h++ {
		got, err := models.ParseValueHint(h.String())
		if err != nil {
			t.Fatalf("ParseValueHint(%q) error: %v", h.String(), err)
		}
		if got != h {
			t.Errorf("ParseValueHint(%q) = %v, want %v", h.String(), got, h)
		}
	}
	if got, err := models.ParseValueHint(""); err != nil || got != models.HintUnknown {
		t.Errorf("ParseValueHint(\"\") = %v, %v", got, err)
	}
	if _, err := models.ParseValueHint("phone-number"); err == nil {
		t.Error("expected error for unknown hint")
	}
}

func TestArgUnbounded(t *testing.T) {
	a := models.Arg{MaxValues: models.Unlimited}
	if !a.Unbounded() {
		t.Error("expected Unbounded() for Unlimited")
	}
	b := models.Arg{}
	if b.Unbounded() {
		t.Error("zero MaxValues should not be unbounded")
	}
}
