package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/compspec/cmd"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COMPSPEC_CACHE_DIR", filepath.Join(home, "cache"))
	c := cmd.NewRootCmd()
	out := &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func decodeSpec(t *testing.T, out string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	return doc
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "compspec ") {
		t.Errorf("version output = %q, want 'compspec ...'", out)
	}
}

func TestRootNoArgs(t *testing.T) {
	if _, err := runCmd(t); err == nil {
		t.Error("expected error with no args")
	}
}

func TestRootHelp(t *testing.T) {
	out, err := runCmd(t, "--help")
	if err != nil {
		t.Fatalf("--help error: %v", err)
	}
	if !strings.Contains(out, "compspec") {
		t.Errorf("help output missing 'compspec': %q", out)
	}
}

func TestRootNonexistentCLI(t *testing.T) {
	if _, err := runCmd(t, "--no-cache", "--timeout=5s", "nonexistent_cli_12345"); err == nil {
		t.Error("expected discovery error for a missing CLI")
	}
}

func TestExample(t *testing.T) {
	out, err := runCmd(t, "example")
	if err != nil {
		t.Fatalf("example error: %v", err)
	}
	doc := decodeSpec(t, out)
	if doc["name"] != "example" {
		t.Errorf("name = %v", doc["name"])
	}
	flags, _ := doc["flags"].(map[string]any)
	if flags["--optional?"] != "optional argument" {
		t.Errorf("flags = %v, want --optional? entry", flags)
	}
	if flags["-v="] != "takes argument" {
		t.Errorf("flags = %v, want short-only -v= entry", flags)
	}
	completion, _ := doc["completion"].(map[string]any)
	flagCompletion, _ := completion["flag"].(map[string]any)
	if got, _ := flagCompletion["optional"].([]any); len(got) != 1 || got[0] != "$_os.Users" {
		t.Errorf("completion.flag.optional = %v, want [$_os.Users]", got)
	}
	if !strings.Contains(out, "positionalany:\n") || !strings.Contains(out, "$_net.Hosts") {
		t.Errorf("expected the unbounded hostname positional in:\n%s", out)
	}
}

func TestExample_outputFormats(t *testing.T) {
	out, err := runCmd(t, "example", "--output=json")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	if !strings.Contains(out, `"value_hint": "username"`) {
		t.Errorf("expected JSON command description, got: %q", out)
	}

	out, err = runCmd(t, "example", "-o", "text", "--no-color")
	if err != nil {
		t.Fatalf("text error: %v", err)
	}
	if !strings.Contains(out, "subcommand") || !strings.Contains(out, "--optional?") {
		t.Errorf("expected text tree, got: %q", out)
	}

	if _, err := runCmd(t, "example", "--output=xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestExample_outDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "specs")
	out, err := runCmd(t, "example", "--out-dir", dir)
	if err != nil {
		t.Fatalf("example --out-dir error: %v", err)
	}
	path := filepath.Join(dir, "example.yaml")
	if strings.TrimSpace(out) != path {
		t.Errorf("output = %q, want %q", out, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("spec file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "name: example\n") {
		t.Errorf("spec file = %q", data)
	}
}

func TestSelf(t *testing.T) {
	out, err := runCmd(t, "self")
	if err != nil {
		t.Fatalf("self error: %v", err)
	}
	doc := decodeSpec(t, out)
	if doc["name"] != "compspec" {
		t.Errorf("name = %v", doc["name"])
	}
	for _, want := range []string{"name: convert", "name: cache", "-o, --output=", "$_os.PathExecutables"} {
		if !strings.Contains(out, want) {
			t.Errorf("self spec missing %q", want)
		}
	}
	completion, _ := doc["completion"].(map[string]any)
	flagCompletion, _ := completion["flag"].(map[string]any)
	wantActions := map[string]string{
		"config":  "$files",
		"out-dir": "$directories",
	}
	for flag, action := range wantActions {
		got, _ := flagCompletion[flag].([]any)
		if len(got) != 1 || got[0] != action {
			t.Errorf("completion.flag.%s = %v, want [%s]", flag, got, action)
		}
	}
	if _, ok := flagCompletion["output"]; !ok {
		t.Errorf("completion.flag = %v, want an output entry", flagCompletion)
	}
}

func TestNewRootCmd_flagWiring(t *testing.T) {
	root := cmd.NewRootCmd()
	config := root.PersistentFlags().Lookup("config")
	if config == nil {
		t.Fatal("missing --config flag")
	}
	if _, ok := config.Annotations[cobra.BashCompFilenameExt]; !ok {
		t.Errorf("--config annotations = %v, want filename extensions", config.Annotations)
	}
	if root.Flags().Lookup("call-timeout") == nil {
		t.Error("missing --call-timeout flag")
	}
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.yaml")
	manifest := "name: tool\nabout: a tool\nargs:\n  - {long: host, value_hint: hostname}\n"
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, "convert", path)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	doc := decodeSpec(t, out)
	if doc["name"] != "tool" || doc["description"] != "a tool" {
		t.Errorf("spec = %v", doc)
	}
	completion, _ := doc["completion"].(map[string]any)
	flagCompletion, _ := completion["flag"].(map[string]any)
	if got, _ := flagCompletion["host"].([]any); len(got) != 1 || got[0] != "$_net.Hosts" {
		t.Errorf("completion.flag.host = %v, want [$_net.Hosts]", got)
	}

	if _, err := runCmd(t, "convert", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing manifest")
	}
}

func TestCacheList_empty(t *testing.T) {
	out, err := runCmd(t, "cache", "list")
	if err != nil {
		t.Fatalf("cache list error: %v", err)
	}
	if !strings.Contains(out, "(cache is empty)") {
		t.Errorf("cache list output = %q", out)
	}
	out, err = runCmd(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cache cleared.") {
		t.Errorf("cache clear output = %q", out)
	}
}
