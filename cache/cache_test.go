package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/aallbrig/compspec/cache"
	"github.com/aallbrig/compspec/models"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleCommand() *models.Command {
	return &models.Command{
		Name:     "git",
		FullPath: []string{"git"},
		About:    "version control",
		Args: []models.Arg{
			{ID: "verbose", Long: "verbose", Short: "v", Action: models.ActionCount},
			{ID: "pathspec", Positional: true, Index: 1, MaxValues: models.Unlimited, ValueHint: models.HintAnyPath},
		},
		Subcommands: []*models.Command{{Name: "push", FullPath: []string{"git", "push"}}},
	}
}

func TestCachePutGet(t *testing.T) {
	c := openCache(t)
	cmd := sampleCommand()
	key := cache.Key("git", "2.40.0", []string{"help"})

	if err := c.Put(key, "git", "2.40.0", "help", cmd); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := c.Get(key, 0)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.About != cmd.About {
		t.Errorf("About = %q, want %q", got.About, cmd.About)
	}
	pos := got.Arg("pathspec")
	if pos == nil || !pos.Unbounded() || pos.ValueHint != models.HintAnyPath {
		t.Errorf("pathspec round trip = %+v", pos)
	}
	if v := got.Arg("verbose"); v == nil || v.Action != models.ActionCount {
		t.Errorf("verbose round trip = %+v", v)
	}
	if sub := got.Find("push"); sub == nil || sub.FullCommand() != "git push" {
		t.Errorf("push round trip = %+v", sub)
	}
}

func TestCacheGet_notFound(t *testing.T) {
	c := openCache(t)
	got, err := c.Get("nonexistent", 0)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing key")
	}
}

func TestCacheGet_expired(t *testing.T) {
	c := openCache(t)
	key := cache.Key("git", "2.40.0", []string{"help"})
	if err := c.Put(key, "git", "2.40.0", "help", sampleCommand()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	time.Sleep(time.Millisecond)
	got, err := c.Get(key, time.Nanosecond)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for expired entry")
	}
}

func TestCacheDelete(t *testing.T) {
	c := openCache(t)
	key := cache.Key("git", "2.40.0", []string{"help"})
	_ = c.Put(key, "git", "2.40.0", "help", sampleCommand())
	_ = c.Delete(key)

	got, err := c.Get(key, 0)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestCacheClearAndList(t *testing.T) {
	c := openCache(t)
	for _, cli := range []string{"kubectl", "git"} {
		for _, v := range []string{"1.0", "2.0"} {
			if err := c.Put(cache.Key(cli, v, []string{"help"}), cli, v, "help", sampleCommand()); err != nil {
				t.Fatalf("Put() error: %v", err)
			}
		}
	}

	names, err := c.ListCLIs()
	if err != nil {
		t.Fatalf("ListCLIs() error: %v", err)
	}
	if len(names) != 2 || names[0] != "git" || names[1] != "kubectl" {
		t.Errorf("ListCLIs() = %v, want [git kubectl]", names)
	}
	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("Entries() = %d entries, want 4", len(entries))
	}

	if err := c.ClearCLI("git"); err != nil {
		t.Fatalf("ClearCLI() error: %v", err)
	}
	names, _ = c.ListCLIs()
	if len(names) != 1 || names[0] != "kubectl" {
		t.Errorf("after ClearCLI, ListCLIs() = %v", names)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	names, _ = c.ListCLIs()
	if len(names) != 0 {
		t.Errorf("after Clear, ListCLIs() = %v", names)
	}
}

func TestKey(t *testing.T) {
	k1 := cache.Key("git", "2.40", []string{"help"})
	k2 := cache.Key("git", "2.40", []string{"help"})
	k3 := cache.Key("git", "2.41", []string{"help"})
	k4 := cache.Key("git", "2.40", []string{"help", "manifest:git.toml"})
	if k1 != k2 {
		t.Error("identical inputs should produce same key")
	}
	if k1 == k3 || k1 == k4 {
		t.Error("different inputs should produce different keys")
	}
}

func TestCLIVersion(t *testing.T) {
	if v := cache.CLIVersion(context.Background(), "nonexistent_cli_99999"); v != "unknown" {
		t.Errorf("expected 'unknown' for nonexistent CLI, got %q", v)
	}
}
