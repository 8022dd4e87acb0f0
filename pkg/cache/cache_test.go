package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(data) != "value" {
		t.Errorf("data = %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("hit after delete")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestFileCache_ShardsByKind(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	k := NewDefaultKeyer()
	if err := c.Set(ctx, k.LayoutKey("h", LayoutKeyOpts{}), []byte("lay"), 0); err != nil {
		t.Fatalf("Set layout: %v", err)
	}
	if err := c.Set(ctx, k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), []byte("art"), 0); err != nil {
		t.Fatalf("Set artifact: %v", err)
	}

	for _, kind := range []string{"layout", "artifact"} {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil {
			t.Fatalf("missing %s shard: %v", kind, err)
		}
		if len(entries) != 1 {
			t.Errorf("%s shard has %d entries, want 1", kind, len(entries))
		}
	}
}

func TestFileCache_CorruptEntryMisses(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "layout:x", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	path := filepath.Join(dir, "layout", Hash([]byte("layout:x"))+".json")
	if err := os.WriteFile(path, []byte("not an envelope"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	if _, ok, err := c.Get(ctx, "layout:x"); ok || err != nil {
		t.Errorf("Get corrupt entry: ok=%v err=%v, want miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed on read")
	}
}

func TestFileCache_DeleteMissingKey(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Delete(context.Background(), "never-set"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache should never hit")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.LayoutKey("hash1", LayoutKeyOpts{Width: 800, Height: 600})
	b := k.LayoutKey("hash1", LayoutKeyOpts{Width: 800, Height: 600})
	if a != b {
		t.Error("identical inputs should produce identical keys")
	}
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("key = %q, want layout: prefix", a)
	}

	c := k.LayoutKey("hash1", LayoutKeyOpts{Width: 400, Height: 300})
	if a == c {
		t.Error("different bounds should produce different keys")
	}

	d := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "svg"})
	e := k.ArtifactKey("lh", ArtifactKeyOpts{Format: "png"})
	if d == e {
		t.Error("different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "map:abc:")

	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "map:abc:layout:") {
		t.Errorf("key = %q, want map:abc: prefix", key)
	}
	if !strings.HasSuffix(key, strings.TrimPrefix(base.LayoutKey("h", LayoutKeyOpts{}), "layout:")) {
		t.Error("scoped key should wrap the inner key")
	}
}

func TestHash_Stable(t *testing.T) {
	if Hash([]byte("x")) != Hash([]byte("x")) {
		t.Error("hash not stable")
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Errorf("hash length = %d, want 64", len(Hash([]byte("x"))))
	}
}
